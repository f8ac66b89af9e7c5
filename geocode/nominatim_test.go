// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jcodagnone/distritos/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const westminsterJSON = `{
  "place_id": 258245318,
  "licence": "Data © OpenStreetMap contributors, ODbL 1.0. http://osm.org/copyright",
  "osm_type": "way",
  "lat": "51.5000779",
  "lon": "-0.1199898",
  "category": "highway",
  "display_name": "Westminster Bridge Road, Westminster, London, Greater London, England, SE1 7PB, United Kingdom",
  "address": {
    "road": "Westminster Bridge Road",
    "district": "Westminster",
    "city": "London",
    "ISO3166-2-lvl4": "GB-ENG",
    "postcode": "SE1 7PB",
    "country": "United Kingdom",
    "country_code": "gb"
  }
}`

func newTestGeocoder(t *testing.T, handler http.HandlerFunc, opts NominatimOptions) *NominatimGeocoder {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts.Endpoint = srv.URL + "/"

	return NewNominatimGeocoder(opts)
}

func TestNominatimReverse(t *testing.T) {
	var got *http.Request

	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(westminsterJSON))
	}, NominatimOptions{UserAgent: "distritos/test", Language: "en"})

	place, err := g.Reverse(context.Background(), spatial.Point{Lat: 51.50, Lng: -0.12})
	require.NoError(t, err)
	require.NotNil(t, place)

	require.NotNil(t, got)
	assert.Equal(t, "/reverse", got.URL.Path)
	assert.Equal(t, "51.5", got.URL.Query().Get("lat"))
	assert.Equal(t, "-0.12", got.URL.Query().Get("lon"))
	assert.Equal(t, "jsonv2", got.URL.Query().Get("format"))
	assert.Equal(t, "1", got.URL.Query().Get("addressdetails"))
	assert.Equal(t, "distritos/test", got.Header.Get("User-Agent"))
	assert.Equal(t, "en", got.Header.Get("Accept-Language"))

	expected := &Place{
		PlaceID:     258245318,
		DisplayName: "Westminster Bridge Road, Westminster, London, Greater London, England, SE1 7PB, United Kingdom",
		Point:       spatial.Point{Lat: 51.5000779, Lng: -0.1199898},
		Address: Address{
			"road":           "Westminster Bridge Road",
			"district":       "Westminster",
			"city":           "London",
			"ISO3166-2-lvl4": "GB-ENG",
			"postcode":       "SE1 7PB",
			"country":        "United Kingdom",
			"country_code":   "gb",
		},
		Provider: "nominatim",
	}
	if diff := cmp.Diff(expected, place); diff != "" {
		t.Errorf("Reverse() mismatch (-want +got):\n%s", diff)
	}
}

func TestNominatimReverseUnableToGeocode(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}, NominatimOptions{})

	place, err := g.Reverse(context.Background(), spatial.Point{Lat: 0, Lng: -30})
	require.NoError(t, err)
	assert.Nil(t, place)
}

func TestNominatimReverseErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "invalid coordinates",
			status:   http.StatusBadRequest,
			body:     `{"error":{"code":400,"message":"Invalid coordinates"}}`,
			wantType: ErrorTypeInvalidRequest,
			wantMsg:  "invalid request (HTTP 400): Invalid coordinates",
		},
		{
			name:     "throttled",
			status:   http.StatusTooManyRequests,
			body:     `<html>Too many requests</html>`,
			wantType: ErrorTypeRateLimit,
			wantMsg:  "rate limit reached (HTTP 429)",
		},
		{
			name:     "gateway timeout",
			status:   http.StatusGatewayTimeout,
			wantType: ErrorTypeTimeout,
			wantMsg:  "service timed out (HTTP 504)",
		},
		{
			name:     "error member in a 200",
			status:   http.StatusOK,
			body:     `{"error":"Parameter 'lat' expected"}`,
			wantType: ErrorTypeInvalidRequest,
			wantMsg:  "Parameter 'lat' expected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, NominatimOptions{})

			place, err := g.Reverse(context.Background(), spatial.Point{Lat: 200, Lng: 200})
			assert.Nil(t, place)

			var ge *GeocodingError
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, tt.wantType, ge.Type)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestNominatimReverseMalformed(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"place_id":`))
	}, NominatimOptions{})

	_, err := g.Reverse(context.Background(), spatial.Point{Lat: 1, Lng: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
	assert.False(t, IsTimeoutError(err))
}

func TestNominatimReverseTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	g := newTestGeocoder(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, NominatimOptions{Timeout: 50 * time.Millisecond})

	_, err := g.Reverse(context.Background(), spatial.Point{Lat: 1, Lng: 1})
	require.Error(t, err)
	assert.True(t, IsTimeoutError(err), "got %v", err)

	var ge *GeocodingError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, ErrorTypeTimeout, ge.Type)
}

func TestNominatimReverseUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	g := NewNominatimGeocoder(NominatimOptions{Endpoint: endpoint})

	_, err := g.Reverse(context.Background(), spatial.Point{Lat: 1, Lng: 1})

	var ge *GeocodingError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, ErrorTypeNetworkError, ge.Type)
	assert.False(t, IsTimeoutError(err))
}

func TestNominatimReverseCanceled(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(westminsterJSON))
	}, NominatimOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Reverse(ctx, spatial.Point{Lat: 1, Lng: 1})
	require.ErrorIs(t, err, context.Canceled)

	var ge *GeocodingError
	assert.False(t, errors.As(err, &ge))
}

func TestNominatimTrace(t *testing.T) {
	var trace bytes.Buffer

	g := newTestGeocoder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(westminsterJSON))
	}, NominatimOptions{TraceWriter: &trace, TraceBody: true})

	_, err := g.Reverse(context.Background(), spatial.Point{Lat: 51.5, Lng: -0.12})
	require.NoError(t, err)
	assert.Contains(t, trace.String(), "> GET /reverse?")
	assert.Contains(t, trace.String(), "Westminster Bridge Road")
}
