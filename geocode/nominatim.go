// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jcodagnone/distritos/spatial"
	"github.com/jcodagnone/distritos/utils/httputils"
)

const (
	// DefaultNominatimEndpoint is the public OpenStreetMap instance.
	DefaultNominatimEndpoint = "https://nominatim.openstreetmap.org"

	// DefaultTimeout bounds a single reverse request.
	DefaultTimeout = 10 * time.Second

	nominatimProvider = "nominatim"
	unableToGeocode   = "Unable to geocode"
	maxResponseBytes  = 1 << 20
)

// NominatimOptions configures a NominatimGeocoder.
type NominatimOptions struct {
	// Endpoint is the base URL of the Nominatim instance
	Endpoint string

	// UserAgent identifies the client, as required by the usage policy
	UserAgent string

	// Language is sent as Accept-Language when not empty
	Language string

	// Timeout for each request; DefaultTimeout when zero
	Timeout time.Duration

	// TraceWriter receives a dump of every HTTP transaction when not nil
	TraceWriter io.Writer

	// TraceBody includes the bodies in the dump
	TraceBody bool

	// Transport overrides the base transport (tests)
	Transport http.RoundTripper
}

// NominatimGeocoder resolves points with the Nominatim /reverse API.
type NominatimGeocoder struct {
	endpoint   string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a new Nominatim geocoder.
func NewNominatimGeocoder(options NominatimOptions) *NominatimGeocoder {
	endpoint := strings.TrimRight(options.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultNominatimEndpoint
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	userAgent := "distritos/unknown"
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	headers := map[string]string{
		"User-Agent": userAgent,
		"Accept":     "application/json",
	}
	if options.Language != "" {
		headers["Accept-Language"] = options.Language
	}

	transport := options.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          2,
			MaxIdleConnsPerHost:   1,
			IdleConnTimeout:       30 * time.Second,
			ResponseHeaderTimeout: timeout,
		}
	}

	return &NominatimGeocoder{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &httputils.AppendRequestHeadersRoundTripper{
				Headers: headers,
				Transport: &httputils.LoggingRoundTripper{
					Writer:    options.TraceWriter,
					DumpBody:  options.TraceBody,
					Transport: transport,
				},
			},
		},
	}
}

type nominatimResponse struct {
	PlaceID     int64           `json:"place_id"`
	Lat         string          `json:"lat"`
	Lon         string          `json:"lon"`
	DisplayName string          `json:"display_name"`
	Address     map[string]any  `json:"address"`
	Error       json.RawMessage `json:"error"`
}

// errorMessage extracts the "error" member, which is either a string or an
// object with a message depending on the Nominatim version.
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	return string(raw)
}

func (g *NominatimGeocoder) reverseURL(p spatial.Point) string {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")

	return g.endpoint + "/reverse?" + params.Encode()
}

// Reverse implements Geocoder.
func (g *NominatimGeocoder) Reverse(ctx context.Context, p spatial.Point) (*Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.reverseURL(p), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		switch {
		case IsTimeoutError(err):
			return nil, &GeocodingError{Type: ErrorTypeTimeout, Message: "reverse geocoding timed out", Err: err}
		case errors.Is(err, context.Canceled):
			return nil, err
		default:
			return nil, &GeocodingError{Type: ErrorTypeNetworkError, Message: "reverse geocoding request failed", Err: err}
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if IsTimeoutError(err) {
			return nil, &GeocodingError{Type: ErrorTypeTimeout, Message: "reading response timed out", Err: err}
		}

		return nil, fmt.Errorf("reading response: %w", err)
	}

	var nr nominatimResponse

	if resp.StatusCode != http.StatusOK {
		detail := ""
		if json.Unmarshal(body, &nr) == nil {
			detail = errorMessage(nr.Error)
		}

		return nil, ClassifyHTTPError(resp.StatusCode, detail)
	}

	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if msg := errorMessage(nr.Error); msg != "" {
		if msg == unableToGeocode {
			return nil, nil
		}

		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: msg}
	}

	if nr.PlaceID == 0 && len(nr.Address) == 0 {
		return nil, nil
	}

	place := &Place{
		PlaceID:     nr.PlaceID,
		DisplayName: nr.DisplayName,
		Point:       p,
		Address:     make(Address, len(nr.Address)),
		Provider:    nominatimProvider,
	}

	for k, v := range nr.Address {
		if s, ok := v.(string); ok {
			place.Address[k] = s
		}
	}

	if lat, err := strconv.ParseFloat(nr.Lat, 64); err == nil {
		place.Point.Lat = lat
	}

	if lng, err := strconv.ParseFloat(nr.Lon, 64); err == nil {
		place.Point.Lng = lng
	}

	return place, nil
}
