// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/distritos/district"
	"github.com/jcodagnone/distritos/enrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	calls int
}

func (m *mockResolver) Resolve(_ context.Context, lat, _ float64) district.Label {
	m.calls++
	if lat > 90 {
		return district.Timeout()
	}

	return district.Resolved("Montevideo")
}

func setupServerTest(t *testing.T) (*gin.Engine, *mockResolver) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	resolver := &mockResolver{}
	NewServer(resolver, enrich.NewPacer(0)).Routes(router)

	return router, resolver
}

func TestLookupAPI(t *testing.T) {
	router, resolver := setupServerTest(t)

	tests := []struct {
		query string
		want  Response
	}{
		{"lat=-34.9011&lon=-56.1645", Response{Lat: -34.9011, Lon: -56.1645, Kind: "resolved", Label: "Montevideo"}},
		{"lat=200&lon=200", Response{Lat: 200, Lon: 200, Kind: "timeout", Label: "Timeout Error"}},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/district?"+tt.query, nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var got Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, tt.want, got)
	}

	assert.Equal(t, 2, resolver.calls)
}

func TestLookupAPIBadRequest(t *testing.T) {
	router, resolver := setupServerTest(t)

	for _, query := range []string{"", "lat=1", "lat=abc&lon=2", "lat=1&lon="} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/district?"+query, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "invalid or missing")
	}

	assert.Zero(t, resolver.calls)
}

func TestHealthz(t *testing.T) {
	router, _ := setupServerTest(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

// cancelingResolver simulates a client that disconnects once its lookup is done.
type cancelingResolver struct {
	cancel context.CancelFunc
}

func (r *cancelingResolver) Resolve(context.Context, float64, float64) district.Label {
	r.cancel()

	return district.Resolved("Montevideo")
}

func TestLookupAPIPacesAfterClientLeaves(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delay := 50 * time.Millisecond
	NewServer(&cancelingResolver{cancel: cancel}, enrich.NewPacer(delay)).Routes(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/api/district?lat=1&lon=2", nil)

	start := time.Now()
	router.ServeHTTP(w, req)

	assert.GreaterOrEqual(t, time.Since(start), delay)
	assert.Equal(t, http.StatusOK, w.Code)
}
