// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type errorCheckTestCase struct {
	name string
	err  error
	want bool
}

func runErrorCheckTest(t *testing.T, tests []errorCheckTestCase, checkFunc func(error) bool) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkFunc(tt.err); got != tt.want {
				t.Errorf("checkFunc() = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeNetError struct{ timeout bool }

func (e fakeNetError) Error() string   { return "i/o failure" }
func (e fakeNetError) Timeout() bool   { return e.timeout }
func (e fakeNetError) Temporary() bool { return false }

func TestIsTimeoutError(t *testing.T) {
	tests := []errorCheckTestCase{
		{
			name: "timeout error type",
			err:  &GeocodingError{Type: ErrorTypeTimeout, Message: "timed out"},
			want: true,
		},
		{
			name: "wrapped timeout error type",
			err:  fmt.Errorf("looking up: %w", &GeocodingError{Type: ErrorTypeTimeout, Message: "x"}),
			want: true,
		},
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("waiting: %w", context.DeadlineExceeded),
			want: true,
		},
		{
			name: "net error with timeout",
			err:  fakeNetError{timeout: true},
			want: true,
		},
		{
			name: "net error without timeout",
			err:  fakeNetError{timeout: false},
			want: false,
		},
		{
			name: "message mentions timeout",
			err:  errors.New("timeout parameter rejected"),
			want: false,
		},
		{
			name: "other geocoding error type wins over message",
			err:  &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "timeout parameter invalid"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("some other error"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	runErrorCheckTest(t, tests, IsTimeoutError)
}

func TestIsRateLimitError(t *testing.T) {
	tests := []errorCheckTestCase{
		{
			name: "rate limit error type",
			err:  ClassifyHTTPError(http.StatusTooManyRequests, ""),
			want: true,
		},
		{
			name: "other error type",
			err:  ClassifyHTTPError(http.StatusBadRequest, ""),
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("429"),
			want: false,
		},
	}

	runErrorCheckTest(t, tests, IsRateLimitError)
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status   int
		detail   string
		wantType ErrorType
		wantMsg  string
	}{
		{http.StatusTooManyRequests, "", ErrorTypeRateLimit, "rate limit reached (HTTP 429)"},
		{http.StatusForbidden, "", ErrorTypeQuotaExceeded, "quota exceeded or access denied (HTTP 403)"},
		{http.StatusPaymentRequired, "", ErrorTypeQuotaExceeded, "quota exceeded or access denied (HTTP 402)"},
		{http.StatusRequestTimeout, "", ErrorTypeTimeout, "service timed out (HTTP 408)"},
		{http.StatusGatewayTimeout, "", ErrorTypeTimeout, "service timed out (HTTP 504)"},
		{http.StatusBadRequest, "bad lat", ErrorTypeInvalidRequest, "invalid request (HTTP 400): bad lat"},
		{http.StatusServiceUnavailable, "", ErrorTypeNetworkError, "service unavailable (HTTP 503)"},
		{http.StatusTeapot, "", ErrorTypeUnknown, "unexpected answer (HTTP 418)"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			got := ClassifyHTTPError(tt.status, tt.detail)
			if got.Type != tt.wantType {
				t.Errorf("ClassifyHTTPError(%d).Type = %v, want %v", tt.status, got.Type, tt.wantType)
			}

			if got.Error() != tt.wantMsg {
				t.Errorf("ClassifyHTTPError(%d) = %q, want %q", tt.status, got.Error(), tt.wantMsg)
			}
		})
	}
}

func TestGeocodingErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &GeocodingError{Type: ErrorTypeNetworkError, Message: "request failed", Err: inner}

	if !errors.Is(err, inner) {
		t.Errorf("errors.Is should find the wrapped error")
	}

	if got := err.Error(); got != "request failed: connection reset" {
		t.Errorf("Error() = %q", got)
	}

	if got := ErrorTypeTimeout.String(); got != "timeout" {
		t.Errorf("String() = %q", got)
	}
}
