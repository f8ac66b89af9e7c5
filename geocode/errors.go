// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// GeocodingError carries the classification of a failed lookup.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies geocoding failures.
type ErrorType int

const (
	// ErrorTypeUnknown is any failure not covered below.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit the service throttled us.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded the service refuses to serve us.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout the service did not answer in time.
	ErrorTypeTimeout
	// ErrorTypeInvalidRequest the service rejected the query.
	ErrorTypeInvalidRequest
	// ErrorTypeNetworkError the service is unreachable or unavailable.
	ErrorTypeNetworkError
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeUnknown:        "unknown",
	ErrorTypeRateLimit:      "rate_limit",
	ErrorTypeQuotaExceeded:  "quota_exceeded",
	ErrorTypeTimeout:        "timeout",
	ErrorTypeInvalidRequest: "invalid_request",
	ErrorTypeNetworkError:   "network",
}

func (t ErrorType) String() string {
	if s, ok := errorTypeNames[t]; ok {
		return s
	}

	return fmt.Sprintf("ErrorType(%d)", int(t))
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

// IsTimeoutError reports whether err means the service did not answer in time.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	var geoErr *GeocodingError
	if errors.As(err, &geoErr) && geoErr.Type == ErrorTypeTimeout {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsRateLimitError reports whether err was caused by throttling.
func IsRateLimitError(err error) bool {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type == ErrorTypeRateLimit
	}

	return false
}

// ClassifyHTTPError maps a non 200 answer to a GeocodingError. detail is the
// service provided explanation, if any.
func ClassifyHTTPError(statusCode int, detail string) *GeocodingError {
	var ge *GeocodingError

	switch statusCode {
	case http.StatusTooManyRequests:
		ge = &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit reached"}
	case http.StatusPaymentRequired, http.StatusForbidden:
		ge = &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "quota exceeded or access denied"}
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		ge = &GeocodingError{Type: ErrorTypeTimeout, Message: "service timed out"}
	case http.StatusBadRequest, http.StatusPreconditionFailed,
		http.StatusRequestEntityTooLarge, http.StatusRequestURITooLong:
		ge = &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "invalid request"}
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		ge = &GeocodingError{Type: ErrorTypeNetworkError, Message: "service unavailable"}
	default:
		ge = &GeocodingError{Type: ErrorTypeUnknown, Message: "unexpected answer"}
	}

	ge.Message = fmt.Sprintf("%s (HTTP %d)", ge.Message, statusCode)
	if detail != "" {
		ge.Message += ": " + detail
	}

	return ge
}
