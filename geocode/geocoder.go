// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode talks to reverse geocoding services.
package geocode

import (
	"context"

	"github.com/jcodagnone/distritos/spatial"
)

// Address maps address component names (county, city, …) to their values.
type Address map[string]string

// Place is the best match a service found for a coordinate pair.
type Place struct {
	PlaceID     int64
	DisplayName string
	Point       spatial.Point
	Address     Address
	Provider    string
}

// Geocoder interface for different reverse geocoding providers.
//
// Reverse returns a nil Place and a nil error when the service has no place
// for the point.
type Geocoder interface {
	Reverse(ctx context.Context, p spatial.Point) (*Place, error)
}
