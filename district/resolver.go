// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package district turns coordinates into administrative district labels.
package district

import (
	"context"
	"fmt"

	"github.com/jcodagnone/distritos/geocode"
	"github.com/jcodagnone/distritos/spatial"
)

// FallbackKeys are the address components tried, in order, for a label.
var FallbackKeys = []string{"district", "county", "city", "town", "village"}

// Pick returns the first non empty address component among FallbackKeys.
func Pick(addr geocode.Address) (string, bool) {
	for _, k := range FallbackKeys {
		if v := addr[k]; v != "" {
			return v, true
		}
	}

	return "", false
}

// Resolver labels coordinate pairs using a reverse geocoder.
type Resolver struct {
	geocoder geocode.Geocoder
}

// NewResolver creates a Resolver backed by g.
func NewResolver(g geocode.Geocoder) *Resolver {
	return &Resolver{geocoder: g}
}

// Resolve performs exactly one reverse lookup for (lat, lon). It never fails:
// every failure is folded into the returned Label. Coordinates are forwarded
// as given, without range checks.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (label Label) {
	defer func() {
		if p := recover(); p != nil {
			label = Failed(fmt.Sprint(p))
		}
	}()

	place, err := r.geocoder.Reverse(ctx, spatial.Point{Lat: lat, Lng: lon})
	if err != nil {
		if geocode.IsTimeoutError(err) {
			return Timeout()
		}

		return Failed(err.Error())
	}

	if place == nil {
		return NotFound()
	}

	if name, ok := Pick(place.Address); ok {
		return Resolved(name)
	}

	return NotFound()
}
