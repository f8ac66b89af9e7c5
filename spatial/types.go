// Copyright 2025 The Distritos Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"
	"math"

	"github.com/uber/h3-go/v4"
)

// MaxIndexResolution is the finest H3 resolution kept for a point.
const MaxIndexResolution = 8

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.Lat, p.Lng)
}

// Valid reports whether the point lies within the WGS84 degree ranges.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}

	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Cells returns the H3 cells containing the point for resolutions 1 through
// MaxIndexResolution. Points outside the valid ranges have no cells.
func (p Point) Cells() ([]h3.Cell, error) {
	if !p.Valid() {
		return nil, nil
	}

	latLng := h3.NewLatLng(p.Lat, p.Lng)
	cells := make([]h3.Cell, 0, MaxIndexResolution)

	for res := 1; res <= MaxIndexResolution; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return nil, fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
		}

		cells = append(cells, cell)
	}

	return cells, nil
}
