// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package enrich adds a district column to spreadsheets of coordinates.
package enrich

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jcodagnone/distritos/district"
	"github.com/jcodagnone/distritos/journal"
	"github.com/jcodagnone/distritos/sheet"
	"github.com/jcodagnone/distritos/spatial"
)

// DefaultColumn is the name of the appended column.
const DefaultColumn = "district"

// Resolver labels one coordinate pair.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) district.Label
}

// Journal records every lookup.
type Journal interface {
	SaveLookup(l *journal.Lookup) error
}

// Options configuration for Driver.
type Options struct {
	// LatColumn names the column holding latitudes
	LatColumn string

	// LonColumn names the column holding longitudes
	LonColumn string

	// Column is the name of the appended column; DefaultColumn when empty
	Column string

	// Pacer spaces lookups; DefaultDelay when nil
	Pacer *Pacer

	// Reporter follows progress; rows are logged when nil
	Reporter Reporter

	// Journal, when not nil, receives every lookup
	Journal Journal

	// Logger for diagnostics; log.Default() when nil
	Logger *log.Logger
}

// Metrics counts lookups by outcome.
type Metrics struct {
	Rows     int
	Resolved int
	NotFound int
	Timeouts int
	Failed   int
}

// Add accounts for one label.
func (m *Metrics) Add(label district.Label) {
	m.Rows++

	switch label.Kind {
	case district.KindResolved:
		m.Resolved++
	case district.KindNotFound:
		m.NotFound++
	case district.KindTimeout:
		m.Timeouts++
	default:
		m.Failed++
	}
}

// Driver runs the enrichment of one spreadsheet.
type Driver struct {
	resolver Resolver
	options  Options
	Metrics  Metrics
}

// NewDriver creates a Driver resolving rows with resolver.
func NewDriver(resolver Resolver, options Options) *Driver {
	if options.Column == "" {
		options.Column = DefaultColumn
	}

	if options.Pacer == nil {
		options.Pacer = NewPacer(DefaultDelay)
	}

	if options.Logger == nil {
		options.Logger = log.Default()
	}

	if options.Reporter == nil {
		options.Reporter = &LogReporter{Logger: options.Logger}
	}

	return &Driver{resolver: resolver, options: options}
}

func parseDegrees(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}

	return v, nil
}

// Enrich loads inputPath, labels every row in order and writes the table,
// with the label column appended, to outputPath. Nothing is written unless
// every row was processed.
func (d *Driver) Enrich(ctx context.Context, inputPath, outputPath string) error {
	wb, err := sheet.Open(inputPath)
	if err != nil {
		return fmt.Errorf("loading workbook: %w", err)
	}
	defer wb.Close()

	if err := sheet.CheckColumns(wb.Columns(), d.options.LatColumn, d.options.LonColumn); err != nil {
		return err
	}

	latCol, _ := wb.ColumnIndex(d.options.LatColumn)
	lonCol, _ := wb.ColumnIndex(d.options.LonColumn)

	labels, err := d.resolveRows(ctx, wb, latCol, lonCol, inputPath)
	if err != nil {
		return err
	}

	if err := wb.AppendColumn(d.options.Column, labels); err != nil {
		return fmt.Errorf("adding %s column: %w", d.options.Column, err)
	}

	if err := wb.SaveAs(outputPath); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	d.options.Logger.Printf(
		"Results saved to %s - %d rows, %d resolved, %d not found, %d timeouts, %d errors",
		outputPath,
		d.Metrics.Rows,
		d.Metrics.Resolved,
		d.Metrics.NotFound,
		d.Metrics.Timeouts,
		d.Metrics.Failed,
	)

	return nil
}

func (d *Driver) resolveRows(ctx context.Context, wb *sheet.Workbook, latCol, lonCol int, source string) ([]string, error) {
	n := wb.Len()
	labels := make([]string, 0, n)
	recorder := d.options.Journal

	d.options.Reporter.Start(n)
	defer d.options.Reporter.Done()

	for i := range n {
		latText, lonText := wb.Cell(i, latCol), wb.Cell(i, lonCol)

		var (
			label district.Label
			point *spatial.Point
		)

		lat, latErr := parseDegrees("latitude", latText)
		lon, lonErr := parseDegrees("longitude", lonText)

		switch {
		case latErr != nil:
			label = district.Failed(latErr.Error())
		case lonErr != nil:
			label = district.Failed(lonErr.Error())
		default:
			point = &spatial.Point{Lat: lat, Lng: lon}
			label = d.resolver.Resolve(ctx, lat, lon)
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("interrupted at row %d of %d: %w", i+1, n, err)
		}

		labels = append(labels, label.String())
		d.Metrics.Add(label)
		d.options.Reporter.Row(i+1, n, latText, lonText, label)

		if recorder != nil {
			err := recorder.SaveLookup(&journal.Lookup{
				Source: source,
				Row:    i + 1,
				Point:  point,
				Kind:   label.Kind.String(),
				Label:  label.String(),
			})
			if err != nil {
				d.options.Logger.Printf("Journal disabled - %s", err)
				recorder = nil
			}
		}

		if point != nil && i < n-1 {
			if err := d.options.Pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("interrupted at row %d of %d: %w", i+1, n, err)
			}
		}
	}

	return labels, nil
}
