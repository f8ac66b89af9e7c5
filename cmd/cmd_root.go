// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcodagnone/distritos/district"
	"github.com/jcodagnone/distritos/geocode"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "distritos",
	Short: "adds administrative districts to spreadsheets of coordinates",
	Long: `
distritos reads a spreadsheet with latitude and longitude columns, resolves
each pair against the OpenStreetMap Nominatim reverse geocoding service and
writes a copy of the spreadsheet with a new "district" column.

Check the column names first:

    $ distritos columns points.xlsx

then enrich:

    $ distritos enrich points.xlsx --lat-column Latitud --lon-column Longitud
`,
	SilenceUsage: true,
}

// GeocoderOptions configuration shared by the commands doing lookups.
type GeocoderOptions struct {
	// Endpoint is the base URL of the Nominatim instance
	Endpoint string

	// UserAgent overrides the client identifier
	UserAgent string

	// Language requested for the address components
	Language string

	// Timeout of each lookup
	Timeout time.Duration

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool
}

var geocoderOptions = &GeocoderOptions{}

var Version = "dev"

func userAgent() string {
	if geocoderOptions.UserAgent != "" {
		return geocoderOptions.UserAgent
	}

	return fmt.Sprintf("distritos/%s (+https://github.com/jcodagnone/distritos)", Version)
}

func newResolver() *district.Resolver {
	var trace io.Writer
	if geocoderOptions.EnableHTTPTrace || geocoderOptions.EnableHTTPBodyTrace {
		trace = os.Stderr
	}

	return district.NewResolver(geocode.NewNominatimGeocoder(geocode.NominatimOptions{
		Endpoint:    geocoderOptions.Endpoint,
		UserAgent:   userAgent(),
		Language:    geocoderOptions.Language,
		Timeout:     geocoderOptions.Timeout,
		TraceWriter: trace,
		TraceBody:   geocoderOptions.EnableHTTPBodyTrace,
	}))
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&geocoderOptions.Endpoint,
		"endpoint",
		geocode.DefaultNominatimEndpoint,
		"Base URL of the Nominatim service",
	)
	rootCmd.PersistentFlags().StringVar(
		&geocoderOptions.UserAgent,
		"user-agent",
		"",
		"Client identifier sent to the geocoding service (defaults to distritos/<version>)",
	)
	rootCmd.PersistentFlags().StringVar(
		&geocoderOptions.Language,
		"language",
		"",
		"Preferred language for the names, as an Accept-Language value",
	)
	rootCmd.PersistentFlags().DurationVar(
		&geocoderOptions.Timeout,
		"timeout",
		geocode.DefaultTimeout,
		"Timeout of each lookup",
	)
	rootCmd.PersistentFlags().BoolVar(
		&geocoderOptions.EnableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	rootCmd.PersistentFlags().BoolVar(
		&geocoderOptions.EnableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}

func Execute(version string) {
	Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
