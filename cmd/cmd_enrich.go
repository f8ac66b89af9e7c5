// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/distritos/enrich"
	"github.com/jcodagnone/distritos/journal"
	"github.com/jcodagnone/distritos/sheet"
	"github.com/spf13/cobra"
)

// EnrichOptions configuration for the enrich command.
type EnrichOptions struct {
	// LatColumn names the column holding latitudes
	LatColumn string

	// LonColumn names the column holding longitudes
	LonColumn string

	// Output is the path of the resulting spreadsheet
	Output string

	// Column is the name of the appended column
	Column string

	// Delay between two lookups
	Delay time.Duration

	// Journal is the path of a DuckDB database recording every lookup
	Journal string
}

var enrichOptions = &EnrichOptions{}

// defaultOutput places the result next to the input.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)

	return strings.TrimSuffix(input, ext) + "_with_district" + ext
}

func openJournal(path string) (*sql.DB, journal.Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening journal: %w", err)
	}

	repo := journal.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("initializing journal: %w", err), db.Close())
	}

	return db, repo, nil
}

var enrichCmd = &cobra.Command{
	Use:   "enrich <input.xlsx>",
	Short: "Adds a district column to a spreadsheet of coordinates",
	Long: `Resolves the latitude/longitude of every row of the first sheet, in order
and one at a time, and writes a copy of the spreadsheet with the resolved
district as a new last column.

Rows that can't be resolved get "Not found", "Timeout Error" or
"Error: <details>" instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]

		output := enrichOptions.Output
		if output == "" {
			output = defaultOutput(input)
		}

		if filepath.Clean(output) == filepath.Clean(input) {
			return errors.New("the output file must be different from the input file")
		}

		log.Println("Checking spreadsheet structure…")

		columns, err := sheet.Inspect(input, os.Stdout)
		if err != nil {
			return err
		}

		if err := sheet.CheckColumns(columns, enrichOptions.LatColumn, enrichOptions.LonColumn); err != nil {
			return fmt.Errorf("%w - use --lat-column and --lon-column with names from the list above", err)
		}

		log.Printf("Using columns %q and %q", enrichOptions.LatColumn, enrichOptions.LonColumn)

		var reporter enrich.Reporter = &enrich.LogReporter{}
		if !geocoderOptions.EnableHTTPTrace && !geocoderOptions.EnableHTTPBodyTrace {
			reporter = enrich.NewReporter(os.Stderr, "Resolving districts", log.Default())
		}

		options := enrich.Options{
			LatColumn: enrichOptions.LatColumn,
			LonColumn: enrichOptions.LonColumn,
			Column:    enrichOptions.Column,
			Pacer:     enrich.NewPacer(enrichOptions.Delay),
			Reporter:  reporter,
		}

		if enrichOptions.Journal != "" {
			db, repo, err := openJournal(enrichOptions.Journal)
			if err != nil {
				return err
			}
			defer db.Close()

			options.Journal = repo
		}

		return enrich.NewDriver(newResolver(), options).Enrich(cmd.Context(), input, output)
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().StringVar(
		&enrichOptions.LatColumn,
		"lat-column",
		"Latitude",
		"Name of the column holding latitudes",
	)
	enrichCmd.Flags().StringVar(
		&enrichOptions.LonColumn,
		"lon-column",
		"Longitude",
		"Name of the column holding longitudes",
	)
	enrichCmd.Flags().StringVarP(
		&enrichOptions.Output,
		"output",
		"o",
		"",
		"Output spreadsheet (defaults to <input>_with_district.xlsx)",
	)
	enrichCmd.Flags().StringVar(
		&enrichOptions.Column,
		"column",
		enrich.DefaultColumn,
		"Name of the appended column",
	)
	enrichCmd.Flags().DurationVar(
		&enrichOptions.Delay,
		"delay",
		enrich.DefaultDelay,
		"Pause between two lookups. The public Nominatim allows one request per second",
	)
	enrichCmd.Flags().StringVar(
		&enrichOptions.Journal,
		"journal",
		"",
		"DuckDB database where every lookup is recorded",
	)
}
