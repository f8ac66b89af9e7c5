// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jcodagnone/distritos/enrich"
	"github.com/spf13/cobra"
)

// isTerminal reports whether f is a character device. When it can't be
// determined we say that it isn't.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

// parseCoordinates accepts "lat lon", "lat,lon" and "lat, lon".
func parseCoordinates(line string) (float64, float64, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected <lat> <lon>, got %q", line)
	}

	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", fields[0])
	}

	lon, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", fields[1])
	}

	return lat, lon, nil
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugDelay = enrich.DefaultDelay

var debugReverseCmd = &cobra.Command{
	Use:   "reverse",
	Short: "Resolves the coordinates read from stdin",
	Long: `Reads a coordinate pair per line, and prints in stdout the pair followed by
the label that enrich would store for it.

$ echo "51.50 -0.12" | distritos debug reverse
51.5,-0.12	Westminster
	`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := os.Stdin
		if isTerminal(input) {
			fmt.Fprintln(os.Stderr, "Enter coordinates to resolve, one pair per line…")
		}

		ctx := cmd.Context()
		resolver := newResolver()
		pacer := enrich.NewPacer(debugDelay)
		first := true

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			lat, lon, err := parseCoordinates(line)
			if err != nil {
				fmt.Printf("%s\t%q\n", line, err)

				continue
			}

			if !first {
				if err := pacer.Wait(ctx); err != nil {
					return err
				}
			}
			first = false

			label := resolver.Resolve(ctx, lat, lon)
			fmt.Printf("%g,%g\t%s\n", lat, lon, label)
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugReverseCmd)
	debugReverseCmd.Flags().DurationVar(
		&debugDelay,
		"delay",
		enrich.DefaultDelay,
		"Pause between two lookups",
	)
}
