// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/jcodagnone/distritos/enrich"
	"github.com/jcodagnone/distritos/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr  = "localhost:8080"
	serveDelay = enrich.DefaultDelay
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an HTTP endpoint resolving one coordinate pair per request (local only)",
	Long: `Serves GET /api/district?lat=<lat>&lon=<lon>, answering

    {"lat": 51.5, "lon": -0.12, "kind": "resolved", "label": "Westminster"}

Requests are resolved one at a time, with the same pause between lookups
as enrich.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		srv := server.NewServer(newResolver(), enrich.NewPacer(serveDelay))

		return srv.Run(cmd.Context(), serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", serveAddr, "Listen address")
	serveCmd.Flags().DurationVar(&serveDelay, "delay", serveDelay, "Pause between two lookups")
}
