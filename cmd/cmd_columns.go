// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/jcodagnone/distritos/sheet"
	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file.xlsx>",
	Short: "Lists the columns and the first rows of a spreadsheet",
	Long: `Lists the columns of the first sheet of a spreadsheet, and previews its
first rows, to find out the names to pass to enrich.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		_, err := sheet.Inspect(args[0], os.Stdout)

		return err
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
