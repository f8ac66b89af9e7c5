// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package sheet

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/jcodagnone/distritos/utils/textutils"
)

// PreviewRows is the number of data rows shown by Inspect.
const PreviewRows = 3

// Inspect reports the column names of the spreadsheet at path and a preview
// of its first rows to w, and returns the column names. On failure the
// description is reported to w as well, and the columns are nil.
func Inspect(path string, w io.Writer) ([]string, error) {
	wb, err := Open(path)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)

		return nil, err
	}
	defer wb.Close()

	columns := wb.Columns()

	fmt.Fprintf(w, "Available columns in %s (sheet %q):\n", path, wb.Sheet())

	for _, c := range columns {
		fmt.Fprintf(w, "  - %s\n", c)
	}

	n := min(PreviewRows, wb.Len())
	fmt.Fprintf(w, "\nFirst %d of %d rows:\n", n, wb.Len())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))

	for i := range n {
		fmt.Fprintln(tw, strings.Join(wb.Row(i), "\t"))
	}

	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("writing preview: %w", err)
	}

	return columns, nil
}

// MissingColumnsError names the requested columns absent from a sheet.
type MissingColumnsError struct {
	Missing []string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", m)
		if similar := textutils.Similar(m, e.Columns); len(similar) > 0 {
			quoted[i] += fmt.Sprintf(" (did you mean %q?)", similar[0])
		}
	}

	noun := "column"
	if len(e.Missing) > 1 {
		noun = "columns"
	}

	return fmt.Sprintf("%s %s not found; available columns: %s",
		noun, strings.Join(quoted, ", "), strings.Join(e.Columns, ", "))
}

// CheckColumns verifies every wanted column is among columns.
func CheckColumns(columns []string, wanted ...string) error {
	var missing []string

	for _, w := range wanted {
		if !slices.Contains(columns, w) {
			missing = append(missing, w)
		}
	}

	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing, Columns: columns}
	}

	return nil
}
