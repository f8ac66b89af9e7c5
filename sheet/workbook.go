// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package sheet reads and extends the tabular data of spreadsheet files.
package sheet

import (
	"errors"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned for a workbook without a header row.
var ErrEmptySheet = errors.New("sheet is empty")

// Workbook is the first worksheet of a spreadsheet file: a header row naming
// the columns followed by the data rows, in file order.
type Workbook struct {
	file   *excelize.File
	sheet  string
	header []string
	rows   [][]string
}

// Open loads the first worksheet of the file at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.Join(fmt.Errorf("%s has no sheets", path), f.Close())
	}

	// Raw values keep numbers as stored, regardless of the display format.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("reading rows of %q: %w", sheet, err), f.Close())
	}

	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.Join(fmt.Errorf("%s: %w", path, ErrEmptySheet), f.Close())
	}

	return &Workbook{
		file:   f,
		sheet:  sheet,
		header: rows[0],
		rows:   rows[1:],
	}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheet returns the name of the worksheet in use.
func (w *Workbook) Sheet() string {
	return w.sheet
}

// Columns returns the column names in order.
func (w *Workbook) Columns() []string {
	return slices.Clone(w.header)
}

// Len returns the number of data rows.
func (w *Workbook) Len() int {
	return len(w.rows)
}

// ColumnIndex returns the zero based position of the named column.
func (w *Workbook) ColumnIndex(name string) (int, error) {
	i := slices.Index(w.header, name)
	if i < 0 {
		return -1, &MissingColumnsError{Missing: []string{name}, Columns: w.Columns()}
	}

	return i, nil
}

// Cell returns the value of a data cell, "" when the row is shorter.
func (w *Workbook) Cell(row, col int) string {
	if row < 0 || row >= len(w.rows) || col < 0 || col >= len(w.rows[row]) {
		return ""
	}

	return w.rows[row][col]
}

// Row returns a copy of the data row, padded to the header width.
func (w *Workbook) Row(row int) []string {
	out := make([]string, max(len(w.header), len(w.rows[row])))
	copy(out, w.rows[row])

	return out
}

// AppendColumn adds a column after the last used column, named or not.
// values holds one entry per data row, in row order.
func (w *Workbook) AppendColumn(name string, values []string) error {
	if len(values) != len(w.rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(w.rows))
	}

	width := len(w.header)
	for _, row := range w.rows {
		width = max(width, len(row))
	}

	col := width + 1

	cell, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return fmt.Errorf("locating column %q: %w", name, err)
	}

	if err := w.file.SetCellStr(w.sheet, cell, name); err != nil {
		return fmt.Errorf("writing header %q: %w", name, err)
	}

	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(col, i+2)
		if err != nil {
			return fmt.Errorf("locating row %d: %w", i+1, err)
		}

		if err := w.file.SetCellStr(w.sheet, cell, v); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}

		w.rows[i] = append(pad(w.rows[i], width), v)
	}

	w.header = append(pad(w.header, width), name)

	return nil
}

// pad extends s with empty cells up to width.
func pad(s []string, width int) []string {
	for len(s) < width {
		s = append(s, "")
	}

	return s
}

// SaveAs writes the workbook, including any appended column, to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	return nil
}
