// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"log"
	"os"

	"github.com/jcodagnone/distritos/district"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Reporter follows the progress of an enrichment run.
type Reporter interface {
	Start(total int)
	Row(i, total int, lat, lon string, label district.Label)
	Done()
}

// LogReporter writes one line per processed row.
type LogReporter struct {
	Logger *log.Logger
}

func (r *LogReporter) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}

	return r.Logger
}

// Start implements Reporter.
func (r *LogReporter) Start(total int) {
	r.logger().Printf("Processing %d rows", total)
}

// Row implements Reporter.
func (r *LogReporter) Row(i, total int, lat, lon string, label district.Label) {
	r.logger().Printf("[%d/%d] Lat=%s, Lon=%s: %s", i, total, lat, lon, label)
}

// Done implements Reporter.
func (r *LogReporter) Done() {}

// BarReporter draws a progress bar on a terminal.
type BarReporter struct {
	File        *os.File
	Description string

	bar *progressbar.ProgressBar
}

// Start implements Reporter.
func (r *BarReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(r.Description),
		progressbar.OptionSetWriter(r.File),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

// Row implements Reporter.
func (r *BarReporter) Row(_, _ int, _, _ string, _ district.Label) {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

// Done implements Reporter.
func (r *BarReporter) Done() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// NewReporter draws a bar when f is a terminal and logs rows otherwise.
func NewReporter(f *os.File, description string, logger *log.Logger) Reporter {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return &BarReporter{File: f, Description: description}
	}

	return &LogReporter{Logger: logger}
}
