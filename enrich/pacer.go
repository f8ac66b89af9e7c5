// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"context"
	"time"
)

// DefaultDelay is the pause between two lookups. The public Nominatim
// instance allows at most one request per second.
const DefaultDelay = time.Second

// Pacer inserts a fixed pause between lookups.
type Pacer struct {
	Interval time.Duration

	// sleep is replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer creates a Pacer waiting interval on each Wait.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{Interval: interval, sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Wait blocks for the interval, or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.Interval <= 0 {
		return ctx.Err()
	}

	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return sleep(ctx, p.Interval)
}
