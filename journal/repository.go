// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package journal keeps an audit trail of reverse geocoding lookups.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcodagnone/distritos/spatial"
)

// Lookup is one resolved row.
type Lookup struct {
	ID        int64          `json:"id"`
	Source    string         `json:"source"`
	Row       int            `json:"row"`
	Point     *spatial.Point `json:"point"` // nil when the row had no usable coordinates
	Kind      string         `json:"kind"`
	Label     string         `json:"label"`
	CreatedAt time.Time      `json:"created_at"`
	H3        []int64        `json:"-"` // resolutions 1..spatial.MaxIndexResolution
}

func (l *Lookup) computeH3() error {
	l.H3 = nil
	if l.Point == nil {
		return nil
	}

	cells, err := l.Point.Cells()
	if err != nil {
		return err
	}

	for _, c := range cells {
		l.H3 = append(l.H3, int64(c))
	}

	return nil
}

// Repository handles persistence of lookups.
type Repository interface {
	// CreateSchema creates the lookups table
	CreateSchema() error

	// SaveLookup appends a lookup
	SaveLookup(l *Lookup) error

	// CountLookups returns the total number of lookups
	CountLookups() (int, error)

	// ListLookups returns the lookups of a source file, in insertion order
	ListLookups(source string) ([]*Lookup, error)
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository creates a lookup repository on top of a DuckDB connection.
func NewRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS lookups_seq START 1;

		CREATE TABLE IF NOT EXISTS lookups (
			id BIGINT PRIMARY KEY DEFAULT nextval('lookups_seq'),
			source VARCHAR NOT NULL,
			row_index INTEGER NOT NULL,
			lat DOUBLE,
			lon DOUBLE,
			kind VARCHAR NOT NULL,
			label VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL,
			h3_res1 UBIGINT,
			h3_res2 UBIGINT,
			h3_res3 UBIGINT,
			h3_res4 UBIGINT,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT
		);
	`)
	if err != nil {
		return fmt.Errorf("creating lookups table: %w", err)
	}

	return nil
}

func (r *sqlRepository) SaveLookup(l *Lookup) error {
	if l == nil {
		return errors.New("lookup can't be null")
	}

	if err := l.computeH3(); err != nil {
		return err
	}

	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	args := make([]any, 0, 7+spatial.MaxIndexResolution)
	args = append(args, l.Source, l.Row)

	if l.Point != nil {
		args = append(args, l.Point.Lat, l.Point.Lng)
	} else {
		args = append(args, nil, nil)
	}

	args = append(args, l.Kind, l.Label, l.CreatedAt)

	for i := range spatial.MaxIndexResolution {
		if i < len(l.H3) {
			args = append(args, l.H3[i])
		} else {
			args = append(args, nil)
		}
	}

	err := r.db.QueryRow(`
		INSERT INTO lookups(
			source, row_index, lat, lon, kind, label, created_at,
			h3_res1, h3_res2, h3_res3, h3_res4, h3_res5, h3_res6, h3_res7, h3_res8
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, args...).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("inserting lookup for row %d: %w", l.Row, err)
	}

	return nil
}

func (r *sqlRepository) CountLookups() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM lookups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting lookups: %w", err)
	}

	return n, nil
}

func (r *sqlRepository) ListLookups(source string) ([]*Lookup, error) {
	rows, err := r.db.Query(`
		SELECT id, source, row_index, lat, lon, kind, label, created_at,
			h3_res1, h3_res2, h3_res3, h3_res4, h3_res5, h3_res6, h3_res7, h3_res8
		FROM lookups
		WHERE source = ?
		ORDER BY id
	`, source)
	if err != nil {
		return nil, fmt.Errorf("listing lookups: %w", err)
	}
	defer rows.Close()

	var lookups []*Lookup

	for rows.Next() {
		var (
			l        Lookup
			lat, lon sql.NullFloat64
			h3       [spatial.MaxIndexResolution]sql.NullInt64
		)

		dest := []any{&l.ID, &l.Source, &l.Row, &lat, &lon, &l.Kind, &l.Label, &l.CreatedAt}
		for i := range h3 {
			dest = append(dest, &h3[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning lookup: %w", err)
		}

		if lat.Valid && lon.Valid {
			l.Point = &spatial.Point{Lat: lat.Float64, Lng: lon.Float64}
		}

		for _, c := range h3 {
			if c.Valid {
				l.H3 = append(l.H3, c.Int64)
			}
		}

		lookups = append(lookups, &l)
	}

	return lookups, rows.Err()
}
