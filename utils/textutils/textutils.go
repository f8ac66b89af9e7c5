// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils provides helpers to compare human typed names.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// Similar returns the candidates that look like name once folded: either the
// same text, or one contains the other (e.g. "lat" and "Latitud").
func Similar(name string, candidates []string) []string {
	folded := LowerASCIIFolding(name)
	if folded == "" {
		return nil
	}

	var exact, partial []string

	for _, c := range candidates {
		fc := LowerASCIIFolding(c)
		if fc == "" || c == name {
			continue
		}

		switch {
		case fc == folded:
			exact = append(exact, c)
		case strings.Contains(fc, folded) || strings.Contains(folded, fc):
			partial = append(partial, c)
		}
	}

	return append(exact, partial...)
}
