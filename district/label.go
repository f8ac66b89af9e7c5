// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package district

import "fmt"

// Kind tells how a lookup ended.
type Kind int

const (
	// KindResolved a district like name was found.
	KindResolved Kind = iota
	// KindNotFound the service has no place, or the place has none of the keys.
	KindNotFound
	// KindTimeout the service did not answer in time.
	KindTimeout
	// KindFailed any other failure.
	KindFailed
)

// Literal values written to the output column.
const (
	NotFoundText = "Not found"
	TimeoutText  = "Timeout Error"
	failedPrefix = "Error: "
)

var kindNames = [...]string{"resolved", "not_found", "timeout", "failed"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Label is the result of resolving one coordinate pair. Name is set for
// KindResolved, Detail for KindFailed.
type Label struct {
	Kind   Kind
	Name   string
	Detail string
}

// Resolved creates a label for a found district.
func Resolved(name string) Label { return Label{Kind: KindResolved, Name: name} }

// NotFound creates a label for a point without district.
func NotFound() Label { return Label{Kind: KindNotFound} }

// Timeout creates a label for a lookup that timed out.
func Timeout() Label { return Label{Kind: KindTimeout} }

// Failed creates a label for a failed lookup.
func Failed(detail string) Label { return Label{Kind: KindFailed, Detail: detail} }

// String renders the label as stored in the output column.
func (l Label) String() string {
	switch l.Kind {
	case KindResolved:
		return l.Name
	case KindNotFound:
		return NotFoundText
	case KindTimeout:
		return TimeoutText
	default:
		return failedPrefix + l.Detail
	}
}
