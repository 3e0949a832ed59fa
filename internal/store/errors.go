// Package store persists session outcomes: flat JSON array files for
// orders, leads and check-ins, and a small document store for fraud cases.
package store

import "errors"

// Store errors.
var (
	// ErrNotFound is returned when a fraud case does not exist.
	ErrNotFound = errors.New("case not found")

	// ErrInvalidID is returned when a case has no id.
	ErrInvalidID = errors.New("case id cannot be empty")

	// ErrUnknownBackend is returned for an unsupported case store backend.
	ErrUnknownBackend = errors.New("unknown case store backend")
)
