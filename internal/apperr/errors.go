// Package apperr holds the error taxonomy shared by the attendance packages.
package apperr

import "errors"

var (
	// ErrInvalidInput marks a malformed argument supplied by the caller.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataIntegrity marks a stored record that violates an invariant.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrNotFound marks a single-record lookup with no match.
	ErrNotFound = errors.New("not found")
)
