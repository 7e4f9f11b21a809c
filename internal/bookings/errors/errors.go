package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrDuplicate is surfaced when the store's unique index on
	// (email, appointmentDate, treatment) rejects an insert. It means a
	// conflicting reservation won the race after the pre-check passed.
	ErrDuplicate = errors.New("duplicate booking for email, date and treatment")
)
