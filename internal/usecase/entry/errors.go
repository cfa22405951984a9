// Package entry provides the write path for diary entries.
// Every write goes to the record store first and is then mirrored into the
// search index; an index failure is reported but never fails the write.
package entry

import "errors"

// Sentinel errors for entry use case operations.
var (
	// ErrEntryNotFound indicates that the requested entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidEntryID indicates that the provided entry ID is not positive.
	ErrInvalidEntryID = errors.New("invalid entry ID")
)
