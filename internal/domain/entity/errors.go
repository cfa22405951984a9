package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entry was not found
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidIndex indicates a page index below 1
	ErrInvalidIndex = errors.New("invalid page index: must be a positive integer")

	// ErrInvalidCondition indicates a condition with out-of-range calendar fields or empty terms
	ErrInvalidCondition = errors.New("invalid condition")

	// ErrAdjacentInconsistency indicates that the search index returned an identifier
	// the record store cannot resolve.
	ErrAdjacentInconsistency = errors.New("search index references an entry missing from the record store")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match any ValidationError with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// InconsistencyError carries the identifier that could not be hydrated.
type InconsistencyError struct {
	ID int64
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("entry %d: %s", e.ID, ErrAdjacentInconsistency.Error())
}

func (e *InconsistencyError) Unwrap() error {
	return ErrAdjacentInconsistency
}
