package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested row was not found in the store
	ErrNotFound = errors.New("entity not found")

	// ErrEmptyContent indicates that extraction produced no body text
	ErrEmptyContent = errors.New("no article text extracted")
)

// ValidationError represents a validation error with detailed field information.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExtractionError is returned when an article could not be fetched or parsed.
// Err carries the underlying cause, typically a fetcher sentinel.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PersistenceError is returned by store clients when a push fails.
// StatusCode is zero when the request never reached the service.
type PersistenceError struct {
	StatusCode int
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("persistence failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// OutcomeFromError converts a store error into a PersistOutcome.
func OutcomeFromError(err error) PersistOutcome {
	if err == nil {
		return PersistOutcome{Status: PersistOK}
	}
	out := PersistOutcome{Status: PersistFailed, Error: err.Error()}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		out.StatusCode = pe.StatusCode
	}
	return out
}
