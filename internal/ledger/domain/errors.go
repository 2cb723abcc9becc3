package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the referenced project, user or category does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: transaction contention; safe for the caller to retry with
	// backoff.
	ErrConflict = errors.New("conflict")

	// ErrTimeout: the store did not answer within the operation deadline and
	// no write was committed.
	ErrTimeout = errors.New("timeout")

	// ErrUnavailable: the store could not be reached before anything was sent.
	ErrUnavailable = errors.New("store unavailable")

	// ErrCommitUncertain: a commit was issued but its outcome is unknown.
	// Callers must NOT blindly retry; a retry could double-count money.
	ErrCommitUncertain = errors.New("commit outcome uncertain")
)

// ValidationError reports malformed input with the offending field, so the
// presentation layer can render a specific message. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
