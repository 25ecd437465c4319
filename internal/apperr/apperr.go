// Package apperr defines the error taxonomy shared by the service layer.
//
// Sentinels cover conditions with no useful payload; typed errors carry the
// detail needed for a user-facing message. Services translate these into
// result envelopes at their boundary — none of them should reach a caller
// as an unhandled fault.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a mutation targeting an id that does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateRecord is reserved for merge policies that reject duplicates
// instead of reusing the existing record. Bookmarking reuses, so nothing
// returns it today.
var ErrDuplicateRecord = errors.New("duplicate record")

// ErrAggregateFailure indicates every configured search backend failed.
var ErrAggregateFailure = errors.New("all search backends failed")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// TransitionError reports an application-status change the state machine
// does not permit.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s → %s is not allowed", e.From, e.To)
}

// BackendError reports a single search backend failure. The aggregation
// pipeline records these without aborting the sibling backends.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
