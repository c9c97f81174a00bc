package resource

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration short-circuits every operation when no backend client is
// wired in. It is never retried automatically.
var ErrConfiguration = errors.New("backend client unavailable")

// ErrSessionBusy is returned when a commit is started while the session's
// previous commit is still in flight.
var ErrSessionBusy = errors.New("a commit for this session is already in flight")

// ErrSessionClosed is returned when a discarded or committed session is
// reused.
var ErrSessionClosed = errors.New("form session has ended")

// ErrConfirmationRequired is returned when a destructive bulk action is
// applied without the confirmation transition.
var ErrConfirmationRequired = errors.New("destructive action requires confirmation")

// ValidationError reports required fields that are missing or empty. It is
// raised client-side, before any network call, and is always recoverable.
type ValidationError struct {
	Resource string
	Fields   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: required fields missing: %s", e.Resource, strings.Join(e.Fields, ", "))
}

// QueryError wraps a backend read rejection. The backend's message is kept
// verbatim for diagnostics.
type QueryError struct {
	Resource string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Resource, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// PersistenceError wraps a backend write rejection (constraint violation,
// permission denial).
type PersistenceError struct {
	Resource string
	ID       string
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("persist %s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("persist %s/%s: %v", e.Resource, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ReorderError reports a two-write swap that did not fully complete.
// Compensated is true when the first write was successfully reverted; when
// false the persisted order is inconsistent and needs a manual reload.
type ReorderError struct {
	Resource    string
	FirstID     string
	SecondID    string
	Compensated bool
	Err         error
}

func (e *ReorderError) Error() string {
	state := "compensated"
	if !e.Compensated {
		state = "order integrity at risk"
	}
	return fmt.Sprintf("reorder %s (%s, %s) failed, %s: %v", e.Resource, e.FirstID, e.SecondID, state, e.Err)
}

func (e *ReorderError) Unwrap() error { return e.Err }
