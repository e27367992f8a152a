// Package apperr carries the error kinds the marketplace distinguishes.
// Every validation failure is detected before any mutating write; callers
// map kinds to transport-level signaling.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to branch on it.
type Kind int

const (
	// Internal is the zero kind: an unexpected failure (DB down, bug).
	Internal Kind = iota
	// NotFound means a referenced Item/Exchange/User does not exist.
	NotFound
	// InvalidInput means the request itself is malformed or self-referential.
	InvalidInput
	// InvalidState means the action is not legal in the entity's current status.
	InvalidState
	// PermissionDenied means the actor is not authorized for the action.
	PermissionDenied
	// Conflict means a duplicate pending request.
	Conflict
	// InvalidCredential means identity verification failed.
	InvalidCredential
	// CorruptState means a stored row failed validation on load.
	CorruptState
	// StorageError means the external image store failed.
	StorageError
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case InvalidState:
		return "invalid_state"
	case PermissionDenied:
		return "permission_denied"
	case Conflict:
		return "conflict"
	case InvalidCredential:
		return "invalid_credential"
	case CorruptState:
		return "corrupt_state"
	case StorageError:
		return "storage_error"
	}
	return "internal"
}

// Error is an error with a kind and a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new error of the given kind.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Ef creates a new error of the given kind with a formatted message.
func Ef(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from an error chain, Internal when absent.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether the error chain carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the human-readable message of an error chain, or the
// plain error text when the chain carries no *Error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
