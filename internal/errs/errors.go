// Package errs provides the unified error type used across all of relkit.
//
// Every subsystem (statement generation, catalog introspection, engine
// drivers, …) wraps its native errors into *errs.Error before returning
// them to callers. Callers use the Is* predicates to handle errors without
// importing driver-specific packages.
//
// Usage:
//
//	// In an engine driver — wrap native errors:
//	return errs.Wrap(errs.ErrKindQueryFailed, "list tables", sqliteErr)
//
//	// In a caller — check error kind:
//	if errs.IsMissingPrimaryKey(err) {
//	    // shape has no designated key column
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// All engines (SQLite, Postgres, MySQL) map their native errors to one of
// these kinds, giving callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown           ErrKind = iota
	ErrKindNotConfigured             // generator or executor used before setup
	ErrKindMissingPrimaryKey         // key-filtered statement on a keyless shape
	ErrKindEmptyShape                // record shape with zero fields
	ErrKindQueryFailed               // SQL or catalog operation error
	ErrKindConnectionFailed          // cannot reach or open the database
	ErrKindTimeout                   // context deadline / cancellation
	ErrKindInvalidInput              // bad arguments from the caller
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotConfigured:
		return "not_configured"
	case ErrKindMissingPrimaryKey:
		return "missing_primary_key"
	case ErrKindEmptyShape:
		return "empty_shape"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all relkit subsystems.
// Drivers and generators produce it; callers inspect it via the Is*
// predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// Wrapf creates an *Error with a formatted message and an underlying cause.
func Wrapf(kind ErrKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// --- Predicates ---

// IsNotConfigured reports whether err was caused by using a component
// before its required configuration (shape, table name, open connection).
func IsNotConfigured(err error) bool {
	return kindOf(err) == ErrKindNotConfigured
}

// IsMissingPrimaryKey reports whether err was caused by requesting a
// key-filtered statement for a shape with no designated primary key.
func IsMissingPrimaryKey(err error) bool {
	return kindOf(err) == ErrKindMissingPrimaryKey
}

// IsEmptyShape reports whether err was caused by a record shape with
// zero fields.
func IsEmptyShape(err error) bool {
	return kindOf(err) == ErrKindEmptyShape
}

// IsQueryFailed reports whether err is a backend operation failure
// (SQL execution error, catalog query error, closed connection, …).
func IsQueryFailed(err error) bool {
	return kindOf(err) == ErrKindQueryFailed
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
