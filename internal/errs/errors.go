// Package errs provides the unified error type used across all of yobatis.
//
// Every subsystem (placeholder resolution, schema model, dialects, filestore,
// server) wraps its native errors into *errs.Error before returning them to
// callers. Callers use the Is* predicates to handle errors without importing
// driver-specific packages.
//
// Usage:
//
//	// In a dialect, wrap native errors:
//	return errs.Wrap(errs.ErrKindResourceNotAvailable, "failed to list tables", myErr)
//
//	// In the CLI, check the error kind:
//	if errs.IsInvalidConfiguration(err) {
//	    fmt.Fprintln(os.Stderr, "check the datasource section of yobatis.yaml")
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
type ErrKind int

const (
	ErrKindUnknown              ErrKind = iota
	ErrKindInvalidArgument              // malformed input to a pure function
	ErrKindInvalidConfiguration         // connection parameters structurally unusable
	ErrKindResourceNotAvailable         // connection or metadata call failed
	ErrKindNotFound                     // unknown table, missing object or bucket
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidArgument:
		return "invalid_argument"
	case ErrKindInvalidConfiguration:
		return "invalid_configuration"
	case ErrKindResourceNotAvailable:
		return "resource_not_available"
	case ErrKindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all yobatis subsystems.
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

// Newf is New with a formatted message.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsInvalidArgument reports whether err was caused by malformed input to a
// pure function (e.g. an empty table name).
func IsInvalidArgument(err error) bool {
	return KindOf(err) == ErrKindInvalidArgument
}

// IsInvalidConfiguration reports whether err was caused by unusable
// connection parameters or an unresolved placeholder.
func IsInvalidConfiguration(err error) bool {
	return KindOf(err) == ErrKindInvalidConfiguration
}

// IsResourceNotAvailable reports whether err is a connectivity, auth or
// metadata failure.
func IsResourceNotAvailable(err error) bool {
	return KindOf(err) == ErrKindResourceNotAvailable
}

// IsNotFound reports whether err represents a missing table, object or bucket.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// KindOf extracts the ErrKind from the first *Error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
