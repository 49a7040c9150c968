// Package errors defines the typed errors shared across the serex export
// pipeline. Exporters and services return these so callers and the HTTP
// layer can branch on the failure kind instead of matching message text.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an export failure
type Kind string

const (
	// KindInvalidOption marks an unsupported value for a closed-set or
	// constrained option. Raised before any data is touched.
	KindInvalidOption Kind = "INVALID_OPTION"

	// KindIOFailure marks a save or write that could not complete.
	KindIOFailure Kind = "IO_FAILURE"

	// KindTypeMismatch marks a value inconsistent with the declared dtype.
	KindTypeMismatch Kind = "TYPE_MISMATCH"

	// KindNotFound marks a missing series, mount, or other resource.
	KindNotFound Kind = "NOT_FOUND"
)

// Error is the application error carried across package boundaries
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates an Error of the given kind
func New(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper constructors for the export error kinds

// InvalidOption creates an invalid-option error. The option name is kept
// in the error context so transport layers can report the offending field.
func InvalidOption(option, message string) *Error {
	return New(KindInvalidOption, fmt.Sprintf("option %s: %s", option, message), nil).
		WithContext("option", option)
}

// IOFailure creates an I/O error for a failed save or write
func IOFailure(op string, cause error) *Error {
	return New(KindIOFailure, op, cause)
}

// TypeMismatch creates a type-mismatch error for the named value
func TypeMismatch(subject string, cause error) *Error {
	return New(KindTypeMismatch, subject, cause)
}

// NotFound creates a not found error
func NotFound(resource string) *Error {
	return New(KindNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// KindOf returns the kind carried by err, or "" when err wraps no Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsInvalidOption reports whether err carries KindInvalidOption
func IsInvalidOption(err error) bool { return KindOf(err) == KindInvalidOption }

// IsIOFailure reports whether err carries KindIOFailure
func IsIOFailure(err error) bool { return KindOf(err) == KindIOFailure }

// IsTypeMismatch reports whether err carries KindTypeMismatch
func IsTypeMismatch(err error) bool { return KindOf(err) == KindTypeMismatch }

// IsNotFound reports whether err carries KindNotFound
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
