// Package errors provides structured error types for depwalk.
//
// Error codes are machine-readable and follow a hierarchical naming
// convention (INVALID_*, NOT_FOUND_*, NETWORK_*, INTERNAL_*), enabling
// consistent handling across the CLI and the HTTP API.
//
//	err := errors.New(errors.ErrCodeInvalidCoordinate, "bad coordinate %q", arg)
//	if errors.Is(err, errors.ErrCodeInvalidCoordinate) {
//	    // validation failure, exit 2
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure taxonomy.
const (
	// Input validation errors. These are fatal and checked by the caller
	// before a walk starts.
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidPackage    Code = "INVALID_PACKAGE"
	ErrCodeInvalidMode       Code = "INVALID_MODE"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	// FIXTURE_UNAVAILABLE means the fixture mapping source could not be
	// read. Fatal: aborts before any traversal.
	ErrCodeFixtureUnavailable Code = "FIXTURE_UNAVAILABLE"

	// Resource not found errors.
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeReportNotFound  Code = "REPORT_NOT_FOUND"

	// Network errors. Per-node fetch failures carrying these codes are
	// swallowed at the walker boundary and surfaced as warnings.
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors.
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns the empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types it drops the code prefix; other errors pass through.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
