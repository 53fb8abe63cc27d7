// Package errors provides structured error types for spectools.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and libraries
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The two codes produced by the radiative core are:
//   - PARSE_ERROR: a malformed input file or row
//   - DOMAIN_ERROR: a mathematically undefined operation (division by zero,
//     square root of a non-positive number, zero temperature)
//
// Everything else (INVALID_*, NOT_FOUND, DUPLICATE, PROCESS_FAILED, ...) is
// raised by the surrounding tooling: configuration, the document store and
// the wrappers around the external SPCAT/SPFIT programs.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDomain, "temperature must be positive, got %g", t)
//	if errors.Is(err, errors.ErrCodeDomain) {
//	    // Handle undefined math
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, origErr, "line %d: frequency", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Computation errors
	ErrCodeParse  Code = "PARSE_ERROR"
	ErrCodeDomain Code = "DOMAIN_ERROR"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeDuplicate    Code = "DUPLICATE"

	// External program errors
	ErrCodeProcess Code = "PROCESS_FAILED"

	// Internal errors
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// Parse is shorthand for New(ErrCodeParse, ...).
func Parse(format string, args ...any) *Error {
	return New(ErrCodeParse, format, args...)
}

// Domain is shorthand for New(ErrCodeDomain, ...).
func Domain(format string, args ...any) *Error {
	return New(ErrCodeDomain, format, args...)
}
