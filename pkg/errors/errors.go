// Package errors provides structured error types for the blueprint tool.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: a ref, commit, tree, or blob does not resolve
//   - MALFORMED_DOCUMENT: a stored document fails structural validation
//   - STORE_CORRUPT: object store integrity failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "blueprint %q does not exist", name)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing blueprint
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStoreCorrupt, origErr, "object %s", hash)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidName  Code = "INVALID_NAME"
	ErrCodeInvalidHash  Code = "INVALID_HASH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Document decode errors
	ErrCodeMalformedDocument Code = "MALFORMED_DOCUMENT"

	// Object store integrity errors
	ErrCodeStoreCorrupt Code = "STORE_CORRUPT"

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
	if errors.As(err, &e) {
		return e.Code == code
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
		return e.Message
	}
	return err.Error()
}
