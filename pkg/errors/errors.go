// Package errors provides structured error types for Constellar.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the tool runner and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*, MALFORMED_*, DUPLICATE_*: Input validation failures
//   - UNKNOWN_*, NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// Dangling references and cycles in diagram graphs are not errors; only
// structurally invalid records are reported.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidNode, "node %d has no id", i)
//	if errors.Is(err, errors.ErrCodeInvalidNode) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode arguments for %s", tool)
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
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidNode        Code = "INVALID_NODE"
	ErrCodeDuplicateNode      Code = "DUPLICATE_NODE"
	ErrCodeMalformedSuccessor Code = "MALFORMED_SUCCESSOR"
	ErrCodeInvalidLayer       Code = "INVALID_LAYER"
	ErrCodeInvalidStyle       Code = "INVALID_STYLE"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeUnknownTool Code = "UNKNOWN_TOOL"

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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsInvalidInput reports whether err carries one of the input validation
// codes. The HTTP layer maps these to 400 responses.
func IsInvalidInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidNode, ErrCodeDuplicateNode,
		ErrCodeMalformedSuccessor, ErrCodeInvalidLayer, ErrCodeInvalidStyle,
		ErrCodeInvalidConfig:
		return true
	}
	return false
}
