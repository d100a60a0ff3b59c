// Package errors provides structured error types for necklace.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure modes of constrained sequencing:
//   - INVALID_INPUT, EMPTY_GROUP, DUPLICATE_ITEM: malformed group sets,
//     rejected when the group set is constructed
//   - INFEASIBLE_INPUT: a well-formed group set that admits no arrangement
//     without two same-group items side by side
//   - PRECONDITION_VIOLATION: programmer errors such as building from an
//     infeasible set or canonicalizing with an absent anchor
//   - INVALID_CONFIG, NOT_FOUND, INTERNAL_ERROR: ambient failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyGroup, "group %q has no items", name)
//	if errors.Is(err, errors.ErrCodeEmptyGroup) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodePrecondition, cause, "cannot build sequence")
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeEmptyGroup    Code = "EMPTY_GROUP"
	ErrCodeDuplicateItem Code = "DUPLICATE_ITEM"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Sequencing errors
	ErrCodeInfeasible   Code = "INFEASIBLE_INPUT"
	ErrCodePrecondition Code = "PRECONDITION_VIOLATION"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether any *Error in err's chain carries the given code.
// A precondition violation that wraps an infeasibility error matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
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

// GetCode extracts the outermost error code from an error, if available.
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

// IsInputError reports whether err was caused by malformed or infeasible input
// rather than by a bug or an environment failure.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeEmptyGroup, ErrCodeDuplicateItem, ErrCodeInvalidConfig, ErrCodeInfeasible:
		return true
	}
	return false
}
