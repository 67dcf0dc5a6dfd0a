// Package errors provides structured error types for colgrid.
//
// Errors carry a machine-readable Code so callers (the CLI, the pipeline, and
// hosts embedding the grid engine) can branch on the failure category without
// matching on message text.
//
// # Error Codes
//
//   - INVALID_*: rejected input (display indices, widths, scenario files, steps)
//   - DUPLICATE_*: identity or index collisions inside a column set
//   - *_NOT_FOUND: unknown columns or files
//   - UNRESOLVED_WIDTH: a layout invariant violation surfaced in strict mode
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDisplayIndex, "display index %d out of range [0, %d]", idx, n)
//	if errors.Is(err, errors.ErrCodeInvalidDisplayIndex) {
//	    // reject the mutation
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Column set mutations
	ErrCodeInvalidDisplayIndex   Code = "INVALID_DISPLAY_INDEX"
	ErrCodeDuplicateDisplayIndex Code = "DUPLICATE_DISPLAY_INDEX"
	ErrCodeDuplicateColumn       Code = "DUPLICATE_COLUMN"
	ErrCodeColumnNotFound        Code = "COLUMN_NOT_FOUND"
	ErrCodeInvalidColumnID       Code = "INVALID_COLUMN_ID"

	// Input parsing
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidWidth    Code = "INVALID_WIDTH"
	ErrCodeInvalidScenario Code = "INVALID_SCENARIO"
	ErrCodeInvalidStep     Code = "INVALID_STEP"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Layout invariants
	ErrCodeUnresolvedWidth Code = "UNRESOLVED_WIDTH"

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

// Is reports whether err has the given error code.
// Only the outermost *Error in the chain is inspected.
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

// UserMessage returns the message without the code prefix for *Error values,
// and err.Error() for everything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
