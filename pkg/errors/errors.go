// Package errors provides structured error types for dn-house.
//
// Every failure that reaches a page or a CLI command carries a machine-readable
// [Code] and a human-readable message. The message is the text shown to the
// visitor, so backend failures keep the fixed per-endpoint wording ("Failed to
// fetch guestbook entries") while the underlying cause stays available through
// [errors.Unwrap] for logs.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: client-side validation failures, no network call was made
//   - NOT_FOUND: the backend answered 404
//   - NETWORK_ERROR / TIMEOUT: transport failures and non-2xx responses
//   - INTERNAL_ERROR: unexpected local failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFile, "Only image files are allowed.")
//	if errors.Is(err, errors.ErrCodeInvalidFile) {
//	    // show inline
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, cause, "Failed to fetch photos")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFile   Code = "INVALID_FILE"
	ErrCodeInvalidKind   Code = "INVALID_KIND"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // User-facing message
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

// UserMessage returns the message to show a visitor for err.
// For *Error types it is the message without the code prefix; any other
// error yields fallback so raw transport details never reach a page.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// IsValidation reports whether err is a client-side validation failure,
// i.e. one that was raised before any network call.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFile, ErrCodeInvalidKind,
		ErrCodeInvalidFormat, ErrCodeInvalidID, ErrCodeInvalidConfig:
		return true
	}
	return false
}
