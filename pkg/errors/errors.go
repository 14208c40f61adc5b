// Package errors provides structured error types for joinery.
//
// Errors carry a machine-readable [Code] so that the CLI, the HTTP API and
// library callers can react to a failure class without string matching:
//
//   - MALFORMED_ATTRIBUTE: a persisted attribute string does not parse
//   - UNSET_FRAME: an element's marker curve does not define a frame
//   - ABSENT_FIELD: a field without a safe default was never written
//   - INCONSISTENT_MEMBERSHIP: group data referenced something unknown
//   - INVALID_*: input validation failures
//   - NOT_FOUND / STORE_ERROR: document store failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "empty group path")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Attribute failures name the entity and the key
//	err := errors.Attribute(errors.ErrCodeMalformedAttribute, id, "axes", cause)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Attribute and frame errors
	ErrCodeMalformedAttribute Code = "MALFORMED_ATTRIBUTE"
	ErrCodeUnsetFrame         Code = "UNSET_FRAME"
	ErrCodeAbsentField        Code = "ABSENT_FIELD"

	// Group inference errors
	ErrCodeInconsistentMembership Code = "INCONSISTENT_MEMBERSHIP"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Store errors
	ErrCodeNotFound   Code = "NOT_FOUND"
	ErrCodeStoreError Code = "STORE_ERROR"

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

// AttributeError reports a failure reading or writing one attribute of one
// document entity.
type AttributeError struct {
	Code   Code
	Entity string // Document ID of the entity
	Key    string // Attribute key
	Err    error
}

// Attribute creates an AttributeError.
func Attribute(code Code, entity, key string, err error) *AttributeError {
	return &AttributeError{Code: code, Entity: entity, Key: key, Err: err}
}

// Error implements the error interface.
func (e *AttributeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: entity %s: key %q: %v", e.Code, e.Entity, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: entity %s: key %q", e.Code, e.Entity, e.Key)
}

// Unwrap returns the underlying cause.
func (e *AttributeError) Unwrap() error {
	return e.Err
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *AttributeError with a
// matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	var ae *AttributeError
	if errors.As(err, &ae) {
		return ae.Code
	}
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
	var ae *AttributeError
	if errors.As(err, &ae) {
		if ae.Err != nil {
			return fmt.Sprintf("%s (entity %s, key %q)", ae.Err.Error(), ae.Entity, ae.Key)
		}
		return fmt.Sprintf("entity %s, key %q", ae.Entity, ae.Key)
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
