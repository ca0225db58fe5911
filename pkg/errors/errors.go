// Package errors provides structured error types for hotspotmap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the preview server
//   - Machine-readable error codes for programmatic handling
//   - Parse errors that point at the offending file and line
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Missing files or entries
//   - EXTERNAL_TOOL: Failures of rsvg-convert, pdfjam and friends
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
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
	ErrCodeInvalidFloorplan   Code = "INVALID_FLOORPLAN"
	ErrCodeInvalidTemperature Code = "INVALID_TEMPERATURE"
	ErrCodeInvalidLayerConfig Code = "INVALID_LAYER_CONFIG"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidMode        Code = "INVALID_MODE"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Cross-file consistency errors
	ErrCodeTemperatureMismatch Code = "TEMPERATURE_MISMATCH"

	// External tool errors
	ErrCodeExternalTool Code = "EXTERNAL_TOOL"

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
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Location() + ": " + pe.Msg
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ParseError reports malformed input at a specific line of an input file.
type ParseError struct {
	Code Code   // Category of the file being parsed
	File string // File name as given to the parser
	Line int    // 1-based line number, 0 when the error concerns the whole file
	Msg  string
}

// Parsef creates a ParseError with a formatted message.
func Parsef(code Code, file string, line int, format string, args ...any) *ParseError {
	return &ParseError{Code: code, File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Location returns "file:line", or just the file name when Line is zero.
func (e *ParseError) Location() string {
	if e.Line <= 0 {
		return e.File
	}
	return fmt.Sprintf("%s:%d", e.File, e.Line)
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location(), e.Msg)
}

// Unwrap exposes the code as an *Error so Is and GetCode see it.
func (e *ParseError) Unwrap() error {
	return &Error{Code: e.Code, Message: e.Msg}
}

// ToolError describes a failed external tool invocation.
type ToolError struct {
	Tool   string // Executable name
	Stderr string // Captured standard error, trimmed
	Err    error
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

// Unwrap returns the coded error so errors.Is(err, ErrCodeExternalTool) holds.
func (e *ToolError) Unwrap() error {
	return &Error{Code: ErrCodeExternalTool, Message: e.Tool, Cause: e.Err}
}

// Code returns the error code for this error type.
func (e *ToolError) Code() Code {
	return ErrCodeExternalTool
}
