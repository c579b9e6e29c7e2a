// Package errors provides structured error types for pipsearch.
//
// Errors carry a machine-readable [Code] and, for failures tied to one step
// of a search, the [Stage] that failed. The CLI uses both to print a message
// that says which part of the query broke and, when an HTTP response was
// involved, the status it returned.
//
// # Error Codes
//
//   - INVALID_*: input validation failures
//   - TRANSPORT_FAILURE: a search or detail page could not be fetched
//   - CHALLENGE_UNSOLVABLE: the index's proof-of-work gate could not be passed
//   - TIMESTAMP_INVALID: a release timestamp did not parse
//   - UNAUTHORIZED, RATE_LIMITED, NOT_FOUND: why repository stats are missing
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "empty query")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	err = errors.AtStage(errors.StageSearchPage, errors.ErrCodeTransport, cause, "page %d", 2)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidSort   Code = "INVALID_SORT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Pipeline failures
	ErrCodeTransport    Code = "TRANSPORT_FAILURE"
	ErrCodeChallenge    Code = "CHALLENGE_UNSOLVABLE"
	ErrCodeTimestamp    Code = "TIMESTAMP_INVALID"
	ErrCodeExtraction   Code = "EXTRACTION_FAILED"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Stage names the step of a search that produced an error.
type Stage string

// Stages reported to the user on fatal errors.
const (
	StageChallenge  Stage = "challenge"
	StageSearchPage Stage = "search page fetch"
	StageDetailPage Stage = "detail page fetch"
	StageBuild      Stage = "record build"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Stage   Stage  // Failing search stage (optional)
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Code)
	if e.Stage != "" {
		prefix = fmt.Sprintf("%s: %s", e.Stage, e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
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

// AtStage is like Wrap but records the failing stage.
func AtStage(stage Stage, code Code, cause error, format string, args ...any) *Error {
	e := Wrap(code, cause, format, args...)
	e.Stage = stage
	return e
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

// GetStage extracts the failing stage from an error, if available.
func GetStage(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, the stage and HTTP status are included when known;
// the code prefix is dropped. Other errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	msg := e.Message
	if e.Stage != "" {
		msg = fmt.Sprintf("%s failed: %s", e.Stage, msg)
	}
	var se *StatusError
	if errors.As(err, &se) {
		msg = fmt.Sprintf("%s (%s)", msg, se.Status())
	} else if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// StatusError records an unexpected HTTP status for a URL.
type StatusError struct {
	Method     string // defaults to GET
	StatusCode int
	URL        string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	method := e.Method
	if method == "" {
		method = http.MethodGet
	}
	return fmt.Sprintf("%s %s: %s", method, e.URL, e.Status())
}

// Status returns the status code with its reason phrase (e.g. "404 Not Found").
func (e *StatusError) Status() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}
