package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig   = "CONFIG"
	ErrLock     = "LOCK"
	ErrCooldown = "COOLDOWN"
	ErrCollect  = "COLLECT"
	ErrState    = "STATE"
)

// ErrBusy marks failures that clear on their own: a cooldown still
// running or a lock held by another viewer. Wrap it to make an error
// Retryable.
var ErrBusy = errors.New("busy, try again later")

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var cwErr *Error
	if errors.As(err, &cwErr) {
		return cwErr.Code == code
	}
	return false
}

// CodeOf returns the code of the first structured error in err's chain,
// or "" when there is none.
func CodeOf(err error) string {
	var cwErr *Error
	if errors.As(err, &cwErr) {
		return cwErr.Code
	}
	return ""
}

// Retryable reports whether err means "wait and try again" rather than
// "something is broken".
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == ErrCooldown || errors.Is(err, ErrBusy)
}
