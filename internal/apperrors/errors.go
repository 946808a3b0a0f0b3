// Package apperrors defines the typed failures returned by the family engine.
// Every failure a player can cause is an *Error with a Code; the transport
// layer turns codes into replies and never inspects messages.
package apperrors

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeValidation        Code = "VALIDATION"
	CodeCooldown          Code = "COOLDOWN"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeLimit             Code = "LIMIT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeStorage           Code = "STORAGE"
)

// Error is the engine error type.
type Error struct {
	Code    Code
	Message string
	// Remaining is set for COOLDOWN errors.
	Remaining time.Duration
	// Required and Available are set for INSUFFICIENT_FUNDS errors.
	Required  int64
	Available int64
	Cause     error
}

// Sentinels for errors.Is; they match any *Error with the same code.
var (
	ErrValidation        = &Error{Code: CodeValidation}
	ErrCooldown          = &Error{Code: CodeCooldown}
	ErrInsufficientFunds = &Error{Code: CodeInsufficientFunds}
	ErrLimit             = &Error{Code: CodeLimit}
	ErrNotFound          = &Error{Code: CodeNotFound}
	ErrConflict          = &Error{Code: CodeConflict}
	ErrStorage           = &Error{Code: CodeStorage}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WholeHours rounds the remaining cooldown up to whole hours.
func (e *Error) WholeHours() int {
	return int(math.Ceil(e.Remaining.Hours()))
}

// WholeMinutes rounds the remaining cooldown up to whole minutes.
func (e *Error) WholeMinutes() int {
	return int(math.Ceil(e.Remaining.Minutes()))
}

func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func Cooldown(message string, remaining time.Duration) *Error {
	return &Error{Code: CodeCooldown, Message: message, Remaining: remaining}
}

func InsufficientFunds(required, available int64) *Error {
	return &Error{
		Code:      CodeInsufficientFunds,
		Message:   fmt.Sprintf("insufficient funds: need %d, have %d", required, available),
		Required:  required,
		Available: available,
	}
}

func Limit(format string, args ...any) *Error {
	return &Error{Code: CodeLimit, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a store failure. The engine never recovers from these.
func Storage(cause error) *Error {
	return &Error{Code: CodeStorage, Message: "storage failure", Cause: cause}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of err, or "" when err carries none.
func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}
