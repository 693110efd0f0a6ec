package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code, message, and metadata
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithMeta adds metadata to the error
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error, preserving its code if it's an Error
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Code:    existingErr.Code,
			Message: message,
			Cause:   err,
			Meta:    existingErr.Meta,
		}
	}

	return &Error{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// MalformedLevel creates an error for a level specification that cannot be built
func MalformedLevel(message string) *Error {
	return New(CodeMalformedLevel, message)
}

// MalformedLevelf creates a malformed level error with formatted message
func MalformedLevelf(format string, args ...any) *Error {
	return Newf(CodeMalformedLevel, format, args...)
}

// InvalidAction creates an error for a rejected move
func InvalidAction(message string) *Error {
	return New(CodeInvalidAction, message)
}

// InvalidActionf creates an invalid action error with formatted message
func InvalidActionf(format string, args ...any) *Error {
	return Newf(CodeInvalidAction, format, args...)
}

// Protocol creates an error for a malformed or out-of-turn message
func Protocol(message string) *Error {
	return New(CodeProtocol, message)
}

// Protocolf creates a protocol error with formatted message
func Protocolf(format string, args ...any) *Error {
	return Newf(CodeProtocol, format, args...)
}

// Registration creates an error for a rejected registration attempt
func Registration(message string) *Error {
	return New(CodeRegistration, message)
}

// Registrationf creates a registration error with formatted message
func Registrationf(format string, args ...any) *Error {
	return Newf(CodeRegistration, format, args...)
}

// Disconnect creates an error for an actor whose connection is gone
func Disconnect(message string) *Error {
	return New(CodeDisconnect, message)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates an internal error with formatted message
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}
