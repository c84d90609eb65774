package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code, message, and metadata
type Error struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
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

// Is checks if the target error is of the same type
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithMeta adds metadata to the error
func (e *Error) WithMeta(key string, value interface{}) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
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
func Newf(code Code, format string, args ...interface{}) *Error {
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
func Wrapf(err error, format string, args ...interface{}) *Error {
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

// Constructor functions for common error types

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a not found error with formatted message
func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates an invalid argument error with formatted message
func InvalidArgumentf(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExists creates an already exists error
func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates an internal error with formatted message
func Internalf(format string, args ...interface{}) *Error {
	return Newf(CodeInternal, format, args...)
}

// Unavailable creates an unavailable error
func Unavailable(message string) *Error {
	return New(CodeUnavailable, message)
}

// InvalidDie creates an invalid die error
func InvalidDie(message string) *Error {
	return New(CodeInvalidDie, message)
}

// InvalidDief creates an invalid die error with formatted message
func InvalidDief(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidDie, format, args...)
}

// InvalidCount creates an invalid count error
func InvalidCount(message string) *Error {
	return New(CodeInvalidCount, message)
}

// InvalidCountf creates an invalid count error with formatted message
func InvalidCountf(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidCount, format, args...)
}

// MalformedNotation creates a malformed notation error
func MalformedNotation(message string) *Error {
	return New(CodeMalformedNotation, message)
}

// MalformedNotationf creates a malformed notation error with formatted message
func MalformedNotationf(format string, args ...interface{}) *Error {
	return Newf(CodeMalformedNotation, format, args...)
}

// InvalidAmount creates an invalid amount error
func InvalidAmount(message string) *Error {
	return New(CodeInvalidAmount, message)
}

// InvalidAmountf creates an invalid amount error with formatted message
func InvalidAmountf(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidAmount, format, args...)
}

// UnknownParticipant creates an unknown participant error
func UnknownParticipant(message string) *Error {
	return New(CodeUnknownParticipant, message)
}

// UnknownParticipantf creates an unknown participant error with formatted message
func UnknownParticipantf(format string, args ...interface{}) *Error {
	return Newf(CodeUnknownParticipant, format, args...)
}

// EncounterConcluded creates an encounter concluded error
func EncounterConcluded(message string) *Error {
	return New(CodeEncounterConcluded, message)
}
