package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMessage extracts the user-friendly message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// Type checking helpers

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsInvalidDie checks if an error is an invalid die error
func IsInvalidDie(err error) bool {
	return GetCode(err) == CodeInvalidDie
}

// IsInvalidCount checks if an error is an invalid count error
func IsInvalidCount(err error) bool {
	return GetCode(err) == CodeInvalidCount
}

// IsMalformedNotation checks if an error is a malformed notation error
func IsMalformedNotation(err error) bool {
	return GetCode(err) == CodeMalformedNotation
}

// IsInvalidAmount checks if an error is an invalid amount error
func IsInvalidAmount(err error) bool {
	return GetCode(err) == CodeInvalidAmount
}

// IsUnknownParticipant checks if an error is an unknown participant error
func IsUnknownParticipant(err error) bool {
	return GetCode(err) == CodeUnknownParticipant
}

// IsEncounterConcluded checks if an error is an encounter concluded error
func IsEncounterConcluded(err error) bool {
	return GetCode(err) == CodeEncounterConcluded
}
