package errors

import (
	"errors"
)

func HTTPStatusCode(err error) int {
	if err == nil {
		return StatusInternalServerError
	}

	switch GetErrorType(err) {
	case ErrorTypeInvalidRequest:
		return StatusBadRequest
	case ErrorTypeRateLimitExceeded:
		return StatusTooManyRequests
	case ErrorTypeMethodNotAllowed:
		return StatusMethodNotAllowed
	default:
		return StatusInternalServerError
	}
}

// GetHumanReadableMessage returns the caller-safe message of an AppError, or fallback
// for anything else so internal error strings never reach a response.
func GetHumanReadableMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = "An unexpected error occurred"
	}

	if err == nil {
		return fallback
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	return fallback
}
