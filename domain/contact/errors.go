package contact

import (
	"errors"

	apperrors "github.com/akeren/portfolio-api/pkg/errors"
)

// Sentinel errors for the contact domain.
var (
	ErrMissingField      = errors.New("required field is missing")
	ErrInvalidEmail      = errors.New("email address is malformed")
	ErrFieldTooLong      = errors.New("field exceeds maximum length")
	ErrRateLimited       = errors.New("submission limit reached for client")
	ErrMissingInsertedID = errors.New("store did not return an inserted id")
	ErrNullBody          = errors.New("request body is null")
)

// Caller-facing messages.
const (
	MessageSent              = "Message sent successfully!"
	MessageAllFieldsRequired = "All fields are required."
	MessageInvalidEmail      = "Please provide a valid email address."
	MessageFieldTooLong      = "One or more fields exceed maximum length."
	MessageTooManyRequests   = "Too many requests. Please try again later."
	MessageInternalError     = "Internal server error. Please try again later."
	MessageMethodNotAllowed  = "Method not allowed"
)

func NewRateLimitedError() *apperrors.AppError {
	return apperrors.NewRateLimitExceededError(MessageTooManyRequests, ErrRateLimited)
}

func NewPersistenceError(err error) *apperrors.AppError {
	return apperrors.NewDatabaseError(MessageInternalError, err)
}

func NewMethodNotAllowedError() *apperrors.AppError {
	return apperrors.NewMethodNotAllowedError(MessageMethodNotAllowed)
}
