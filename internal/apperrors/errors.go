package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both genuinely missing resources and resources
	// owned by another user, so callers cannot probe for existence.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for every login failure with the
	// same message, whether the email is unknown or the password is wrong.
	ErrInvalidCredentials = errors.New("unable to login")

	// ErrUnauthenticated is returned when a request carries no token, a
	// malformed token, or a token that has been revoked.
	ErrUnauthenticated = errors.New("please authenticate")
)

// ValidationError reports a rejected input field. The caller can fix the
// input and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
