package provider

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the credential client and the record store.
// Callers branch with errors.Is; wrapping with %w keeps the category intact.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrNetwork            = errors.New("identity provider unreachable")
	ErrNoSession          = errors.New("no active session")
	ErrSessionExpired     = errors.New("session expired")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserMessage maps an error from the taxonomy to a human-readable message
// safe to show to the end user. Ownership failures deliberately share the
// same wording as missing records so they leak nothing about other users'
// data.
func UserMessage(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrAccountExists):
		return "An account with this email already exists"
	case errors.Is(err, ErrConflict):
		return "That name is already taken"
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrNoSession), errors.Is(err, ErrSessionExpired):
		return "Please sign in to continue"
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrNetwork):
		return "Service temporarily unavailable. Please try again."
	default:
		return "Something went wrong"
	}
}
