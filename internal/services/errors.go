package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP status codes at the handler boundary.
var (
	// ErrNotFound covers missing rows and scoped updates that matched
	// nothing (wrong owner, or the row already left the expected state).
	ErrNotFound = errors.New("not found")

	// ErrConflict covers duplicate unique keys, e.g. an email that is
	// already registered or a second active tenancy for the same user.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized covers bad credentials and invalid tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidReference covers foreign-key violations on create: the
	// request named a building, flat or tenancy that does not exist.
	ErrInvalidReference = errors.New("invalid reference")
)

// ValidationError represents a bad-input failure on a named field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
