package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when product data fails validation.
	// It is usually wrapped by a ValidationError carrying the individual messages.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPrice is returned when a price cannot be converted to a decimal.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrEmptyUsername is returned when a user is created without a username.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrEmptyPasswordHash is returned when a user is created without a password hash.
	ErrEmptyPasswordHash = errors.New("password hash cannot be empty")

	// ErrEmptyToken is returned when a user is created without an API token.
	ErrEmptyToken = errors.New("token cannot be empty")
)

// ValidationError lists every rule a product payload violated, in the order
// the offending fields were supplied.
type ValidationError struct {
	Messages []string
}

// NewValidationError creates a ValidationError from the given messages.
func NewValidationError(messages []string) *ValidationError {
	copied := make([]string, len(messages))
	copy(copied, messages)
	return &ValidationError{Messages: copied}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Messages, "; "))
}

// Unwrap makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
