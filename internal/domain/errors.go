package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is wrapped by ValidationError, which carries the user-facing message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an actor may not perform an action on a task.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes the first constraint a value violated.
// Message is safe to show to API clients.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AuthorizationError reports that an actor is neither allowed nor able to
// perform Action on a task.
type AuthorizationError struct {
	Action Action
}

// Error returns the client-facing sentence, e.g. "Not authorized to assign this task".
func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("Not authorized to %s this task", e.Action.verb())
}

func (e *AuthorizationError) Unwrap() error {
	return ErrUnauthorized
}
