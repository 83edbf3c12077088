// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific validation errors wrap it so callers can test for the
	// whole class with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// validationError builds an entity-specific error that also matches ErrValidation.
func validationError(msg string) error {
	return &fieldError{msg: msg}
}

type fieldError struct {
	msg string
}

func (e *fieldError) Error() string { return e.msg }

func (e *fieldError) Is(target error) bool { return target == ErrValidation }

// NewValidationError reports an invalid input field. The result matches
// ErrValidation.
func NewValidationError(field, msg string) error {
	return validationError(field + " " + msg)
}
