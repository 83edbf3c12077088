package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/medcards-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrForbidden indicates the caller lacks the role an operation requires.
	ErrForbidden = errors.New("operation not permitted")

	// ErrSessionEnded is returned when answering in a session that has been closed.
	ErrSessionEnded = errors.New("study session has already ended")

	// ErrInvalidRating is returned for difficulty ratings outside 1..5.
	ErrInvalidRating = errors.New("difficulty rating must be between 1 and 5")

	// ErrThemeCategoryMismatch is returned when a card's theme belongs to a
	// different category than the card.
	ErrThemeCategoryMismatch = errors.New("theme does not belong to the card's category")

	// ErrGenerationDisabled is returned when no LLM is configured.
	ErrGenerationDisabled = errors.New("answer suggestions are not enabled")
)

// ServiceError wraps unexpected failures of a service operation.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// wrap returns expected errors (validation, not found, conflicts and the
// service sentinels) unchanged and wraps everything else in a ServiceError.
func wrap(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if IsExpected(err) {
		return err
	}
	return NewServiceError(service, operation, message, err)
}

// IsExpected reports whether err is an anticipated outcome (validation,
// not found, conflict or one of the service sentinels) rather than a failure.
func IsExpected(err error) bool {
	for _, target := range []error{
		store.ErrNotFound,
		store.ErrDuplicate,
		store.ErrInvalidEntity,
		store.ErrInUse,
		ErrNotOwned,
		ErrForbidden,
		ErrSessionEnded,
		ErrInvalidRating,
		ErrThemeCategoryMismatch,
		ErrGenerationDisabled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return isValidation(err)
}
