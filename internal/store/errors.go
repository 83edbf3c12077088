package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored or violates a database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInUse is returned when an entity cannot be removed because other
	// entities still reference it.
	ErrInUse = errors.New("entity is still referenced")

	// Entity-specific "not found" errors

	ErrUserNotFound         = fmt.Errorf("%w: user", ErrNotFound)
	ErrCategoryNotFound     = fmt.Errorf("%w: category", ErrNotFound)
	ErrThemeNotFound        = fmt.Errorf("%w: theme", ErrNotFound)
	ErrCardNotFound         = fmt.Errorf("%w: card", ErrNotFound)
	ErrSessionNotFound      = fmt.Errorf("%w: study session", ErrNotFound)
	ErrGoalNotFound         = fmt.Errorf("%w: study goal", ErrNotFound)
	ErrQuestionListNotFound = fmt.Errorf("%w: question list", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrUsernameExists indicates that a user with the given username already exists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrCategoryHasCards is returned when deleting a category that still has cards.
	ErrCategoryHasCards = fmt.Errorf("%w: category has cards", ErrInUse)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is the storage-failure kind: an unexpected persistence problem
// such as a lost connection, a serialization failure or a failed commit.
// Callers may retry operations that fail with it.
type StoreError struct {
	Entity    string // The entity type (e.g., "user", "card")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// IsStorageError reports whether err is, or wraps, a StoreError.
func IsStorageError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
