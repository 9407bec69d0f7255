package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrStatusPrecondition is returned when a conditional status update is
	// rejected because the contract's current status did not match the
	// expected status. The check-and-set is performed atomically by the
	// store; when this error is returned no mutation has occurred.
	ErrStatusPrecondition = errors.New("contract status precondition failed")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails for a reason
	// other than a missing row or a failed status precondition.
	ErrUpdateFailed = errors.New("update failed")

	// ErrContractNotFound indicates that the requested contract does not exist.
	ErrContractNotFound = fmt.Errorf("%w: contract", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStatusPreconditionError checks if the error indicates a failed
// conditional status update.
func IsStatusPreconditionError(err error) bool {
	return errors.Is(err, ErrStatusPrecondition)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "contract")
	Operation string // The operation that failed (e.g., "get_by_id", "update_status")
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
