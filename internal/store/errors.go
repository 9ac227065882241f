package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every store implementation. Match them with errors.Is.
var (
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate reports a unique constraint violation, such as two users
	// sharing a token.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity is rejected before or by the
	// database, for example a NOT NULL or CHECK violation or a field outside the
	// writable set. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed wraps begin and commit failures.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrProductNotFound indicates that no product has the requested ID, or that
	// a write did not affect exactly one product row.
	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)

	// ErrUserNotFound indicates that no user matches the lookup.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
)

func IsNotFoundError(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsDuplicateError(err error) bool { return errors.Is(err, ErrDuplicate) }

// StoreError describes an unexpected storage failure. Its message is meant for
// operators; the API layer never sends it to clients.
type StoreError struct {
	Entity    string // "product" or "user"
	Operation string // create, update, lookup, ...
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := e.Operation + " operation on " + e.Entity + " failed: " + e.Message
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err with the entity and operation that produced it.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}

// IsStoreError reports whether err is or wraps a *StoreError.
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
