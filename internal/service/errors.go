package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/product-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
var (
	// ErrProductNotFound indicates that no product has the requested ID.
	// API layer maps this to 404 for reads and, in the legacy response format,
	// 400 for updates and deletes.
	ErrProductNotFound = errors.New("product not found")

	// ErrNoChanges indicates an update request carried no fields at all.
	ErrNoChanges = errors.New("no product changes supplied")
)

// ProductServiceError wraps unexpected errors from the product service with context.
type ProductServiceError struct {
	// Operation is the operation that failed (e.g., "add_product", "delete_product")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ProductServiceError.
func (e *ProductServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("product service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("product service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ProductServiceError) Unwrap() error {
	return e.Err
}

// NewProductServiceError creates a new ProductServiceError.
// Known sentinel errors are returned directly without wrapping.
func NewProductServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrProductNotFound) || errors.Is(err, store.ErrProductNotFound) {
		return ErrProductNotFound
	}

	return &ProductServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
