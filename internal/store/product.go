package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/product-api/internal/domain"
)

// ProductStore defines the interface for product persistence.
// Implementations never validate payloads; callers are expected to run
// domain.ValidateProduct first.
type ProductStore interface {
	// List returns every product ordered by ID.
	// An empty table yields an empty, non-nil slice.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves a product by its ID.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Create inserts a product from a complete change set and returns the
	// ID assigned by the database.
	Create(ctx context.Context, changes domain.ProductChanges) (int64, error)

	// CreateBatch inserts several products with one prepared statement.
	// Callers wanting atomicity should use a store bound to a transaction.
	CreateBatch(ctx context.Context, products []domain.ProductChanges) error

	// Update writes exactly the fields present in changes.
	// Returns ErrProductNotFound unless exactly one row was affected.
	// Returns ErrInvalidEntity if changes holds no writable field.
	Update(ctx context.Context, id int64, changes domain.ProductChanges) error

	// Delete removes a product by its ID.
	// Returns ErrProductNotFound unless exactly one row was affected.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of stored products.
	Count(ctx context.Context) (int, error)

	// WithTx returns a ProductStore that runs its statements inside tx.
	WithTx(tx *sql.Tx) ProductStore
}
