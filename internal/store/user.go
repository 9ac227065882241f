package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/product-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user and returns the ID assigned by the database.
	// Returns ErrDuplicate if the token is already in use.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) (int64, error)

	// GetByToken retrieves the user owning the given API token.
	// Returns ErrUserNotFound if no user has that token.
	GetByToken(ctx context.Context, token string) (*domain.User, error)

	// Count returns the number of stored users.
	Count(ctx context.Context) (int, error)

	// WithTx returns a UserStore that runs its statements inside tx.
	WithTx(tx *sql.Tx) UserStore
}
