package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/redact"
	"github.com/phrazzld/product-api/internal/store"
)

const userEntity = "user"

// UserStore implements the store.UserStore interface
// on top of a PostgreSQL or SQLite database.
type UserStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewUserStore creates a new UserStore.
// If logger is nil, a default logger will be used.
func NewUserStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *UserStore {
	if db == nil {
		// ALLOW-PANIC: programming error
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

// Create implements store.UserStore.Create
// Returns store.ErrDuplicate if the token is already taken.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return 0, err
	}

	query := fmt.Sprintf(
		"INSERT INTO users (username, passwordHash, token) VALUES (%s)",
		s.dialect.Placeholders(1, 3),
	)
	args := []any{user.Username, user.PasswordHash, user.Token}

	var id int64
	var err error
	if s.dialect.supportsReturning() {
		err = s.db.QueryRowContext(ctx, query+" RETURNING userID", args...).Scan(&id)
	} else {
		var result sql.Result
		result, err = s.db.ExecContext(ctx, query, args...)
		if err == nil {
			id, err = result.LastInsertId()
		}
	}

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("attempted to create user with duplicate token",
				slog.String("username", user.Username))
			return 0, fmt.Errorf("%w: token already in use", store.ErrDuplicate)
		}
		log.Error("failed to create user",
			slog.String("error", redact.Error(err)),
			slog.String("username", user.Username))
		return 0, store.NewStoreError(userEntity, "create", "failed to insert user", MapError(err))
	}

	user.ID = id
	log.Info("user created",
		slog.Int64("user_id", id),
		slog.String("username", user.Username))
	return id, nil
}

// GetByToken implements store.UserStore.GetByToken
// The token is matched exactly. Returns store.ErrUserNotFound if no user owns it.
func (s *UserStore) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT userID, username, passwordHash, token FROM users WHERE token = ` + s.dialect.Placeholder(1)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Token,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no user owns token", slog.String("token", redact.Token(token)))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to look up user by token",
			slog.String("error", redact.Error(err)),
			slog.String("token", redact.Token(token)))
		return nil, store.NewStoreError(userEntity, "get_by_token", "failed to query user", MapError(err))
	}

	return &user, nil
}

// Count implements store.UserStore.Count
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, store.NewStoreError(userEntity, "count", "failed to count users", MapError(err))
	}
	return n, nil
}
