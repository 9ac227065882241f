// Package auth checks the static API tokens that guard every product endpoint
// and hashes the bootstrap user's password.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/redact"
	"github.com/phrazzld/product-api/internal/store"
)

// BearerScheme is the only Authorization scheme accepted.
const BearerScheme = "Bearer"

// UserLookup resolves an API token to its owner.
// store.UserStore satisfies it.
type UserLookup interface {
	GetByToken(ctx context.Context, token string) (*domain.User, error)
}

// TokenAuthenticator validates Authorization header values against the users table.
type TokenAuthenticator struct {
	users  UserLookup
	logger *slog.Logger
}

// NewTokenAuthenticator creates a TokenAuthenticator.
// If logger is nil, a default logger will be used.
func NewTokenAuthenticator(users UserLookup, logger *slog.Logger) *TokenAuthenticator {
	if users == nil {
		// ALLOW-PANIC: programming error
		panic("users cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenAuthenticator{
		users:  users,
		logger: logger.With(slog.String("component", "token_authenticator")),
	}
}

// ParseBearer splits header on its first space and returns the token when the
// scheme is exactly "Bearer" and the token is non-empty.
func ParseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != BearerScheme || token == "" {
		return "", false
	}
	return token, true
}

// CheckToken returns the user owning the bearer token in header.
// It returns ErrMissingToken for an empty header and ErrInvalidToken for a
// malformed header, an unknown token or a failed lookup; lookup failures are
// logged and never reported as anything but invalid.
func (a *TokenAuthenticator) CheckToken(ctx context.Context, header string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	if header == "" {
		return nil, ErrMissingToken
	}

	token, ok := ParseBearer(header)
	if !ok {
		log.Debug("malformed authorization header", slog.String("header", redact.String(header)))
		return nil, ErrInvalidToken
	}

	user, err := a.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("unknown API token", slog.String("token", redact.Token(token)))
		} else {
			log.Error("token lookup failed",
				slog.String("error", redact.Error(err)),
				slog.String("token", redact.Token(token)))
		}
		return nil, ErrInvalidToken
	}

	return user, nil
}
