package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/product-api/internal/api/shared"
	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/service/auth"
)

// Authentication failure messages sent to clients.
const (
	MissingTokenMessage = "No API token supplied."
	InvalidTokenMessage = "Supplied API token is not valid."
)

// TokenChecker resolves an Authorization header value to a user.
// *auth.TokenAuthenticator satisfies it.
type TokenChecker interface {
	CheckToken(ctx context.Context, header string) (*domain.User, error)
}

// AuthMiddleware guards routes with a static bearer token.
type AuthMiddleware struct {
	checker   TokenChecker
	responder *shared.Responder
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(checker TokenChecker, responder *shared.Responder) *AuthMiddleware {
	return &AuthMiddleware{
		checker:   checker,
		responder: responder,
	}
}

// Authenticate checks the Authorization header and adds the token's owner to
// the request context. A missing header yields 400, anything else that fails
// to resolve to a user yields 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.checker.CheckToken(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				m.responder.ErrorAndLog(w, r, http.StatusBadRequest, MissingTokenMessage, err)
				return
			}
			m.responder.ErrorAndLog(w, r, http.StatusUnauthorized, InvalidTokenMessage, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
	})
}
