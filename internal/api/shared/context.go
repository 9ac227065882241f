package shared

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/product-api/internal/domain"
)

// Key type for context values
type ContextKey string

// UserContextKey is the context key for the authenticated *domain.User.
const UserContextKey ContextKey = "user"

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok && user != nil
}

// GetTraceID returns the request ID assigned by chi's RequestID middleware,
// or an empty string outside a request.
func GetTraceID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
