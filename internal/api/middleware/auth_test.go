package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/product-api/internal/api/shared"
	"github.com/phrazzld/product-api/internal/config"
	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/service/auth"
	"github.com/phrazzld/product-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[string]*domain.User

func (s stubUsers) GetByToken(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	admin := &domain.User{ID: 1, Username: "admin", Token: "valid-token"}
	checker := auth.NewTokenAuthenticator(stubUsers{"valid-token": admin}, nil)

	tests := []struct {
		name           string
		authHeader     string
		format         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"No API token supplied."}`,
		},
		{
			name:           "invalid auth format",
			authHeader:     "valid-token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"Supplied API token is not valid."}`,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic valid-token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"Supplied API token is not valid."}`,
		},
		{
			name:           "unknown token",
			authHeader:     "Bearer other-token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"Supplied API token is not valid."}`,
		},
		{
			name:           "unknown token in envelope format",
			authHeader:     "Bearer other-token",
			format:         config.ResponseFormatEnvelope,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"error","error":{"message":"Supplied API token is not valid."}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mw := NewAuthMiddleware(checker, shared.NewResponder(tt.format))

			var captured *domain.User
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured, _ = shared.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/product", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(nextHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, captured)
				assert.Equal(t, admin.ID, captured.ID)
				return
			}
			assert.Nil(t, captured, "next handler must not run")
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}
