package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/product-api/internal/api/shared"
	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/redact"
)

// healthPingTimeout bounds the database ping behind GET /health.
const healthPingTimeout = 2 * time.Second

// Pinger checks that the database is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler returns a handler that reports 200 when db answers a ping and
// 503 otherwise. A nil db is always healthy.
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				logger.FromContext(r.Context()).Error("health check failed",
					slog.String("error", redact.Error(err)))
				shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
				return
			}
		}

		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
