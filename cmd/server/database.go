package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/product-api/internal/config"
	"github.com/phrazzld/product-api/internal/platform/sqlstore"
	"github.com/phrazzld/product-api/internal/redact"
)

// databaseConnectTimeout bounds the initial ping.
const databaseConnectTimeout = 10 * time.Second

// setupAppDatabase opens the connection pool described by cfg.Database and
// verifies it is reachable.
func setupAppDatabase(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*sql.DB, sqlstore.Dialect, error) {
	ctx, cancel := context.WithTimeout(ctx, databaseConnectTimeout)
	defer cancel()

	db, dialect, err := sqlstore.Open(ctx, cfg.Database)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", string(dialect)),
		slog.String("url", redact.String(cfg.Database.URL)),
		slog.Int("max_open_conns", cfg.Database.MaxOpenConns))
	return db, dialect, nil
}
