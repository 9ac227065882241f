package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/phrazzld/product-api/internal/platform/logger"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigrationStatus describes one migration and whether it has been applied.
type MigrationStatus struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies the embedded schema migrations for one dialect.
type Migrator struct {
	provider *goose.Provider
	dialect  Dialect
}

// NewMigrator creates a Migrator bound to db.
func NewMigrator(db *sql.DB, dialect Dialect) (*Migrator, error) {
	fsys, err := fs.Sub(migrationsFS, dialect.migrationsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect.gooseDialect(), db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{provider: provider, dialect: dialect}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	log := logger.FromContext(ctx).With(slog.String("component", "migrations"))

	start := time.Now()
	results, err := m.provider.Up(ctx)
	if err != nil {
		log.Error("migration up failed",
			slog.String("dialect", string(m.dialect)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, r := range results {
		log.Info("applied migration",
			slog.Int64("version", r.Source.Version),
			slog.String("file", r.Source.Path),
			slog.Int64("duration_ms", r.Duration.Milliseconds()))
	}
	log.Info("migrations up to date",
		slog.String("dialect", string(m.dialect)),
		slog.Int("applied", len(results)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// Down rolls back the most recent migration.
// It is a no-op when nothing has been applied.
func (m *Migrator) Down(ctx context.Context) error {
	log := logger.FromContext(ctx).With(slog.String("component", "migrations"))

	result, err := m.provider.Down(ctx)
	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			log.Info("no migrations to roll back")
			return nil
		}
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	log.Info("rolled back migration",
		slog.Int64("version", result.Source.Version),
		slog.String("file", result.Source.Path))
	return nil
}

// Status reports every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, MigrationStatus{
			Version:   st.Source.Version,
			Name:      st.Source.Path,
			Applied:   st.State == goose.StateApplied,
			AppliedAt: st.AppliedAt,
		})
	}
	return out, nil
}

// Version returns the current schema version, 0 for an empty database.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}
