package testdb

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/product-api/internal/config"
	"github.com/phrazzld/product-api/internal/platform/sqlstore"
)

// SQLiteConfig returns a database configuration for a SQLite file at path.
func SQLiteConfig(path string) config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		URL:          "file:" + path + "?_busy_timeout=5000&_foreign_keys=on",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
}

// OpenSQLite creates a fresh, fully migrated SQLite database in a temporary
// directory. The database is closed when the test finishes.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()
	return open(t, SQLiteConfig(filepath.Join(t.TempDir(), "products.db")))
}

// OpenPostgres connects to the integration database and applies migrations.
// The test is skipped when no integration database is configured.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skipf("%s not set, skipping Postgres test", EnvDatabaseURL)
	}

	return open(t, config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		URL:          dbURL,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	})
}

func open(t *testing.T, cfg config.DatabaseConfig) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, dialect, err := sqlstore.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to open %s test database: %v", cfg.Driver, err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})

	migrator, err := sqlstore.NewMigrator(db, dialect)
	if err != nil {
		t.Fatalf("failed to create migrator: %v", err)
	}
	if err := migrator.Up(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// WithTx runs fn within a transaction that is rolled back afterwards,
// so changes made by fn never persist.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
