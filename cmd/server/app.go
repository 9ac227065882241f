package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/product-api/internal/api"
	"github.com/phrazzld/product-api/internal/config"
	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/platform/sqlstore"
	"github.com/phrazzld/product-api/internal/service"
	"github.com/phrazzld/product-api/internal/service/auth"
	"github.com/phrazzld/product-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger  *slog.Logger
	db      *sql.DB
	dialect sqlstore.Dialect

	userStore    store.UserStore
	productStore store.ProductStore

	productService service.ProductService
	authenticator  *auth.TokenAuthenticator
	passwordHasher *auth.BcryptVerifier
}

// newApplication creates a new application instance with all dependencies initialized.
// It takes ownership of db, which is closed by cleanup.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dialect sqlstore.Dialect,
) (*application, error) {
	app := &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		dialect:        dialect,
		passwordHasher: auth.NewBcryptVerifier(),
	}

	app.userStore = sqlstore.NewUserStore(db, dialect, logger)
	app.productStore = sqlstore.NewProductStore(db, dialect, logger)

	var err error
	app.productService, err = service.NewProductService(app.productStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create product service: %w", err)
	}

	app.authenticator = auth.NewTokenAuthenticator(app.userStore, logger)

	logger.Debug("application initialized",
		slog.String("response_format", cfg.Server.ResponseFormat))
	return app, nil
}

// migrate applies every pending schema migration.
func (app *application) migrate(ctx context.Context) error {
	migrator, err := app.migrator()
	if err != nil {
		return err
	}
	return migrator.Up(logger.WithLogger(ctx, app.logger))
}

func (app *application) migrator() (*sqlstore.Migrator, error) {
	migrator, err := sqlstore.NewMigrator(app.db, app.dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return migrator, nil
}

// seed creates the bootstrap user and the sample catalog where missing.
func (app *application) seed(ctx context.Context) (sqlstore.SeedResult, error) {
	seeder := sqlstore.NewSeeder(app.db, app.dialect, app.config.Auth, app.passwordHasher, nil, app.logger)
	result, err := seeder.Seed(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to seed database: %w", err)
	}
	return result, nil
}

// prepare runs the startup steps enabled in the database configuration.
func (app *application) prepare(ctx context.Context) error {
	if app.config.Database.MigrateOnStartup {
		if err := app.migrate(ctx); err != nil {
			return err
		}
	}
	if app.config.Database.SeedOnStartup {
		if _, err := app.seed(ctx); err != nil {
			return err
		}
	}
	return nil
}

// router builds the HTTP handler for the application.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Products:       app.productService,
		Authenticator:  app.authenticator,
		DB:             app.db,
		Logger:         app.logger,
		ResponseFormat: app.config.Server.ResponseFormat,
		RequestTimeout: app.config.Server.RequestTimeout(),
	})
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Debug("application shutdown completed")
}
