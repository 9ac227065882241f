package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/product-api/internal/config"
	"github.com/phrazzld/product-api/internal/platform/logger"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "product-api",
		Short:        "Product catalog HTTP API",
		Long:         "product-api serves CRUD operations over a product catalog guarded by static API tokens.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
	)
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate and seed if configured, then serve HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApplication(cmd.Context(), opts, func(ctx context.Context, app *application) error {
					if err := app.migrate(ctx); err != nil {
						return err
					}
					return printVersion(ctx, cmd, app)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApplication(cmd.Context(), opts, func(ctx context.Context, app *application) error {
					migrator, err := app.migrator()
					if err != nil {
						return err
					}
					if err := migrator.Down(ctx); err != nil {
						return err
					}
					return printVersion(ctx, cmd, app)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApplication(cmd.Context(), opts, func(ctx context.Context, app *application) error {
					migrator, err := app.migrator()
					if err != nil {
						return err
					}
					statuses, err := migrator.Status(ctx)
					if err != nil {
						return err
					}

					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					_, _ = fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED AT")
					for _, s := range statuses {
						appliedAt := "pending"
						if s.Applied {
							appliedAt = s.AppliedAt.UTC().Format(time.RFC3339)
						}
						_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, s.Name, appliedAt)
					}
					return tw.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApplication(cmd.Context(), opts, func(ctx context.Context, app *application) error {
					return printVersion(ctx, cmd, app)
				})
			},
		},
	)
	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap user and sample products in an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd.Context(), opts, func(ctx context.Context, app *application) error {
				result, err := app.seed(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if result.UserCreated {
					_, _ = fmt.Fprintf(out, "created user %s with API token %s\n",
						app.config.Auth.BootstrapUsername, result.Token)
					if result.GeneratedPassword != "" {
						_, _ = fmt.Fprintf(out, "generated password: %s\n", result.GeneratedPassword)
					}
				} else {
					_, _ = fmt.Fprintln(out, "users already present, no user created")
				}
				_, _ = fmt.Fprintf(out, "inserted %d sample products\n", result.ProductsCreated)
				return nil
			})
		},
	}
}

func printVersion(ctx context.Context, cmd *cobra.Command, app *application) error {
	migrator, err := app.migrator()
	if err != nil {
		return err
	}
	version, err := migrator.Version(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return err
}

// bootstrap loads the configuration and installs the process logger.
func bootstrap(opts *rootOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver))
	return cfg, log, nil
}

// withApplication builds the application, runs fn and releases its
// resources afterwards.
func withApplication(
	ctx context.Context,
	opts *rootOptions,
	fn func(ctx context.Context, app *application) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := bootstrap(opts)
	if err != nil {
		return err
	}

	db, dialect, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, log, db, dialect)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer app.cleanup()

	return fn(logger.WithLogger(ctx, log), app)
}

// runServe prepares the database and serves HTTP until ctx is cancelled.
func runServe(ctx context.Context, opts *rootOptions) error {
	return withApplication(ctx, opts, func(ctx context.Context, app *application) error {
		if err := app.prepare(ctx); err != nil {
			return err
		}
		return app.startHTTPServer(ctx)
	})
}
