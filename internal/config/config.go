package config

import "time"

// Response formats understood by the API layer.
const (
	// ResponseFormatLegacy keeps the original wire shapes: {"message": ...}
	// for errors, bare objects for data and {"success": ...} for deletes.
	ResponseFormatLegacy = "legacy"

	// ResponseFormatEnvelope wraps every response in {"status", "data"|"error"}.
	ResponseFormatEnvelope = "envelope"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	RequestTimeoutSeconds  int    `mapstructure:"request_timeout_seconds"  validate:"gt=0"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	ResponseFormat         string `mapstructure:"response_format"          validate:"required,oneof=legacy envelope"`
}

// RequestTimeout returns the per-request deadline.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long in-flight requests get on shutdown.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver"                    validate:"required,oneof=postgres sqlite"`
	URL                    string `mapstructure:"url"                       validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	MigrateOnStartup       bool   `mapstructure:"migrate_on_startup"`
	SeedOnStartup          bool   `mapstructure:"seed_on_startup"`
}

// ConnMaxLifetime returns the maximum lifetime of a pooled connection.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// AuthConfig contains the settings for the bootstrap API user.
// Password and token are generated when left empty.
type AuthConfig struct {
	BootstrapUsername string `mapstructure:"bootstrap_username" validate:"required"`
	BootstrapPassword string `mapstructure:"bootstrap_password"`
	BootstrapToken    string `mapstructure:"bootstrap_token"    validate:"omitempty,min=16,excludesall= "`
}
