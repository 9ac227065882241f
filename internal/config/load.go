package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. PRODUCTS_SERVER_PORT.
const EnvPrefix = "PRODUCTS"

// defaults lists every configuration key with its default value. Every key
// must appear here so viper can bind it to an environment variable.
var defaults = map[string]any{
	"server.port":                        8080,
	"server.log_level":                   "info",
	"server.request_timeout_seconds":     15,
	"server.shutdown_timeout_seconds":    10,
	"server.response_format":             ResponseFormatLegacy,
	"database.driver":                    DriverSQLite,
	"database.url":                       "file:products.db?_foreign_keys=on",
	"database.max_open_conns":            10,
	"database.max_idle_conns":            5,
	"database.conn_max_lifetime_minutes": 5,
	"database.migrate_on_startup":        true,
	"database.seed_on_startup":           true,
	"auth.bootstrap_username":            "admin",
	"auth.bootstrap_password":            "",
	"auth.bootstrap_token":               "",
}

// Load reads configuration from defaults, an optional config.yaml in the
// working directory, a .env file and PRODUCTS_* environment variables.
// Environment variables take precedence over values from config files.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// working directory for config.yaml and tolerates its absence; an explicit
// path must exist.
func LoadFile(path string) (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
