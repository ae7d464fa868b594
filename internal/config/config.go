// Package config defines the service configuration and how it is loaded.
//
// Values are layered, lowest precedence first: defaults from New, an optional
// YAML file named by SMARTFARM_CONFIG, then SMARTFARM_* environment variables.
// A .env file in the working directory is read into the environment first.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `koanf:"addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// DatabaseDriver selects the store backend: postgres or sqlite3.
	DatabaseDriver string `koanf:"database_driver"`

	// DatabaseURL is a postgres connection string, or a file path / DSN for sqlite3.
	DatabaseURL string `koanf:"database_url"`

	DBMaxConns       int           `koanf:"db_max_conns"`
	DBMinConns       int           `koanf:"db_min_conns"`
	DBConnectTimeout time.Duration `koanf:"db_connect_timeout"`

	// DBQueryTimeout bounds every request-scoped query.
	DBQueryTimeout time.Duration `koanf:"db_query_timeout"`

	// AutoMigrate applies the embedded schema migrations at startup.
	AutoMigrate bool `koanf:"auto_migrate"`

	// JWTSecret enables bearer-token auth on /users when non-empty.
	JWTSecret string `koanf:"jwt_secret"`

	// CORSOrigin enables CORS headers for this origin when non-empty.
	CORSOrigin string `koanf:"cors_origin"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:             ":3000",
		LogLevel:         "info",
		LogFormat:        "text",
		DatabaseDriver:   DriverPostgres,
		DBMaxConns:       10,
		DBMinConns:       0,
		DBConnectTimeout: 10 * time.Second,
		DBQueryTimeout:   5 * time.Second,
		ShutdownTimeout:  15 * time.Second,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite:
		return fmt.Errorf("%w: unsupported database_driver %q", ErrInvalidConfig, c.DatabaseDriver)
	case strings.TrimSpace(c.DatabaseURL) == "":
		return fmt.Errorf("%w: database_url (or DATABASE_URL) must be set", ErrInvalidConfig)
	case c.DBMaxConns <= 0 || c.DBMaxConns > math.MaxInt32:
		return fmt.Errorf("%w: db_max_conns must be between 1 and %d", ErrInvalidConfig, math.MaxInt32)
	case c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns:
		return fmt.Errorf("%w: db_min_conns must be between 0 and db_max_conns", ErrInvalidConfig)
	case c.DBConnectTimeout <= 0, c.DBQueryTimeout <= 0, c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	return nil
}
