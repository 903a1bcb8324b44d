// Package config provides centralized configuration management for the
// roster service. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Snapshot SnapshotConfig
	Ingest   IngestConfig
	View     ViewConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SnapshotConfig selects and configures the roster save-hook backend.
type SnapshotConfig struct {
	// Backend is the snapshot store: "sqlite" or "postgres" (default: sqlite)
	Backend string `env:"SNAPSHOT_BACKEND" default:"sqlite"`

	// SQLitePath is the SQLite database file (default: roster.db)
	SQLitePath string `env:"SNAPSHOT_SQLITE_PATH" default:"roster.db"`

	// PostgresURL is the PostgreSQL connection string (required for the
	// postgres backend). Supports DATABASE_URL and DB_URL for compatibility.
	PostgresURL string `env:"DATABASE_URL" envAlt:"DB_URL"`
}

// IngestConfig holds file ingestion settings.
type IngestConfig struct {
	// MaxFileSize is the maximum allowed upload size in bytes (default: 10MB)
	MaxFileSize int64 `env:"INGEST_MAX_FILE_SIZE" default:"10485760"`
}

// ViewConfig holds roster view settings.
type ViewConfig struct {
	// PageSize is the default rows per page (default: 10)
	PageSize int `env:"VIEW_PAGE_SIZE" default:"10"`

	// Locale is the BCP 47 tag used for name collation (default: ru).
	// Collation orders Latin and Cyrillic names correctly in any locale.
	Locale string `env:"VIEW_LOCALE" default:"ru"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	switch c.Snapshot.Backend {
	case "sqlite":
		if c.Snapshot.SQLitePath == "" {
			errs = append(errs, "SNAPSHOT_SQLITE_PATH is required for the sqlite backend")
		}
	case "postgres":
		if c.Snapshot.PostgresURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("SNAPSHOT_BACKEND (%q) must be sqlite or postgres", c.Snapshot.Backend))
	}

	if c.Ingest.MaxFileSize <= 0 {
		errs = append(errs, "INGEST_MAX_FILE_SIZE must be positive")
	}
	if c.View.PageSize <= 0 {
		errs = append(errs, "VIEW_PAGE_SIZE must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be debug, info, warn, or error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be text or json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
