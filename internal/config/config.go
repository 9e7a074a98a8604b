// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults applied by MergeWithDefaults when the caller passes Default().
const (
	DefaultPort            = 8080
	DefaultShutdownTimeout = 15
)

// Config represents the blind-hire configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
type Config struct {
	// Server
	Port                   int `json:"port,omitempty"`
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds,omitempty"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty keeps lifecycle state in memory
	Fixtures    string `json:"fixtures,omitempty"`     // Path to a seed file; "default" loads the embedded seed

	// Logging
	LogJSON bool `json:"log_json,omitempty"`
	Debug   bool `json:"debug,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:                   DefaultPort,
		ShutdownTimeoutSeconds: DefaultShutdownTimeout,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from PORT, DATABASE_URL, BLINDHIRE_FIXTURES, LOG_JSON and DEBUG.
// Unset variables leave the field untouched.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("BLINDHIRE_FIXTURES"); v != "" {
		c.Fixtures = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_JSON: %v", err)
		}
		c.LogJSON = b
	}
	if v := os.Getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG: %v", err)
		}
		c.Debug = b
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'shutdown_timeout_seconds' must be non-negative")
	}

	// Seeded lifecycle entries and reveal events would pile up in the durable trail on
	// every start, keyed to jobs that only exist in memory.
	if c.Fixtures != "" && c.DatabaseURL != "" {
		return fmt.Errorf("config error: 'fixtures' cannot be combined with 'database_url'")
	}
	if c.Fixtures != "" && c.Fixtures != "default" {
		if _, err := os.Stat(c.Fixtures); os.IsNotExist(err) {
			return fmt.Errorf("config error: fixtures file not found: %s", c.Fixtures)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ShutdownTimeoutSeconds == 0 {
		result.ShutdownTimeoutSeconds = defaults.ShutdownTimeoutSeconds
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Fixtures == "" {
		result.Fixtures = defaults.Fixtures
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (env and CLI flags always win for bools)

	return result
}

// ShutdownTimeout returns the graceful shutdown window.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
