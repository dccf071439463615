package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the permission service configuration. Environment variables
// are parsed from the PERMISSION_HUB_ prefix, e.g. PERMISSION_HUB_HTTP_PORT.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage driver: memory | sqlite | postgres
	DBDriver    string `envconfig:"DB_DRIVER" default:"memory"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/permissionhub.db"`

	// StatePath backs the key-value state store when the record store has no
	// database of its own (memory driver persists derived state here too when
	// set; empty keeps it in process memory).
	StatePath string `envconfig:"STATE_PATH" default:""`

	// Demo behaviour
	DemoUserID   int  `envconfig:"DEMO_USER_ID" default:"1"`
	SeedDemoData bool `envconfig:"SEED_DEMO_DATA" default:"true"`

	// Expiry sweep
	SweepEnabled         bool `envconfig:"SWEEP_ENABLED" default:"true"`
	SweepIntervalSeconds int  `envconfig:"SWEEP_INTERVAL_SECONDS" default:"60"`
}

// New parses the environment into a Config and validates it.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("PERMISSION_HUB", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks driver selection and cross-field requirements.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "memory", "sqlite":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL_SECONDS must be positive")
	}
	return nil
}

// GetHTTPAddr returns the HTTP server listen address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
