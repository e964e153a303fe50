// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token service) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/inkwell-cms/api/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the Inkwell API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Optional: when unset, the in-memory
	// revocation registry is used instead of the shared Redis one.
	RedisURL string `env:"REDIS_URL"`

	// Token signing secret. Externally supplied, never hardcoded.
	JWTSecret string `env:"JWT_SECRET,required"`

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"8h"`

	// PublicPaths are request paths exempt from the authentication gate.
	// A trailing "*" marks a prefix pattern, everything else is exact-match.
	PublicPaths []string `env:"PUBLIC_PATHS" envSeparator:"," envDefault:"/health,/ready,/metrics,/api/v1/auth/login,/api/v1/auth/register"`

	// ExtraOrigins lists comma-separated origins granted cross-origin
	// access on top of the inkwell.app domain (e.g. partner dashboards).
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = constants.DefaultTokenTTL
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra origins granted cross-origin access,
// parsed from the EXTRA_ORIGINS environment variable.
func (c *Config) AllowedOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	origins := strings.Split(c.ExtraOrigins, ",")
	for index := range origins {
		origins[index] = strings.TrimSpace(origins[index])
	}
	return origins
}
