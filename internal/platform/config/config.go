// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package config handles console-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local .env file is
loaded by cmd/console before [Load] is called.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to the state backend, upstream client and live subscribers via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// State backends understood by [Config.StateBackend].
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all runtime configuration for the console.
type Config struct {

	// Local HTTP surface
	ListenPort  string `env:"LISTEN_PORT"  envDefault:"5000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// REST collaborator
	APIBaseURL      string        `env:"API_BASE_URL,required"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
	UpstreamRPS     float64       `env:"UPSTREAM_RPS"     envDefault:"20"`
	UpstreamBurst   int           `env:"UPSTREAM_BURST"   envDefault:"40"`

	// Push-event collaborator
	EventStreamPath string `env:"EVENT_STREAM_PATH" envDefault:"/ws/sessions/"`
	EventStreamAuth bool   `env:"EVENT_STREAM_AUTH" envDefault:"true"`

	// Reconnect policy. MaxRetries == 0 retries forever.
	ReconnectMinDelay   time.Duration `env:"RECONNECT_MIN_DELAY"   envDefault:"500ms"`
	ReconnectMaxDelay   time.Duration `env:"RECONNECT_MAX_DELAY"   envDefault:"30s"`
	ReconnectMaxRetries uint64        `env:"RECONNECT_MAX_RETRIES" envDefault:"0"`

	// Durable client state
	StateBackend   string `env:"STATE_BACKEND"   envDefault:"file"`
	StateNamespace string `env:"STATE_NAMESPACE" envDefault:"default"`
	StateFile      string `env:"STATE_FILE"      envDefault:"./data/console-state.json"`
	StateSecret    string `env:"STATE_SECRET"`

	// Key-Value state backend (Redis)
	RedisURL string `env:"REDIS_URL"`

	// Relational state backend (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// Staff accounts created without a password get this one. Empty makes the password mandatory.
	NewUserPassword string `env:"NEW_USER_PASSWORD"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates
// the combinations that struct tags cannot express.
func Load() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field requirements.
func (c *Config) validate() error {
	base, err := url.Parse(c.APIBaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return fmt.Errorf("config: API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}

	switch c.StateBackend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when STATE_BACKEND=redis")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when STATE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STATE_BACKEND %q", c.StateBackend)
	}

	if c.ReconnectMinDelay <= 0 || c.ReconnectMaxDelay < c.ReconnectMinDelay {
		return fmt.Errorf("config: reconnect delays must satisfy 0 < min <= max")
	}

	return nil
}

// IsDevelopment reports whether the console is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the console is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
