// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers file and environment sources on top of New().
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"time"

	"github.com/okian/loandecision/internal/domain/risk"
)

// Risk-profile sources.
const (
	RiskSourceConfig = "config"
	RiskSourceRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// RiskSource selects where risk profiles come from: config or redis.
	RiskSource string `koanf:"risk_source"`

	// RiskProfiles maps personal codes to credit modifiers when RiskSource is config.
	RiskProfiles map[string]int `koanf:"risk_profiles"`

	// RedisURL and RedisKey locate the profile hash when RiskSource is redis.
	RedisURL string `koanf:"redis_url"`
	RedisKey string `koanf:"redis_key"`

	// HTTP server timeouts in milliseconds.
	ReadTimeoutMS     int `koanf:"read_timeout_ms"`
	WriteTimeoutMS    int `koanf:"write_timeout_ms"`
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8080",
		AllowedOrigins:    []string{"*"},
		RiskSource:        RiskSourceConfig,
		RiskProfiles:      risk.Default(),
		RedisKey:          "loan:risk_profiles",
		ReadTimeoutMS:     10_000,
		WriteTimeoutMS:    10_000,
		ShutdownTimeoutMS: 30_000,
	}
}

// ReadTimeout returns the HTTP read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns the HTTP write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.ReadTimeoutMS <= 0 || c.WriteTimeoutMS <= 0 || c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}

	switch c.RiskSource {
	case RiskSourceConfig:
		for code, modifier := range c.RiskProfiles {
			if modifier < 0 {
				return fmt.Errorf("%w: risk_profiles.%s must not be negative", ErrInvalidConfig, code)
			}
		}
	case RiskSourceRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis_url is required for risk_source redis", ErrInvalidConfig)
		}
		if c.RedisKey == "" {
			return fmt.Errorf("%w: redis_key must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown risk_source %q", ErrInvalidConfig, c.RiskSource)
	}
	return nil
}
