// Package config provides configuration for the application wiring.
package config

import (
	"errors"
	"time"

	"gather/internal/gather/logging"
)

// Config captures dependency and runtime settings.
type Config struct {
	// HTTPListenAddr is the bind address for the HTTP server.
	HTTPListenAddr string
	// AppURL is the canonical deployment URL. When empty, origin
	// validation degrades to matching the request's own Host header,
	// which is not defense in depth; production deployments must set it.
	AppURL string
	// Production enables Secure cookies.
	Production bool

	GeminiAPIKey string
	MapsAPIKey   string
	GiphyAPIKey  string

	// Seed account for the login flow. Optional; without it the
	// authenticated endpoints reject everything.
	SeedUserEmail    string
	SeedUserPassword string
	SeedUserName     string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	MaxBodyBytes     int64

	Logger logging.Logger
}

// Default returns a config with development defaults.
func Default() *Config {
	return &Config{
		HTTPListenAddr:   ":8080",
		HTTPReadTimeout:  10 * time.Second,
		HTTPWriteTimeout: 30 * time.Second,
		HTTPIdleTimeout:  time.Minute,
		MaxBodyBytes:     1 << 20,
	}
}

// Validate checks the configuration.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cfg.HTTPListenAddr == "" {
		return errors.New("http listen address is required")
	}
	if cfg.HTTPReadTimeout < 0 || cfg.HTTPWriteTimeout < 0 || cfg.HTTPIdleTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if cfg.MaxBodyBytes < 0 {
		return errors.New("max body bytes must not be negative")
	}
	if cfg.Production && cfg.AppURL == "" {
		return errors.New("app url is required in production")
	}
	if cfg.SeedUserEmail != "" && cfg.SeedUserPassword == "" {
		return errors.New("seed user password is required when seed email is set")
	}
	return nil
}
