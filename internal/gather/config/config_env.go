// Package config provides environment config overrides.
package config

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides overlays GATHER_* environment values onto a config.
func ApplyEnvOverrides(cfg *Config, environ []string) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	values := envMap(environ)
	if value, ok := values["GATHER_HTTP_ADDR"]; ok {
		cfg.HTTPListenAddr = value
	}
	if value, ok := values["GATHER_APP_URL"]; ok {
		cfg.AppURL = value
	}
	if value, ok := values["GATHER_PRODUCTION"]; ok {
		parsed, err := parseBoolEnv("GATHER_PRODUCTION", value)
		if err != nil {
			return err
		}
		cfg.Production = parsed
	}
	if value, ok := values["GATHER_GEMINI_API_KEY"]; ok {
		cfg.GeminiAPIKey = value
	}
	if value, ok := values["GATHER_MAPS_API_KEY"]; ok {
		cfg.MapsAPIKey = value
	}
	if value, ok := values["GATHER_GIPHY_API_KEY"]; ok {
		cfg.GiphyAPIKey = value
	}
	if value, ok := values["GATHER_SEED_USER_EMAIL"]; ok {
		cfg.SeedUserEmail = value
	}
	if value, ok := values["GATHER_SEED_USER_PASSWORD"]; ok {
		cfg.SeedUserPassword = value
	}
	if value, ok := values["GATHER_SEED_USER_NAME"]; ok {
		cfg.SeedUserName = value
	}
	if value, ok := values["GATHER_HTTP_READ_TIMEOUT_MS"]; ok {
		parsed, err := parseIntEnv("GATHER_HTTP_READ_TIMEOUT_MS", value)
		if err != nil {
			return err
		}
		cfg.HTTPReadTimeout = time.Duration(parsed) * time.Millisecond
	}
	if value, ok := values["GATHER_HTTP_WRITE_TIMEOUT_MS"]; ok {
		parsed, err := parseIntEnv("GATHER_HTTP_WRITE_TIMEOUT_MS", value)
		if err != nil {
			return err
		}
		cfg.HTTPWriteTimeout = time.Duration(parsed) * time.Millisecond
	}
	if value, ok := values["GATHER_HTTP_IDLE_TIMEOUT_MS"]; ok {
		parsed, err := parseIntEnv("GATHER_HTTP_IDLE_TIMEOUT_MS", value)
		if err != nil {
			return err
		}
		cfg.HTTPIdleTimeout = time.Duration(parsed) * time.Millisecond
	}
	if value, ok := values["GATHER_MAX_BODY_BYTES"]; ok {
		parsed, err := parseIntEnv("GATHER_MAX_BODY_BYTES", value)
		if err != nil {
			return err
		}
		cfg.MaxBodyBytes = parsed
	}
	return nil
}

func envMap(environ []string) map[string]string {
	values := make(map[string]string)
	for _, entry := range environ {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		values[key] = parts[1]
	}
	return values
}

func parseBoolEnv(name, value string) (bool, error) {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, errors.New("invalid env value for " + name)
	}
	return parsed, nil
}

func parseIntEnv(name, value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, errors.New("invalid env value for " + name)
	}
	return parsed, nil
}
