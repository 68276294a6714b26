package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const minProductionSecretLen = 32

var validLogFormats = map[string]bool{"text": true, "json": true}

// ValidateConfig checks the configuration against the requirements of its environment
func ValidateConfig(cfg *Config) error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("PORT", "is required")
	}
	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.DatabaseURL == "" && cfg.DBHost == "" {
		add("DATABASE_URL", "either DATABASE_URL or DB_HOST must be set")
	}
	if cfg.TokenTTL <= 0 {
		add("TOKEN_TTL", "must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive")
	}
	if cfg.RateLimitMax <= 0 {
		add("RATE_LIMIT_MAX", "must be positive")
	}
	if cfg.AuthRateLimitMax <= 0 {
		add("AUTH_RATE_LIMIT_MAX", "must be positive")
	}
	if !validLogFormats[strings.ToLower(cfg.LogFormat)] {
		add("LOG_FORMAT", "must be text or json")
	}
	if cfg.FrontendURL != "" {
		if u, err := url.Parse(cfg.FrontendURL); err != nil || u.Scheme == "" || u.Host == "" {
			add("FRONTEND_URL", "must be an absolute URL")
		}
	}

	switch cfg.Environment {
	case Production:
		if len(cfg.JWTSecret) < minProductionSecretLen {
			add("JWT_SECRET", fmt.Sprintf("must be at least %d bytes in production", minProductionSecretLen))
		}
		if cfg.UsesSQLite() {
			add("DATABASE_URL", "sqlite is not supported in production")
		}
	case CI:
		if cfg.DatabaseURL == "" && cfg.DBPassword == "" {
			add("DB_PASSWORD", "is required in CI")
		}
	}

	return errors.Join(errs...)
}
