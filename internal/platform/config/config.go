// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

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
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Fail-Fast: Malformed expiry strings and undersized secrets abort startup,
    never surface at request time.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/crealink/crealink/internal/platform/sec"
)

// minSecretLength is the minimum byte length for HMAC signing secrets.
const minSecretLength = 32

// # Configuration Schema

// Config holds all runtime configuration for the Crealink API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing and lifetimes. Expiry strings use the compact
	// <number><unit> form where unit is one of s, m, h, d.
	JWTSecret          string `env:"JWT_SECRET,required"`
	AccessTokenExpiry  string `env:"JWT_ACCESS_TOKEN_EXPIRY"  envDefault:"15m"`
	RefreshTokenExpiry string `env:"JWT_REFRESH_TOKEN_EXPIRY" envDefault:"7d"`

	// OAuth CSRF state signing secret (independent of JWTSecret so the two
	// can be rotated separately).
	OAuthStateSecret string `env:"OAUTH_STATE_SECRET,required"`

	// Brute-force lockout policy
	LockoutMaxAttempts int    `env:"AUTH_LOCKOUT_MAX_ATTEMPTS" envDefault:"5"`
	LockoutDuration    string `env:"AUTH_LOCKOUT_DURATION"     envDefault:"15m"`

	// Password reset token lifetime
	ResetTokenExpiry string `env:"RESET_TOKEN_EXPIRY" envDefault:"15m"`

	// OAuth provider credentials. A provider is registered only when both
	// its client id and secret are present.
	GoogleClientID        string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret    string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI     string `env:"GOOGLE_REDIRECT_URI"    envDefault:"http://localhost:8080/api/v1/auth/oauth/google/callback"`
	TikTokClientID        string `env:"TIKTOK_CLIENT_ID"`
	TikTokClientSecret    string `env:"TIKTOK_CLIENT_SECRET"`
	TikTokRedirectURI     string `env:"TIKTOK_REDIRECT_URI"    envDefault:"http://localhost:8080/api/v1/auth/oauth/tiktok/callback"`
	InstagramClientID     string `env:"INSTAGRAM_CLIENT_ID"`
	InstagramClientSecret string `env:"INSTAGRAM_CLIENT_SECRET"`
	InstagramRedirectURI  string `env:"INSTAGRAM_REDIRECT_URI" envDefault:"http://localhost:8080/api/v1/auth/oauth/instagram/callback"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// Durations derived from the expiry strings above during Load.
	AccessTokenTTL  time.Duration `env:"-"`
	RefreshTokenTTL time.Duration `env:"-"`
	LockoutWindow   time.Duration `env:"-"`
	ResetTokenTTL   time.Duration `env:"-"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// Beyond raw parsing it resolves every expiry string into a [time.Duration]
// and enforces the minimum secret lengths, so a misconfigured deployment
// fails here rather than during the first login.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("config: JWT_SECRET must be at least %d characters", minSecretLength)
	}

	if len(cfg.OAuthStateSecret) < minSecretLength {
		return nil, fmt.Errorf("config: OAUTH_STATE_SECRET must be at least %d characters", minSecretLength)
	}

	if cfg.LockoutMaxAttempts < 1 {
		return nil, fmt.Errorf("config: AUTH_LOCKOUT_MAX_ATTEMPTS must be positive, got %d", cfg.LockoutMaxAttempts)
	}

	// Resolve expiry strings. Any malformed value is a fatal configuration
	// error, never a runtime one.
	var err error
	if cfg.AccessTokenTTL, err = sec.ParseExpiry(cfg.AccessTokenExpiry); err != nil {
		return nil, fmt.Errorf("config: JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	if cfg.RefreshTokenTTL, err = sec.ParseExpiry(cfg.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("config: JWT_REFRESH_TOKEN_EXPIRY: %w", err)
	}
	if cfg.LockoutWindow, err = sec.ParseExpiry(cfg.LockoutDuration); err != nil {
		return nil, fmt.Errorf("config: AUTH_LOCKOUT_DURATION: %w", err)
	}
	if cfg.ResetTokenTTL, err = sec.ParseExpiry(cfg.ResetTokenExpiry); err != nil {
		return nil, fmt.Errorf("config: RESET_TOKEN_EXPIRY: %w", err)
	}

	return cfg, nil
}

// AllowedOrigins returns the extra CORS origins configured via EXTRA_ORIGINS
// as a cleaned slice (comma-separated in the environment).
func (c *Config) AllowedOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}
	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
