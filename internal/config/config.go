// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package config provides layered configuration for Ladle using koanf v2.
// Settings are resolved from built-in defaults, an optional YAML config
// file, and environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Ladle server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Gemini   GeminiConfig   `koanf:"gemini"`
	Redis    RedisConfig    `koanf:"redis"`
	Badger   BadgerConfig   `koanf:"badger"`
	Storage  StorageConfig  `koanf:"storage"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// GeminiConfig holds settings for the AI suggestion collaborator.
type GeminiConfig struct {
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`

	// RatePerSecond and RateBurst bound outgoing AI calls client-side.
	RatePerSecond float64 `koanf:"rate_per_second"`
	RateBurst     int     `koanf:"rate_burst"`
}

// RedisConfig holds settings for the Redis-backed ephemeral tiers.
// When disabled, the navigation and session tiers fall back to the
// in-process memory backend (no cross-instance sharing).
type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// BadgerConfig holds settings for the durable saved-recipes tier.
type BadgerConfig struct {
	Path string `koanf:"path"`

	// InMemory runs badger without disk persistence. Tests and CI only.
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// StorageConfig holds per-tier size budgets, TTLs, and the degradation
// knobs of the payload size guard.
type StorageConfig struct {
	SessionBudget int           `koanf:"session_budget"`
	SessionTTL    time.Duration `koanf:"session_ttl"`

	NavBudget       int           `koanf:"nav_budget"`
	NavTTL          time.Duration `koanf:"nav_ttl"`
	NavImageCeiling int           `koanf:"nav_image_ceiling"`

	// URLValueLimit is the longest image URL passed directly as a URL
	// parameter during navigation handoff.
	URLValueLimit int `koanf:"url_value_limit"`

	DurableBudget int `koanf:"durable_budget"`

	// TruncateLimit is the prefix length kept when free-text fields are
	// degraded as a last resort.
	TruncateLimit int `koanf:"truncate_limit"`
}

// SecurityConfig holds identity settings. Authentication issuance is an
// external concern; Ladle only verifies the identity cookie.
type SecurityConfig struct {
	// JWTSecret verifies the identity cookie signature. Empty disables
	// authenticated identities; every caller is then a guest.
	JWTSecret string `koanf:"jwt_secret"`

	IdentityCookie string `koanf:"identity_cookie"`
	GuestCookie    string `koanf:"guest_cookie"`
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Storage.SessionBudget <= 0 {
		return fmt.Errorf("storage.session_budget must be positive, got %d", c.Storage.SessionBudget)
	}
	if c.Storage.NavBudget <= 0 {
		return fmt.Errorf("storage.nav_budget must be positive, got %d", c.Storage.NavBudget)
	}
	if c.Storage.DurableBudget <= 0 {
		return fmt.Errorf("storage.durable_budget must be positive, got %d", c.Storage.DurableBudget)
	}
	if c.Storage.TruncateLimit <= 0 {
		return fmt.Errorf("storage.truncate_limit must be positive, got %d", c.Storage.TruncateLimit)
	}
	if c.Storage.NavImageCeiling > c.Storage.NavBudget {
		return fmt.Errorf("storage.nav_image_ceiling (%d) exceeds storage.nav_budget (%d)",
			c.Storage.NavImageCeiling, c.Storage.NavBudget)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if !c.Badger.InMemory && c.Badger.Path == "" {
		return fmt.Errorf("badger.path is required unless badger.in_memory is set")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required (LADLE_GEMINI_API_KEY)")
	}
	return nil
}

// Default returns a Config with all default values, without reading the
// config file or environment. Tests use it directly.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8380,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Gemini: GeminiConfig{
			APIKey:        "",
			Model:         "gemini-1.5-flash",
			Timeout:       45 * time.Second,
			RatePerSecond: 1,
			RateBurst:     3,
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		},
		Badger: BadgerConfig{
			Path:       "/data/ladle",
			InMemory:   false,
			GCInterval: 10 * time.Minute,
		},
		Storage: StorageConfig{
			SessionBudget:   500_000,
			SessionTTL:      time.Hour,
			NavBudget:       1 << 20,
			NavTTL:          10 * time.Minute,
			NavImageCeiling: 700_000,
			URLValueLimit:   2048,
			DurableBudget:   5 << 20,
			TruncateLimit:   2000,
		},
		Security: SecurityConfig{
			JWTSecret:      "",
			IdentityCookie: "ladle_identity",
			GuestCookie:    "ladle_guest",
		},
	}
}
