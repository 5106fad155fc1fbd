// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValidWithKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.Gemini.APIKey = "test-key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config with API key should validate, got %v", err)
	}
}

func TestDefaultServerTimeouts(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Default server timeout = %s, want 30s", cfg.Server.Timeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Default shutdown timeout = %s, want 10s", cfg.Server.ShutdownTimeout)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.Gemini.APIKey = "" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"zero server timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"zero session budget", func(c *Config) { c.Storage.SessionBudget = 0 }},
		{"ceiling over budget", func(c *Config) { c.Storage.NavImageCeiling = c.Storage.NavBudget + 1 }},
		{"redis enabled without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }},
		{"badger without path", func(c *Config) { c.Badger.Path = ""; c.Badger.InMemory = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Gemini.APIKey = "test-key"
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"LADLE_SERVER_PORT", "server.port"},
		{"LADLE_GEMINI_API_KEY", "gemini.api_key"},
		{"LADLE_STORAGE_SESSION_TTL", "storage.session_ttl"},
		{"LADLE_REDIS_ENABLED", "redis.enabled"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.input); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("LADLE_GEMINI_API_KEY", "env-key")
	t.Setenv("LADLE_SERVER_PORT", "9999")
	t.Setenv("LADLE_STORAGE_SESSION_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("Expected api key from env, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Storage.SessionTTL != 30*time.Minute {
		t.Errorf("Expected 30m session TTL, got %v", cfg.Storage.SessionTTL)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV("http://a.example, http://b.example ,")
	if len(got) != 2 || got[0] != "http://a.example" || got[1] != "http://b.example" {
		t.Errorf("splitCSV returned %v", got)
	}
}

func TestAddr(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8380
	if addr := cfg.Addr(); addr != "127.0.0.1:8380" {
		t.Errorf("Addr() = %q", addr)
	}
}
