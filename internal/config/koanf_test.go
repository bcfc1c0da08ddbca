// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// isolate runs the test from an empty directory with no CONFIG_PATH so
// stray config files do not leak into the result.
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(ConfigPathEnvVar, "")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// ===================================================================================================
// Defaults
// ===================================================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.DefaultPageSize != 50 || cfg.API.MaxPageSize != 1000 {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Database.MaxMemory != "1GB" {
		t.Errorf("Database.MaxMemory = %q, want 1GB", cfg.Database.MaxMemory)
	}
	if cfg.NATS.Enabled {
		t.Error("NATS.Enabled should be false by default")
	}
	if cfg.NATS.TopicPrefix != "quarry.mutations" {
		t.Errorf("NATS.TopicPrefix = %q", cfg.NATS.TopicPrefix)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"*"}) {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// ===================================================================================================
// Environment mapping
// ===================================================================================================

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"NATS_ENABLED", "nats.enabled"},
		{"NATS_EMBEDDED", "nats.embedded_server"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"log_level", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("none found", func(t *testing.T) {
		isolate(t)
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty", got)
		}
	})

	t.Run("env var path", func(t *testing.T) {
		isolate(t)
		path := writeConfig(t, "server:\n  port: 9000\n")
		t.Setenv(ConfigPathEnvVar, path)
		if got := findConfigFile(); got != path {
			t.Errorf("findConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("missing env var path falls back", func(t *testing.T) {
		isolate(t)
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if err := os.WriteFile("config.yaml", []byte("{}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})
}

// ===================================================================================================
// Loading
// ===================================================================================================

func TestLoad_EnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("NATS_RATE_PER_SECOND", "25.5")
	t.Setenv("NATS_DRAIN_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.NATS.RatePerSecond != 25.5 {
		t.Errorf("NATS.RatePerSecond = %v", cfg.NATS.RatePerSecond)
	}
	if cfg.NATS.DrainTimeout != 3*time.Second {
		t.Errorf("NATS.DrainTimeout = %v", cfg.NATS.DrainTimeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
server:
  port: 7070
database:
  path: ":memory:"
  seed_data: true
nats:
  topic_prefix: shop.events
logging:
  format: console
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Server.Port != 7070 || !cfg.Database.SeedData {
		t.Errorf("file values not applied: %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.NATS.TopicPrefix != "shop.events" || cfg.Logging.Format != "console" {
		t.Errorf("file values not applied: %+v %+v", cfg.NATS, cfg.Logging)
	}
	// Untouched sections keep their defaults
	if cfg.API.MaxPageSize != 1000 {
		t.Errorf("API.MaxPageSize = %d, want default 1000", cfg.API.MaxPageSize)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "server:\n  port: 7070\nlogging:\n  level: warn\n")
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, env should win", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, file should beat default", cfg.Logging.Level)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	isolate(t)
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for a missing explicit config file")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := Load(); err == nil {
		t.Error("Expected validation error for bad LOG_LEVEL")
	}
}
