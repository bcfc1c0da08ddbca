// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Database DatabaseConfig `koanf:"database"`
	NATS     NATSConfig     `koanf:"nats"` // Optional: JetStream transport for mutation events
	Security SecurityConfig `koanf:"security"`
	Policy   PolicyConfig   `koanf:"policy"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig holds API pagination and search cache settings
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`  // 0 disables the search result cache
	CacheSize       int           `koanf:"cache_size"` // Maximum cached result pages
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path         string        `koanf:"path"` // ":memory:" for a throwaway database
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"`   // Number of DuckDB threads (0 = use NumCPU)
	SeedData     bool          `koanf:"seed_data"` // Insert demo rows into empty tables on startup
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// NATSConfig holds mutation event transport settings.
//
// With Enabled=false events go to an in-process pub/sub and are only
// visible to subscribers inside this process.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	URL            string `koanf:"url"`
	StoreDir       string `koanf:"store_dir"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`

	StreamName    string `koanf:"stream_name"`
	TopicPrefix   string `koanf:"topic_prefix"`
	RetentionDays int    `koanf:"retention_days"`

	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`

	PublishTimeout time.Duration `koanf:"publish_timeout"`
	RatePerSecond  float64       `koanf:"rate_per_second"` // 0 disables the publish rate limit
	Burst          int           `koanf:"burst"`
	DrainTimeout   time.Duration `koanf:"drain_timeout"`

	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// PolicyConfig holds the edit action policy settings.
//
// The actor on a mutation request is taken as supplied; the policy limits
// what a named actor may do, it does not prove who the caller is.
type PolicyConfig struct {
	Enabled        bool          `koanf:"enabled"`
	File           string        `koanf:"file"`            // Casbin CSV policy; empty uses the built-in allow-all policy
	ReloadInterval time.Duration `koanf:"reload_interval"` // 0 disables reloading File
	DefaultActor   string        `koanf:"default_actor"`   // Subject used when a request names no actor
	CacheTTL       time.Duration `koanf:"cache_ttl"`       // 0 disables the decision cache
}

// LoggingConfig holds structured logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to every entry.
	Caller bool `koanf:"caller"`
}
