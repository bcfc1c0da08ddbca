// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/quarry/internal/validation"
)

// Rate limiting bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validatePolicy(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validatePolicy validates the edit action policy settings
func (c *Config) validatePolicy() error {
	if !c.Policy.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Policy.DefaultActor) == "" {
		return fmt.Errorf("POLICY_DEFAULT_ACTOR is required when the policy is enabled")
	}
	if c.Policy.ReloadInterval < 0 {
		return fmt.Errorf("POLICY_RELOAD_INTERVAL must not be negative")
	}
	if c.Policy.CacheTTL < 0 {
		return fmt.Errorf("POLICY_CACHE_TTL must not be negative")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateAPI validates pagination bounds
func (c *Config) validateAPI() error {
	if c.API.MaxPageSize < 1 {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be at least 1")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE (%d)", c.API.MaxPageSize)
	}
	if c.API.CacheTTL < 0 {
		return fmt.Errorf("API_CACHE_TTL must not be negative")
	}
	if c.API.CacheTTL > 0 && c.API.CacheSize < 1 {
		return fmt.Errorf("API_CACHE_SIZE must be at least 1 when the search cache is enabled")
	}
	return nil
}

// validateDatabase validates DuckDB configuration
func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	if c.Database.QueryTimeout < 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must not be negative")
	}
	return nil
}

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.NATS.URL, c.NATS.EmbeddedServer); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required when the embedded server is enabled")
	}
	if c.NATS.StreamName == "" {
		return fmt.Errorf("NATS_STREAM_NAME is required when NATS_ENABLED=true")
	}
	if err := validateTopicPrefix(c.NATS.TopicPrefix); err != nil {
		return fmt.Errorf("NATS_TOPIC_PREFIX is invalid: %w", err)
	}
	if c.NATS.RetentionDays < 0 {
		return fmt.Errorf("NATS_RETENTION_DAYS must not be negative")
	}
	if c.NATS.PublishTimeout <= 0 {
		return fmt.Errorf("NATS_PUBLISH_TIMEOUT must be positive")
	}
	if c.NATS.RatePerSecond < 0 {
		return fmt.Errorf("NATS_RATE_PER_SECOND must not be negative")
	}
	if c.NATS.RatePerSecond > 0 && c.NATS.Burst < 1 {
		return fmt.Errorf("NATS_BURST must be at least 1 when rate limiting is enabled")
	}
	if c.NATS.BreakerFailureThreshold == 0 {
		return fmt.Errorf("NATS_BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects empty and malformed origins, which would otherwise
// match nothing and silently disable cross-origin and live feed access.
func (c *Config) validateCORS() error {
	for _, origin := range c.Security.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("CORS_ORIGINS must not contain empty entries")
		}
		if err := validateOrigin(origin); err != nil {
			return fmt.Errorf("CORS_ORIGINS entry %q is invalid: %w", origin, err)
		}
	}
	return nil
}

// HasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validateRateLimits validates rate limiting configuration bounds
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// topicPrefix holds the prefix so it can be checked with a struct tag.
type topicPrefix struct {
	Prefix string `validate:"required,max=128,excludesall=*>"`
}

// validateTopicPrefix checks that the prefix is a usable NATS subject
// fragment. Wildcards and spaces would make every published subject invalid.
func validateTopicPrefix(prefix string) error {
	if err := validation.ValidateStruct(&topicPrefix{Prefix: prefix}); err != nil {
		return err
	}
	if strings.ContainsAny(prefix, " \t") {
		return fmt.Errorf("topic prefix %q contains whitespace", prefix)
	}
	if strings.HasPrefix(prefix, ".") || strings.HasSuffix(prefix, ".") || strings.Contains(prefix, "..") {
		return fmt.Errorf("topic prefix %q has an empty subject token", prefix)
	}
	return nil
}
