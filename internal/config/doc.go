// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

/*
Package config provides centralized configuration management for Quarry.

Configuration is layered with Koanf. Later layers override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/quarry/config.yaml and /etc/quarry/config.yml
 3. Environment variables

Only the environment variables listed in envMappings are read. The most
common ones:

HTTP Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_SHUTDOWN_TIMEOUT: Graceful shutdown deadline (default: 10s)

Database:
  - DUCKDB_PATH: Database file, or :memory: (default: /data/quarry.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DUCKDB_SEED_DATA: Insert demo rows on startup (default: false)

Mutation events:
  - NATS_ENABLED: Publish to JetStream instead of in-process (default: false)
  - NATS_EMBEDDED: Run an embedded NATS server (default: true)
  - NATS_URL: Broker URL or comma-separated list; the embedded server needs one nats:// URL with a port (default: nats://127.0.0.1:4222)
  - NATS_TOPIC_PREFIX: Subject prefix (default: quarry.mutations)

Security:
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: Per-IP limit (default: 100/1m)
  - DISABLE_RATE_LIMIT: Turn the limiter off

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include file:line (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Load validates the result; a returned Config is always usable.
*/
package config
