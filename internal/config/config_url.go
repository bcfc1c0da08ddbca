// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var natsSchemes = map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}

// validateNATSURL checks a NATS server URL or a comma-separated list of
// them, as accepted by the client. The embedded server binds to the URL,
// so it needs exactly one nats:// address with an explicit port.
func validateNATSURL(raw string, embedded bool) error {
	servers := strings.Split(raw, ",")
	if embedded && len(servers) != 1 {
		return fmt.Errorf("the embedded server needs a single URL, got %d", len(servers))
	}

	for _, s := range servers {
		u, err := url.Parse(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("failed to parse URL: %w", err)
		}
		if !natsSchemes[u.Scheme] {
			return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %q", u.Scheme)
		}
		if u.Hostname() == "" {
			return fmt.Errorf("host is required (e.g., nats://localhost:4222)")
		}
		if !embedded {
			continue
		}
		if u.Scheme != "nats" {
			return fmt.Errorf("the embedded server listens on nats://, got: %s", u.Scheme)
		}
		if port, err := strconv.Atoi(u.Port()); err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("the embedded server needs an explicit port, got: %q", u.Port())
		}
	}
	return nil
}

// validateOrigin checks one CORS origin. Browsers send origins as
// scheme://host[:port] with nothing after, and the live feed compares them
// exactly, so paths, queries and trailing slashes would never match.
func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("failed to parse origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("origin host is required")
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return fmt.Errorf("origin must be scheme://host[:port] only, got: %s", origin)
	}
	return nil
}
