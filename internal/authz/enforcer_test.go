// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package authz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/quarry/internal/config"
)

const testPolicy = `p, editor, product, CREATE
p, editor, product, UPDATE
p, support, order, CHANGE_STATUS
p, admin, *, *
p, anonymous, customer, CREATE
g, alice, editor
g, bob, support
g, root, admin
`

// =====================================================
// Test Helpers
// =====================================================

// writePolicy writes content to a policy file in a temp dir.
func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	return path
}

func setupEnforcer(t *testing.T, cfg *EnforcerConfig) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(cfg)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return e
}

func assertAllowed(t *testing.T, e *Enforcer, actor, entity, action string, want bool) {
	t.Helper()
	got, err := e.Allowed(actor, entity, action)
	if err != nil {
		t.Fatalf("Allowed(%s, %s, %s) error = %v", actor, entity, action, err)
	}
	if got != want {
		t.Errorf("Allowed(%s, %s, %s) = %v, want %v", actor, entity, action, got, want)
	}
}

// =====================================================
// Construction
// =====================================================

func TestNewEnforcer_BuiltInPolicyAllowsAll(t *testing.T) {
	e := setupEnforcer(t, nil)

	assertAllowed(t, e, "", "order", "DELETE", true)
	assertAllowed(t, e, "anyone", "customer", "CHANGE_STATUS", true)

	if err := e.LoadPolicy(); !errors.Is(err, ErrNoAdapter) {
		t.Errorf("LoadPolicy() error = %v, want ErrNoAdapter", err)
	}
	if err := e.SavePolicy(); !errors.Is(err, ErrNoAdapter) {
		t.Errorf("SavePolicy() error = %v, want ErrNoAdapter", err)
	}
}

func TestNewEnforcer_MissingPolicyFile(t *testing.T) {
	_, err := NewEnforcer(&EnforcerConfig{PolicyPath: filepath.Join(t.TempDir(), "missing.csv")})
	if err == nil {
		t.Fatal("Expected error for a missing policy file")
	}
}

func TestConfigFromPolicy(t *testing.T) {
	cfg := ConfigFromPolicy(&config.PolicyConfig{
		File:           "/etc/quarry/policy.csv",
		ReloadInterval: time.Minute,
		DefaultActor:   "guest",
		CacheTTL:       time.Second,
	})
	if cfg.PolicyPath != "/etc/quarry/policy.csv" || cfg.DefaultActor != "guest" ||
		cfg.ReloadInterval != time.Minute || cfg.CacheTTL != time.Second {
		t.Errorf("ConfigFromPolicy() = %+v", cfg)
	}
}

// =====================================================
// Decisions
// =====================================================

func TestEnforcer_PolicyFile(t *testing.T) {
	e := setupEnforcer(t, &EnforcerConfig{
		PolicyPath:   writePolicy(t, testPolicy),
		DefaultActor: "anonymous",
	})

	tests := []struct {
		actor, entity, action string
		want                  bool
	}{
		{"alice", "product", "UPDATE", true},
		{"alice", "product", "DELETE", false},
		{"alice", "order", "UPDATE", false},
		{"bob", "order", "CHANGE_STATUS", true},
		{"bob", "product", "CREATE", false},
		{"root", "customer", "DELETE", true},
		{"", "customer", "CREATE", true}, // default actor
		{"", "customer", "DELETE", false},
		{"mallory", "product", "CREATE", false},
	}
	for _, tt := range tests {
		assertAllowed(t, e, tt.actor, tt.entity, tt.action, tt.want)
	}

	roles, err := e.RolesForActor("alice")
	if err != nil || len(roles) != 1 || roles[0] != "editor" {
		t.Errorf("RolesForActor(alice) = %v, %v", roles, err)
	}
}

func TestEnforcer_PolicyChangesClearCache(t *testing.T) {
	e := setupEnforcer(t, &EnforcerConfig{
		PolicyPath: writePolicy(t, testPolicy),
		CacheTTL:   time.Hour,
	})

	assertAllowed(t, e, "carol", "order", "DELETE", false)

	if _, err := e.AddRoleForActor("carol", "admin"); err != nil {
		t.Fatal(err)
	}
	assertAllowed(t, e, "carol", "order", "DELETE", true)

	if _, err := e.RemovePolicy("admin", Wildcard, Wildcard); err != nil {
		t.Fatal(err)
	}
	assertAllowed(t, e, "carol", "order", "DELETE", false)

	if _, err := e.AddPolicy("admin", "order", "DELETE"); err != nil {
		t.Fatal(err)
	}
	assertAllowed(t, e, "carol", "order", "DELETE", true)
}

func TestEnforcer_LoadPolicyPicksUpFileChanges(t *testing.T) {
	path := writePolicy(t, testPolicy)
	e := setupEnforcer(t, &EnforcerConfig{PolicyPath: path, CacheTTL: time.Hour})

	assertAllowed(t, e, "dave", "product", "CREATE", false)

	if err := os.WriteFile(path, []byte(testPolicy+"g, dave, editor\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.LoadPolicy(); err != nil {
		t.Fatalf("LoadPolicy() error = %v", err)
	}
	assertAllowed(t, e, "dave", "product", "CREATE", true)
}

// =====================================================
// Service
// =====================================================

func TestEnforcer_ServeReloads(t *testing.T) {
	path := writePolicy(t, testPolicy)
	e := setupEnforcer(t, &EnforcerConfig{PolicyPath: path, ReloadInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Serve(ctx) }()

	if err := os.WriteFile(path, []byte(testPolicy+"g, erin, admin\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if ok, _ := e.Allowed("erin", "order", "DELETE"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("policy file change was not reloaded")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v", err)
	}
}

func TestEnforcer_ServeWithoutFileWaits(t *testing.T) {
	e := setupEnforcer(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := e.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v", err)
	}
	if e.String() != "policy-enforcer" {
		t.Errorf("String() = %s", e.String())
	}
}
