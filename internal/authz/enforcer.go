// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package authz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/quarry/internal/cache"
	"github.com/tomtom215/quarry/internal/config"
	"github.com/tomtom215/quarry/internal/logging"
	"github.com/tomtom215/quarry/internal/metrics"
)

// ErrNoAdapter is returned by LoadPolicy and SavePolicy when the enforcer
// runs on the built-in policy.
var ErrNoAdapter = errors.New("no policy file configured; using built-in policy")

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// PolicyPath is a Casbin CSV policy file. Empty uses the built-in
	// allow-all policy.
	PolicyPath string

	// ReloadInterval is how often Serve reloads PolicyPath.
	ReloadInterval time.Duration

	// DefaultActor is the subject for requests that name no actor.
	DefaultActor string

	// CacheTTL bounds how long a decision is reused. Zero disables the cache.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns default configuration.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		ReloadInterval: 30 * time.Second,
		DefaultActor:   "anonymous",
		CacheTTL:       5 * time.Minute,
	}
}

// ConfigFromPolicy maps application configuration onto EnforcerConfig.
func ConfigFromPolicy(cfg *config.PolicyConfig) *EnforcerConfig {
	return &EnforcerConfig{
		PolicyPath:     cfg.File,
		ReloadInterval: cfg.ReloadInterval,
		DefaultActor:   cfg.DefaultActor,
		CacheTTL:       cfg.CacheTTL,
	}
}

// Enforcer wraps the Casbin enforcer with a decision cache.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
	cache    *cache.LRU[bool]
}

// NewEnforcer creates an enforcer. A PolicyPath that does not exist is an
// error rather than a silent fallback to allow-all.
func NewEnforcer(cfg *EnforcerConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = DefaultEnforcerConfig()
	}

	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" {
		if _, statErr := os.Stat(cfg.PolicyPath); statErr != nil {
			return nil, fmt.Errorf("policy file: %w", statErr)
		}
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			_, err = enforcer.AddPolicy(Wildcard, Wildcard, Wildcard)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{config: cfg, enforcer: enforcer}
	if cfg.CacheTTL > 0 {
		e.cache = cache.NewLRU[bool](0, cfg.CacheTTL)
	}
	return e, nil
}

// Enforce reports whether subject may perform action on object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	key := subject + "\x00" + object + "\x00" + action
	if e.cache != nil {
		if allowed, ok := e.cache.Get(key); ok {
			return allowed, nil
		}
	}

	var gen uint64
	if e.cache != nil {
		gen = e.cache.Generation()
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}

	if e.cache != nil {
		e.cache.AddAt(gen, key, allowed)
	}
	return allowed, nil
}

// Allowed implements mutation.Authorizer. An empty actor is checked as
// DefaultActor.
func (e *Enforcer) Allowed(actor, entity, action string) (bool, error) {
	if actor == "" {
		actor = e.config.DefaultActor
	}
	allowed, err := e.Enforce(actor, entity, action)
	if err != nil {
		return false, err
	}
	metrics.RecordPolicyDecision(entity, action, allowed)
	if !allowed {
		logging.Info().
			Str("actor", actor).
			Str("entity", entity).
			Str("action", action).
			Msg("Edit action denied by policy")
	}
	return allowed, nil
}

// AddPolicy adds a rule and drops cached decisions.
func (e *Enforcer) AddPolicy(subject, object, action string) (bool, error) {
	added, err := e.enforcer.AddPolicy(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("failed to add policy: %w", err)
	}
	e.clearCache()
	return added, nil
}

// RemovePolicy removes a rule and drops cached decisions.
func (e *Enforcer) RemovePolicy(subject, object, action string) (bool, error) {
	removed, err := e.enforcer.RemovePolicy(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("failed to remove policy: %w", err)
	}
	e.clearCache()
	return removed, nil
}

// AddRoleForActor assigns role to actor.
func (e *Enforcer) AddRoleForActor(actor, role string) (bool, error) {
	added, err := e.enforcer.AddGroupingPolicy(actor, role)
	if err != nil {
		return false, fmt.Errorf("failed to add role: %w", err)
	}
	e.clearCache()
	return added, nil
}

// RolesForActor returns the roles directly assigned to actor.
func (e *Enforcer) RolesForActor(actor string) ([]string, error) {
	return e.enforcer.GetRolesForUser(actor)
}

// GetPolicy returns all policy rules.
func (e *Enforcer) GetPolicy() [][]string {
	//nolint:errcheck // GetPolicy only fails if the enforcer is nil
	policies, _ := e.enforcer.GetPolicy()
	return policies
}

// LoadPolicy reloads PolicyPath.
func (e *Enforcer) LoadPolicy() error {
	if e.config.PolicyPath == "" {
		return ErrNoAdapter
	}
	if err := e.enforcer.LoadPolicy(); err != nil {
		return err
	}
	e.clearCache()
	return nil
}

// SavePolicy writes the in-memory policy back to PolicyPath.
func (e *Enforcer) SavePolicy() error {
	if e.config.PolicyPath == "" {
		return ErrNoAdapter
	}
	return e.enforcer.SavePolicy()
}

// Serve reloads the policy file every ReloadInterval until ctx ends. A
// failed reload keeps the previous policy. It implements suture.Service.
func (e *Enforcer) Serve(ctx context.Context) error {
	if e.config.PolicyPath == "" || e.config.ReloadInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(e.config.ReloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.LoadPolicy(); err != nil {
				logging.Warn().Err(err).Str("path", e.config.PolicyPath).Msg("Policy reload failed, keeping previous policy")
				continue
			}
			logging.Debug().Int("rules", len(e.GetPolicy())).Msg("Policy reloaded")
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (e *Enforcer) String() string {
	return "policy-enforcer"
}

func (e *Enforcer) clearCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}
