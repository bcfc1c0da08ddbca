// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// brokerSetupTimeout bounds pulling the image and waiting for readiness.
const brokerSetupTimeout = 2 * time.Minute

var (
	dockerOnce      sync.Once
	dockerAvailable bool
)

// SkipIfNoDocker skips t when no Docker daemon is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable reports whether the Docker daemon answers. The check
// runs once per test binary.
func IsDockerAvailable() bool {
	dockerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		dockerAvailable = exec.CommandContext(ctx, "docker", "info").Run() == nil
	})
	return dockerAvailable
}

// StartNATS starts a JetStream broker for t and terminates it when t ends.
// It skips t when Docker is missing and fails it when the broker does not
// come up.
func StartNATS(t *testing.T, opts ...NATSOption) *NATSContainer {
	t.Helper()
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), brokerSetupTimeout)
	defer cancel()

	broker, err := NewNATSContainer(ctx, opts...)
	if err != nil {
		t.Fatalf("start NATS container: %v", err)
	}
	t.Cleanup(func() { CleanupContainer(t, context.Background(), broker) })
	return broker
}

// CleanupContainer terminates container and logs instead of failing, so a
// stuck daemon does not mask the test's own result.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	if container == nil {
		return
	}
	if err := container.Terminate(ctx); err != nil {
		t.Logf("Warning: failed to terminate container %s: %v", container.GetContainerID(), err)
	}
}
