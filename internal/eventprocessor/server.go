// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

//go:build nats

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"

	"github.com/tomtom215/quarry/internal/logging"
)

// EmbeddedServer runs a JetStream broker for mutation events inside the
// process, so a single instance needs no separate NATS deployment.
type EmbeddedServer struct {
	server    *server.Server
	config    ServerConfig
	clientURL string
}

// NewEmbeddedServer starts the broker and waits until it accepts clients.
//
// The server does not install signal handlers; the supervisor tree owns
// process shutdown and stops the broker through Shutdown.
func NewEmbeddedServer(cfg *ServerConfig) (*EmbeddedServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: server config is required", ErrInvalidConfig)
	}
	if cfg.StoreDir == "" {
		return nil, fmt.Errorf("%w: JetStream store directory is required", ErrInvalidConfig)
	}

	c := *cfg
	defaults := DefaultServerConfig()
	if c.MaxPayload <= 0 {
		c.MaxPayload = defaults.MaxPayload
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = defaults.ReadyTimeout
	}

	opts := &server.Options{
		ServerName:         "quarry-events",
		Host:               c.Host,
		Port:               c.Port,
		JetStream:          true,
		StoreDir:           c.StoreDir,
		JetStreamMaxMemory: c.JetStreamMaxMem,
		JetStreamMaxStore:  c.JetStreamMaxStore,
		MaxPayload:         c.MaxPayload,
		NoSigs:             true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	ns.SetLogger(newBrokerLogger(logging.WithComponent("nats-server")), false, false)

	go ns.Start()

	if !ns.ReadyForConnections(c.ReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within %s", c.ReadyTimeout)
	}

	return &EmbeddedServer{
		server:    ns,
		config:    c,
		clientURL: ns.ClientURL(),
	}, nil
}

// ClientURL returns the connection URL for publishers and subscribers.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown stops the broker and waits for JetStream to flush, giving up
// when ctx is done.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		s.server.WaitForShutdown()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the broker is accepting clients.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server.Running()
}

// JetStreamEnabled reports whether JetStream started.
func (s *EmbeddedServer) JetStreamEnabled() bool {
	return s.server.JetStreamEnabled()
}

// brokerLogger routes nats-server output through zerolog. Notices are
// logged at debug so a healthy broker stays quiet.
type brokerLogger struct {
	logger zerolog.Logger
}

func newBrokerLogger(logger zerolog.Logger) *brokerLogger {
	return &brokerLogger{logger: logger}
}

func (l *brokerLogger) Noticef(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

func (l *brokerLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l *brokerLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error().Bool("fatal", true).Msgf(format, v...)
}

func (l *brokerLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l *brokerLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

func (l *brokerLogger) Tracef(format string, v ...interface{}) {
	l.logger.Trace().Msgf(format, v...)
}
