// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

//go:build nats

package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/quarry/internal/config"
	"github.com/tomtom215/quarry/internal/eventprocessor"
	"github.com/tomtom215/quarry/internal/logging"
)

const streamSetupTimeout = 30 * time.Second

// NATSComponents holds the JetStream transport for mutation events.
//
// Start re-asserts the stream so a supervisor restart repairs a stream that
// was deleted out from under the server. The embedded server and the
// connections live until Close, after the supervisor tree has stopped.
type NATSComponents struct {
	server     *eventprocessor.EmbeddedServer
	streams    *eventprocessor.StreamManager
	publisher  message.Publisher
	subscriber message.Subscriber

	// feedSubscriber uses ephemeral consumers so the live feed never
	// competes with the event log for messages.
	feedSubscriber message.Subscriber
}

// InitNATS starts the embedded server if configured, ensures the stream
// exists and connects a publisher plus the event log and live feed
// subscribers. It returns
// nil when NATS is disabled.
func InitNATS(cfg *config.NATSConfig, logger watermill.LoggerAdapter) (*NATSComponents, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	c := &NATSComponents{}
	natsURL := cfg.URL

	if cfg.EmbeddedServer {
		serverCfg := eventprocessor.DefaultServerConfig()
		serverCfg.StoreDir = cfg.StoreDir
		serverCfg.JetStreamMaxMem = cfg.MaxMemory
		serverCfg.JetStreamMaxStore = cfg.MaxStore
		if host, port, ok := hostPort(cfg.URL); ok {
			serverCfg.Host = host
			serverCfg.Port = port
		}

		srv, err := eventprocessor.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		c.server = srv
		natsURL = srv.ClientURL()
		logging.Info().Str("url", natsURL).Bool("jetstream", srv.JetStreamEnabled()).Msg("Embedded NATS server started")
	}

	streamCfg := eventprocessor.DefaultStreamConfig()
	streamCfg.Name = cfg.StreamName
	streamCfg.Subjects = []string{cfg.TopicPrefix + ".>"}
	streamCfg.MaxAge = time.Duration(cfg.RetentionDays) * 24 * time.Hour
	streamCfg.MaxBytes = cfg.MaxStore

	streams, err := eventprocessor.NewStreamManager(natsURL, &streamCfg)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("connect stream manager: %w", err)
	}
	c.streams = streams

	ctx, cancel := context.WithTimeout(context.Background(), streamSetupTimeout)
	defer cancel()
	if err := streams.EnsureStream(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", cfg.StreamName, err)
	}

	pubCfg := eventprocessor.DefaultPublisherConfig(natsURL)
	pubCfg.MaxReconnects = cfg.MaxReconnects
	pubCfg.ReconnectWait = cfg.ReconnectWait
	publisher, err := eventprocessor.NewNATSPublisher(pubCfg, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}
	c.publisher = publisher

	subCfg := eventprocessor.DefaultSubscriberConfig(natsURL, cfg.StreamName)
	subCfg.MaxReconnects = cfg.MaxReconnects
	subCfg.ReconnectWait = cfg.ReconnectWait
	subscriber, err := eventprocessor.NewNATSSubscriber(subCfg, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}
	c.subscriber = subscriber

	feedCfg := eventprocessor.DefaultFeedSubscriberConfig(natsURL, cfg.StreamName)
	feedCfg.MaxReconnects = cfg.MaxReconnects
	feedCfg.ReconnectWait = cfg.ReconnectWait
	feedSubscriber, err := eventprocessor.NewNATSSubscriber(feedCfg, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("create NATS live feed subscriber: %w", err)
	}
	c.feedSubscriber = feedSubscriber

	logging.Info().
		Str("url", natsURL).
		Str("stream", cfg.StreamName).
		Str("subjects", cfg.TopicPrefix+".>").
		Msg("NATS JetStream transport ready")

	return c, nil
}

// Publisher returns the JetStream publisher.
func (c *NATSComponents) Publisher() message.Publisher {
	return c.publisher
}

// Subscriber returns the event log subscriber.
func (c *NATSComponents) Subscriber() message.Subscriber {
	return c.subscriber
}

// FeedSubscriber returns the live feed subscriber.
func (c *NATSComponents) FeedSubscriber() message.Subscriber {
	return c.feedSubscriber
}

// Start verifies the embedded server and re-asserts the stream.
func (c *NATSComponents) Start(ctx context.Context) error {
	if c.server != nil && !c.server.IsRunning() {
		return fmt.Errorf("embedded NATS server is not running")
	}
	if err := c.streams.EnsureStream(ctx); err != nil {
		return err
	}

	info, err := c.streams.Info(ctx)
	if err != nil {
		return err
	}
	logging.Info().
		Str("stream", info.Name).
		Uint64("messages", info.Messages).
		Uint64("bytes", info.Bytes).
		Msg("NATS stream available")
	return nil
}

// Shutdown is a no-op; resources are released by Close.
func (c *NATSComponents) Shutdown(_ context.Context) {}

// Close disconnects the stream manager and stops the embedded server.
func (c *NATSComponents) Close() {
	if c.streams != nil {
		if err := c.streams.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing NATS stream manager")
		}
	}
	if c.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Error stopping embedded NATS server")
		}
	}
}

// hostPort extracts the listen address for the embedded server from a
// nats:// URL.
func hostPort(raw string) (string, int, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", 0, false
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil || port <= 0 {
		return "", 0, false
	}
	return u.Hostname(), port, true
}
