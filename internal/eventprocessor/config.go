// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package eventprocessor

import (
	"fmt"
	"time"
)

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
	MaxPayload        int32         // largest mutation event the broker accepts
	ReadyTimeout      time.Duration // how long NewEmbeddedServer waits for the listener
}

// DefaultServerConfig returns production defaults for embedded NATS server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   256 << 20, // 256MB
		JetStreamMaxStore: 1 << 30,   // 1GB
		MaxPayload:        1 << 20,   // 1MB
		ReadyTimeout:      30 * time.Second,
	}
}

// PublisherConfig holds NATS publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds NATS subscriber configuration.
type SubscriberConfig struct {
	URL            string
	StreamName     string
	DurableName    string
	QueueGroup     string
	MaxDeliver     int
	AckWaitTimeout time.Duration
	CloseTimeout   time.Duration
	MaxReconnects  int
	ReconnectWait  time.Duration
}

// DefaultSubscriberConfig returns production defaults for the event log subscriber.
func DefaultSubscriberConfig(url, stream string) SubscriberConfig {
	return SubscriberConfig{
		URL:            url,
		StreamName:     stream,
		DurableName:    "quarry-event-log",
		QueueGroup:     "quarry-event-log",
		MaxDeliver:     5,
		AckWaitTimeout: 30 * time.Second,
		CloseTimeout:   10 * time.Second,
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
	}
}

// DefaultFeedSubscriberConfig returns settings for the live feed
// subscriber. Without a durable name or queue group every process gets its
// own ephemeral consumer and sees every event; a missed event is not
// redelivered.
func DefaultFeedSubscriberConfig(url, stream string) SubscriberConfig {
	cfg := DefaultSubscriberConfig(url, stream)
	cfg.DurableName = ""
	cfg.QueueGroup = ""
	cfg.MaxDeliver = 1
	return cfg
}

// StreamConfig defines mutation event stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns production stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:            "MUTATIONS",
		Subjects:        []string{DefaultTopicPrefix + ".>"},
		MaxAge:          7 * 24 * time.Hour, // 7 days
		MaxBytes:        1 << 30,            // 1GB
		MaxMsgs:         -1,                 // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Failures before opening
}

// DefaultCircuitBreakerConfig returns production defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}

// DispatcherConfig controls background event publication.
type DispatcherConfig struct {
	// TopicPrefix is prepended to every event subject.
	TopicPrefix string

	// PublishTimeout bounds a single publish, including rate limiter waits.
	PublishTimeout time.Duration

	// RatePerSecond caps publishes per second. Zero disables the limit.
	RatePerSecond float64

	// Burst is the limiter bucket size. Ignored when RatePerSecond is zero.
	Burst int

	// DrainTimeout bounds how long shutdown waits for in-flight publishes.
	DrainTimeout time.Duration
}

// DefaultDispatcherConfig returns production defaults for the dispatcher.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		TopicPrefix:    DefaultTopicPrefix,
		PublishTimeout: 5 * time.Second,
		RatePerSecond:  500,
		Burst:          100,
		DrainTimeout:   10 * time.Second,
	}
}

// Validate checks the dispatcher settings.
func (c DispatcherConfig) Validate() error {
	if c.TopicPrefix == "" {
		return fmt.Errorf("%w: topic prefix is required", ErrInvalidConfig)
	}
	if c.PublishTimeout <= 0 {
		return fmt.Errorf("%w: publish timeout must be positive", ErrInvalidConfig)
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidConfig)
	}
	if c.RatePerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("%w: burst must be at least 1 when rate limiting", ErrInvalidConfig)
	}
	if c.DrainTimeout <= 0 {
		return fmt.Errorf("%w: drain timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
