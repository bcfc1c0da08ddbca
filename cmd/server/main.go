// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

// Package main is the entry point for the Quarry server.
//
// Quarry serves validated search and sort requests over products,
// customers, orders and the mutation event log, and applies edit actions
// whose committed results are published as events.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Database: DuckDB with schema and optional demo seed
//  3. Searchers: one per entity, validated against the sort catalog
//  4. Event pipeline: NATS JetStream (build tag nats) or in-process pub/sub
//  5. Mutation service: optional Casbin edit action policy, commit to
//     DuckDB, dispatch events in the background
//  6. Event router: Watermill handlers appending published events to DuckDB
//     and pushing them to live feed clients
//  7. HTTP server: chi router under the supervisor tree
//
// # Build Tags
//
//	go build ./cmd/server                # in-process events only
//	go build -tags nats ./cmd/server     # NATS JetStream transport
//
// # Signal Handling
//
// SIGINT and SIGTERM stop the supervisor tree. The HTTP server drains
// in-flight requests, the dispatcher drains pending publishes, and the
// database is closed last.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/tomtom215/quarry/docs" // Register the Swagger document
	"github.com/tomtom215/quarry/internal/api"
	"github.com/tomtom215/quarry/internal/authz"
	"github.com/tomtom215/quarry/internal/catalog"
	"github.com/tomtom215/quarry/internal/config"
	"github.com/tomtom215/quarry/internal/database"
	"github.com/tomtom215/quarry/internal/eventprocessor"
	"github.com/tomtom215/quarry/internal/logging"
	"github.com/tomtom215/quarry/internal/models"
	"github.com/tomtom215/quarry/internal/mutation"
	"github.com/tomtom215/quarry/internal/search"
	"github.com/tomtom215/quarry/internal/supervisor"
	"github.com/tomtom215/quarry/internal/supervisor/services"
	"github.com/tomtom215/quarry/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("db_path", cfg.Database.Path).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting Quarry")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedData {
		if err := db.Seed(context.Background()); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
		logging.Info().Msg("Demo data seeded")
	}

	reg := catalog.DefaultRegistry()
	searchers, err := newSearchers(db)
	if err != nil {
		return err
	}

	pipeline, err := newEventPipeline(cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	breakerCfg := eventprocessor.DefaultCircuitBreakerConfig("mutation-events")
	breakerCfg.FailureThreshold = cfg.NATS.BreakerFailureThreshold
	breakerCfg.Timeout = cfg.NATS.BreakerTimeout
	publisher, err := eventprocessor.NewPublisher(pipeline.publisher, eventprocessor.NewCircuitBreaker(breakerCfg))
	if err != nil {
		return fmt.Errorf("create event publisher: %w", err)
	}

	dispatcher, err := eventprocessor.NewDispatcher(publisher, eventprocessor.DispatcherConfig{
		TopicPrefix:    cfg.NATS.TopicPrefix,
		PublishTimeout: cfg.NATS.PublishTimeout,
		RatePerSecond:  cfg.NATS.RatePerSecond,
		Burst:          cfg.NATS.Burst,
		DrainTimeout:   cfg.NATS.DrainTimeout,
	})
	if err != nil {
		return fmt.Errorf("create event dispatcher: %w", err)
	}

	var mutationOpts []mutation.Option
	var policy *authz.Enforcer
	if cfg.Policy.Enabled {
		policy, err = authz.NewEnforcer(authz.ConfigFromPolicy(&cfg.Policy))
		if err != nil {
			return fmt.Errorf("create policy enforcer: %w", err)
		}
		mutationOpts = append(mutationOpts, mutation.WithAuthorizer(policy))
		logging.Info().Str("file", cfg.Policy.File).Msg("Edit action policy enabled")
	}

	mutations, err := mutation.NewService(db, dispatcher, mutationOpts...)
	if err != nil {
		return fmt.Errorf("create mutation service: %w", err)
	}

	hub := websocket.NewHub()
	router, err := newEventRouter(cfg, db, hub, pipeline)
	if err != nil {
		return err
	}

	handler, err := api.NewHandler(reg, mutations, db, cfg, searchers...)
	if err != nil {
		return fmt.Errorf("create API handler: %w", err)
	}
	handler.SetLiveFeed(hub)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler, cfg).SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewRouterService("event-router", router))
	if policy != nil && cfg.Policy.File != "" && cfg.Policy.ReloadInterval > 0 {
		tree.AddDataService(policy)
	}
	if pipeline.components != nil {
		tree.AddMessagingService(services.NewComponentsService("nats-components", pipeline.components, cfg.NATS.DrainTimeout))
	}
	tree.AddMessagingService(dispatcher)
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout))
	if janitor := handler.SearchCacheJanitor(); janitor != nil {
		tree.AddAPIService(janitor)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", addr).Msg("Supervisor tree starting")
	err = tree.Serve(ctx)

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logging.Info().Msg("Quarry stopped")
	return nil
}

// newSearchers builds one searcher per searchable entity.
func newSearchers(db *database.DB) ([]search.Handler, error) {
	reg := catalog.DefaultRegistry()

	products, err := search.NewSearcher(models.EntityProduct, reg, db.Products())
	if err != nil {
		return nil, fmt.Errorf("product searcher: %w", err)
	}
	customers, err := search.NewSearcher(models.EntityCustomer, reg, db.Customers())
	if err != nil {
		return nil, fmt.Errorf("customer searcher: %w", err)
	}
	orders, err := search.NewSearcher(models.EntityOrder, reg, db.Orders())
	if err != nil {
		return nil, fmt.Errorf("order searcher: %w", err)
	}
	events, err := search.NewSearcher(models.EntityEvent, reg, db.Events())
	if err != nil {
		return nil, fmt.Errorf("event searcher: %w", err)
	}

	return []search.Handler{products, customers, orders, events}, nil
}

// newEventRouter subscribes the event log and the live feed to every
// mutation topic.
func newEventRouter(cfg *config.Config, db *database.DB, feed eventprocessor.Broadcaster, p *eventPipeline) (*eventprocessor.Router, error) {
	routerCfg := eventprocessor.DefaultRouterConfig()
	router, err := eventprocessor.NewRouter(&routerCfg, p.logger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	eventLog, err := eventprocessor.NewEventLog(db)
	if err != nil {
		return nil, fmt.Errorf("create event log: %w", err)
	}

	topics := eventprocessor.Topics(cfg.NATS.TopicPrefix, []string{
		models.EntityProduct,
		models.EntityCustomer,
		models.EntityOrder,
	})
	eventLog.Register(router, p.subscriber, topics)

	liveFeed, err := eventprocessor.NewLiveFeed(feed)
	if err != nil {
		return nil, fmt.Errorf("create live feed: %w", err)
	}
	liveFeed.Register(router, p.feedSubscriber, topics)

	logging.Info().Int("topics", len(topics)).Msg("Event log and live feed subscribed")
	return router, nil
}
