// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

/*
Package supervisor provides process supervision for Quarry using suture v4.

# Tree

	quarry
	├── data-layer
	│   ├── event-router         RouterService (event log and live feed consumers)
	│   └── policy-enforcer      authz.Enforcer (POLICY_FILE with reload interval)
	├── messaging-layer
	│   ├── nats-components      ComponentsService (NATS_ENABLED, build tag: nats)
	│   ├── event-dispatcher     eventprocessor.Dispatcher
	│   └── websocket-hub        websocket.Hub (live feed clients)
	└── api-layer
	    ├── http-server          HTTPServerService
	    └── search-cache-janitor cache.Janitor (API_CACHE_TTL > 0)

Crashed services restart with backoff; each layer counts failures on its
own. Supervisor events are logged through sutureslog into the zerolog
pipeline.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(dispatcher)
	tree.AddAPIService(services.NewHTTPServerService(srv, addr, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}
*/
package supervisor
