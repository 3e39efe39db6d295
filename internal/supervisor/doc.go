// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

/*
Package supervisor runs the long-lived parts of the server under a suture v4
tree.

	root ("masterpiece")
	├── data-layer
	│   ├── catalog-watcher   (if catalog.reload_interval > 0)
	│   └── session-cleanup
	├── messaging-layer
	│   └── websocket-hub
	└── api-layer
	    └── http-server

A crashed service is restarted by its layer with backoff. Canceling the
context passed to Serve stops every layer, waiting at most
TreeConfig.ShutdownTimeout per service.

Supervisor events are logged through sutureslog, which takes a *slog.Logger;
logging.NewSlogLogger bridges it to zerolog:

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)

Service adapters live in the services subpackage.
*/
package supervisor
