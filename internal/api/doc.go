// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

/*
Package api provides the HTTP JSON API for Masterpiece.

Endpoints (all under /api/v1 except /metrics):

Catalog:
  - GET  /categories                   taxonomy with counts, localized by lang
  - GET  /items                        filtered, sorted, paginated items
  - GET  /items/{globalId}             one item
  - GET  /items/{globalId}/related     similar items of the same category
  - GET  /items/{globalId}/episodes    latest podcast episodes

View state (per mp_session cookie):
  - GET   /state                       current state and filtered ids
  - PATCH /state                       partial filter/navigation update
  - POST  /state/navigate              {view, globalId}
  - POST  /state/reset                 reset filters, keep the language
  - GET   /ws                          WebSocket with state_changed pushes

Operations:
  - GET  /health, /health/live, /health/ready
  - POST /admin/reload                 reload the catalog (X-Admin-Token)
  - GET  /admin/performance            latency percentiles per route
  - GET  /metrics                      Prometheus exposition

Every JSON response uses the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 2}}
	{"status": "error", "data": null, "metadata": {...}, "error": {"code": "NOT_FOUND", "message": "..."}}

Server-rendered pages are mounted by the caller through Router.SetPages so
this package does not depend on the templates.

Usage:

	handler := api.NewHandler(api.Deps{Catalog: svc, States: mgr, Related: engine, Hub: hub, Config: cfg})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))
	router.SetPages(pages)
	srv := &http.Server{Handler: router.SetupChi()}
*/
package api
