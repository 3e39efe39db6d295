// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

/*
Package middleware provides the HTTP middleware shared by the API and the
server-rendered pages.

All middleware has the chi signature func(http.Handler) http.Handler:

  - RequestID: X-Request-ID propagation plus request and correlation ids in
    the logging context
  - Session: the mp_session cookie, created on first visit
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    route pattern
  - Compression: gzip/deflate for JSON and HTML, never for WebSocket upgrades
  - PerformanceMonitor: in-process latency percentiles for the admin stats
    endpoint and slow-request logging

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)
	r.Use(middleware.Compression())
	r.Use(middleware.Session(middleware.SessionOptions{Secure: true}))

Status codes are captured with chi's WrapResponseWriter so http.Hijacker
keeps working for the WebSocket endpoint.
*/
package middleware
