// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Catalog Metrics
	CatalogItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of items loaded per category",
		},
		[]string{"category"},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Total catalog reloads by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	CatalogLastReload = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_last_reload_timestamp_seconds",
			Help: "Unix time of the last successful catalog reload",
		},
	)

	// Music Loader Metrics
	MusicLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_loads_total",
			Help: "Music dataset loads by path taken",
		},
		[]string{"mode"}, // "chunked", "fallback", "failed"
	)

	MusicLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "music_load_duration_seconds",
			Help:    "Time to load the full music dataset",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	MusicChunkErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "music_chunk_errors_total",
			Help: "Chunked loads abandoned in favor of the monolithic file",
		},
	)

	// View State Metrics
	StateSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "state_sessions_active",
			Help: "View state stores currently held in memory",
		},
	)

	StateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_changes_total",
			Help: "View state mutations by slice",
		},
		[]string{"slice"}, // "filter", "navigation", "patch", "catalog"
	)

	StatePersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "state_persist_errors_total",
			Help: "Failed view state writes to the repository",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
		[]string{"message_type"},
	)

	WSDroppedClients = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_dropped_clients_total",
			Help: "Clients disconnected because their send buffer was full",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Cache hits by cache name",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Cache misses by cache name",
		},
		[]string{"cache"},
	)

	// Feed Metrics
	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "podcast_feed_fetches_total",
			Help: "Podcast feed fetches by result",
		},
		[]string{"result"}, // "success", "failure", "rejected", "rate_limited"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCatalogReload updates reload counters and, on success, the per
// category gauges.
func RecordCatalogReload(counts map[string]int, err error) {
	if err != nil {
		CatalogReloads.WithLabelValues("failure").Inc()
		return
	}
	CatalogReloads.WithLabelValues("success").Inc()
	CatalogLastReload.Set(float64(time.Now().Unix()))
	CatalogItems.Reset()
	for cat, n := range counts {
		CatalogItems.WithLabelValues(cat).Set(float64(n))
	}
}

// RecordMusicLoad records which loader path produced the music dataset.
func RecordMusicLoad(mode string, duration time.Duration, chunkErr error) {
	MusicLoads.WithLabelValues(mode).Inc()
	MusicLoadDuration.Observe(duration.Seconds())
	if chunkErr != nil {
		MusicChunkErrors.Inc()
	}
}

// RecordCacheLookup counts a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordCircuitBreakerTransition records a breaker state change. States use
// the gobreaker numbering (0 closed, 1 half-open, 2 open).
func RecordCircuitBreakerTransition(name, from, to string, toState int) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(float64(toState))
}
