// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import (
	"context"
	"time"

	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/config"
	"github.com/tomtom215/masterpiece/internal/feeds"
	"github.com/tomtom215/masterpiece/internal/middleware"
	"github.com/tomtom215/masterpiece/internal/related"
	"github.com/tomtom215/masterpiece/internal/state"
	ws "github.com/tomtom215/masterpiece/internal/websocket"
)

// EpisodeFetcher fetches podcast feeds. *feeds.Fetcher implements it.
type EpisodeFetcher interface {
	Episodes(ctx context.Context, url string) (*feeds.Feed, bool, error)
	BreakerState() string
}

// Deps are the collaborators of Handler. Feeds may be nil when podcast
// feeds are disabled; Hub may be nil when WebSocket push is not served.
type Deps struct {
	Catalog *catalog.Service
	States  *state.Manager
	Related *related.Engine
	Feeds   EpisodeFetcher
	Hub     *ws.Hub
	Config  *config.Config
	PerfMon *middleware.PerformanceMonitor
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_catalog.go: categories, items, related, episodes
//   - handlers_state.go: view state and WebSocket
//   - handlers_admin.go: reload and performance stats
//   - handlers_health.go: health checks
type Handler struct {
	catalog   *catalog.Service
	states    *state.Manager
	related   *related.Engine
	feeds     EpisodeFetcher
	wsHub     *ws.Hub
	config    *config.Config
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
}

// NewHandler creates a new API handler. A nil Config uses config defaults,
// a nil Related engine uses default weights.
func NewHandler(d Deps) *Handler {
	cfg := d.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	engine := d.Related
	if engine == nil {
		engine = related.NewEngine(related.Config{})
	}
	perf := d.PerfMon
	if perf == nil {
		perf = middleware.NewPerformanceMonitor(1000, 0)
	}

	return &Handler{
		catalog:   d.Catalog,
		states:    d.States,
		related:   engine,
		feeds:     d.Feeds,
		wsHub:     d.Hub,
		config:    cfg,
		perfMon:   perf,
		startTime: time.Now(),
	}
}

// PerformanceMonitor returns the monitor the router installs as middleware.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}
