// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/middleware"
)

// ReloadResponse is the data of POST /admin/reload.
type ReloadResponse struct {
	Items      int            `json:"items"`
	Rejected   int            `json:"rejected"`
	Categories map[string]int `json:"categories"`
	MusicMode  string         `json:"music_mode"`
	LoadedAt   time.Time      `json:"loaded_at"`
}

// ReloadCatalog re-reads the catalog. On failure the previous snapshot
// keeps serving and 503 is returned.
//
// Method: POST
// Path: /api/v1/admin/reload
// Headers: X-Admin-Token
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.catalog == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeService, "Catalog not available", nil)
		return
	}

	c, err := h.catalog.Reload(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeService, "Catalog reload failed, previous snapshot kept", err)
		return
	}

	counts := make(map[string]int)
	for cat, n := range c.Counts() {
		counts[string(cat)] = n
	}
	logging.Ctx(r.Context()).Info().
		Int("items", c.Len()).
		Str("music_mode", c.Music().Mode).
		Msg("Catalog reloaded by admin request")

	respondSuccess(w, ReloadResponse{
		Items:      c.Len(),
		Rejected:   c.Rejected(),
		Categories: counts,
		MusicMode:  c.Music().Mode,
		LoadedAt:   c.LoadedAt(),
	}, start)
}

// PerformanceResponse is the data of GET /admin/performance.
type PerformanceResponse struct {
	Endpoints []middleware.EndpointStats  `json:"endpoints"`
	Recent    []middleware.RequestMetrics `json:"recent"`
}

// Performance returns per-route latency percentiles and the latest requests.
//
// Method: GET
// Path: /api/v1/admin/performance
//
// Query Parameters:
//   - recent: number of latest requests to include (default 20, max 200)
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	n, ok := getIntParam(r, "recent", 20)
	if !ok || n < 0 || n > 200 {
		invalidParam(w, "recent", r.URL.Query().Get("recent"))
		return
	}

	respondSuccess(w, PerformanceResponse{
		Endpoints: h.perfMon.GetStats(),
		Recent:    h.perfMon.GetRecentMetrics(n),
	}, start)
}
