// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/masterpiece/internal/models"
)

// Version is reported by /health. Overridden at build time with
// -ldflags "-X github.com/tomtom215/masterpiece/internal/api.Version=...".
var Version = "dev"

// Health handles health check requests
//
// The status is "healthy" when the catalog is loaded and the music dataset
// came from chunks or the fallback file, "degraded" when music is
// unavailable, and "starting" before the first load.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:  "starting",
		Version: Version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	if c := h.catalogOrNil(); c != nil {
		loadedAt := c.LoadedAt()
		music := c.Music()
		health.Status = "healthy"
		health.CatalogLoaded = true
		health.CatalogItems = c.Len()
		health.LastReload = &loadedAt
		health.MusicMode = music.Mode
		health.MusicChunks = music.Chunks
		health.Rejected = c.Rejected()
		health.Categories = make(map[string]int)
		for cat, n := range c.Counts() {
			health.Categories[string(cat)] = n
		}
		if music.Error != "" {
			health.Status = "degraded"
		}
	}
	if h.states != nil {
		health.Sessions = h.states.Active()
	}
	if h.wsHub != nil {
		health.WSClients = h.wsHub.GetClientCount()
	}
	if h.feeds != nil {
		health.FeedBreaker = h.feeds.BreakerState()
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness check requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// Method: GET
// Path: /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness check requests (Kubernetes-style)
// Returns 200 OK only once a catalog snapshot is loaded, 503 before.
//
// Method: GET
// Path: /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.catalogOrNil() != nil

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"catalog_loaded": ready,
			"ready_to_serve": ready,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
