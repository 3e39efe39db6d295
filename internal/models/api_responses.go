// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package models

import "time"

// APIResponse is the envelope returned by every /api/v1 endpoint.
//
// Status is "success" (see Data) or "error" (see Error).
//
// Example:
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "pagination": {"total": 120, "limit": 60, "offset": 0, "has_more": true}},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "query_time_ms": 1}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine readable error.
//
// Codes: VALIDATION_ERROR, NOT_FOUND, METHOD_NOT_ALLOWED, SERVICE_ERROR,
// UPSTREAM_ERROR, UNAUTHORIZED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo describes an offset window over a result list.
type PaginationInfo struct {
	Total   int  `json:"total"`
	Count   int  `json:"count"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// HealthStatus is the data of GET /api/v1/health.
type HealthStatus struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	CatalogLoaded bool           `json:"catalog_loaded"`
	CatalogItems  int            `json:"catalog_items"`
	LastReload    *time.Time     `json:"last_reload,omitempty"`
	Categories    map[string]int `json:"categories,omitempty"`
	MusicMode     string         `json:"music_mode,omitempty"`
	MusicChunks   int            `json:"music_chunks,omitempty"`
	Rejected      int            `json:"rejected_items"`
	Sessions      int            `json:"active_sessions"`
	WSClients     int            `json:"websocket_clients"`
	FeedBreaker   string         `json:"feed_breaker,omitempty"`
	Uptime        float64        `json:"uptime"`
}
