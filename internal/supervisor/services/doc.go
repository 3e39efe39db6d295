// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package services adapts the server's long-running components to
// suture.Service: the HTTP server, the WebSocket hub and periodic loops
// such as the catalog watcher and session cleanup.
package services
