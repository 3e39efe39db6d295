// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package middleware

import (
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// compressionLevel trades a little CPU for noticeably smaller catalog pages.
const compressionLevel = 5

// compressibleTypes are the responses this server produces that benefit.
var compressibleTypes = []string{
	"application/json",
	"text/html",
	"text/css",
	"text/plain",
	"application/javascript",
	"application/rss+xml",
}

// Compression returns chi's Compress middleware for the server's content
// types. WebSocket upgrades bypass it so the connection can be hijacked.
func Compression() func(http.Handler) http.Handler {
	compress := chimiddleware.Compress(compressionLevel, compressibleTypes...)

	return func(next http.Handler) http.Handler {
		compressed := compress(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
				next.ServeHTTP(w, r)
				return
			}
			compressed.ServeHTTP(w, r)
		})
	}
}
