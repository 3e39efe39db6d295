// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/masterpiece/internal/middleware"
)

// PageMounter registers server-rendered pages on the root router.
type PageMounter interface {
	Mount(r chi.Router)
}

// Router wires the Handler into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	pages         PageMounter
	session       middleware.SessionOptions
}

// NewRouter creates a router. A nil ChiMiddleware uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		session:       middleware.SessionOptions{Secure: handler.config.State.CookieSecure},
	}
}

// SetPages mounts server-rendered pages at "/". Call before SetupChi.
func (router *Router) SetPages(p PageMounter) {
	router.pages = p
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.Session(router.session))
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.handler.PerformanceMonitor().Middleware)
	r.Use(middleware.Compression())

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// ========================
	// Health Endpoints
	// ========================
	// Served under the API prefix and at the root next to /metrics.
	health := func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	}
	r.Route("/api/v1/health", health)
	r.Route("/health", health)

	// ========================
	// Catalog Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Get("/categories", router.handler.Categories)
		r.Get("/items", router.handler.Items)
		r.Get("/items/{globalId}", router.handler.Item)
		r.Get("/items/{globalId}/related", router.handler.Related)
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitFeeds)).
			Get("/items/{globalId}/episodes", router.handler.Episodes)

		// ========================
		// View State
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(NoStore)
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitState))
			r.Get("/state", router.handler.GetState)
			r.Patch("/state", router.handler.PatchState)
			r.Post("/state/navigate", router.handler.Navigate)
			r.Post("/state/reset", router.handler.ResetState)
		})
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket)).
			Get("/ws", router.handler.WebSocket)

		// ========================
		// Admin
		// ========================
		r.Route("/admin", func(r chi.Router) {
			r.Use(NoStore)
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAdmin))
			r.Use(router.chiMiddleware.RequireAdminToken())
			r.Post("/reload", router.handler.ReloadCatalog)
			r.Get("/performance", router.handler.Performance)
		})
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Server-rendered pages
	// ========================
	// Must be last - the pages own "/"
	if router.pages != nil {
		router.pages.Mount(r)
	}

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Endpoint not found", nil)
		return
	}
	http.NotFound(w, r)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
