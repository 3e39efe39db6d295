// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/tomtom215/masterpiece/internal/api"
	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/chunked"
	"github.com/tomtom215/masterpiece/internal/config"
	"github.com/tomtom215/masterpiece/internal/feeds"
	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/models"
	"github.com/tomtom215/masterpiece/internal/related"
	"github.com/tomtom215/masterpiece/internal/ssr"
	"github.com/tomtom215/masterpiece/internal/state"
	"github.com/tomtom215/masterpiece/internal/supervisor"
	"github.com/tomtom215/masterpiece/internal/supervisor/services"
	"github.com/tomtom215/masterpiece/internal/validation"
	ws "github.com/tomtom215/masterpiece/internal/websocket"
)

// app holds the constructed components between build and supervise.
type app struct {
	cfg     *config.Config
	catalog *catalog.Service
	states  *state.Manager
	hub     *ws.Hub
	server  *http.Server
}

func build(ctx context.Context, cfg *config.Config) (*app, error) {
	svc, err := newCatalogService(cfg)
	if err != nil {
		return nil, err
	}
	// A failed first load is not fatal: /health/ready reports 503 and the
	// watcher keeps retrying.
	if c, err := svc.Reload(ctx); err != nil {
		logging.Error().Err(err).Msg("Initial catalog load failed")
	} else {
		logging.Info().Int("items", c.Len()).Str("music_mode", c.Music().Mode).Msg("Catalog loaded")
	}

	repo, err := state.NewRepository(cfg.State.Store, cfg.State.Path, cfg.State.TTL)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	defLang, _ := models.ParseLanguage(cfg.Server.DefaultLanguage)
	states := state.NewManager(svc.Current, repo, state.ManagerConfig{
		Capacity:        cfg.State.Capacity,
		TTL:             cfg.State.TTL,
		DefaultLanguage: defLang,
	})

	hub := ws.NewHub()
	api.ForwardStateChanges(states, hub)
	svc.OnReload(func(c *catalog.Catalog) {
		resynced := states.Resync(context.Background())
		counts := make(map[string]int)
		for cat, n := range c.Counts() {
			counts[string(cat)] = n
		}
		hub.BroadcastCatalogReloaded(c.Len(), counts, c.Music().Mode)
		logging.Info().Int("sessions", resynced).Msg("Sessions resynced after catalog reload")
	})

	engine := related.NewEngine(related.Config{
		Weights: related.Weights{
			Subcategory: cfg.Related.SubcategoryWeight,
			Tags:        cfg.Related.TagWeight,
			Creator:     cfg.Related.CreatorWeight,
			Year:        cfg.Related.YearWeight,
		},
		MaxYearDifference: cfg.Related.MaxYearDifference,
		Lambda:            cfg.Related.Lambda,
		DefaultLimit:      cfg.Related.DefaultLimit,
	})

	deps := api.Deps{
		Catalog: svc,
		States:  states,
		Related: engine,
		Hub:     hub,
		Config:  cfg,
	}
	// Left nil when disabled so the handler sees a nil interface.
	if cfg.Feeds.Enabled {
		deps.Feeds = feeds.NewFetcher(feeds.Config{
			Timeout:           cfg.Feeds.Timeout,
			CacheTTL:          cfg.Feeds.CacheTTL,
			CacheSize:         cfg.Feeds.CacheSize,
			MaxEpisodes:       cfg.Feeds.MaxEpisodes,
			MaxBytes:          cfg.Feeds.MaxBytes,
			RequestsPerSecond: cfg.Feeds.RequestsPerSecond,
		})
	}
	handler := api.NewHandler(deps)

	pages, err := ssr.New(ssr.Deps{Catalog: svc, States: states, Related: engine, Config: cfg})
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))
	router.SetPages(pages)

	if cfg.Security.AdminToken == "" {
		logging.Info().Msg("Admin endpoints disabled (no admin token configured)")
	}
	if cfg.State.Store == state.RepositoryMemory && cfg.IsProduction() {
		logging.Warn().Msg("Session state is kept in memory and will be lost on restart (STATE_STORE=badger persists it)")
	}

	return &app{
		cfg:     cfg,
		catalog: svc,
		states:  states,
		hub:     hub,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router.SetupChi(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.Server.Timeout,
			WriteTimeout:      cfg.Server.Timeout,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

func newCatalogService(cfg *config.Config) (*catalog.Service, error) {
	tax := catalog.DefaultTaxonomy()
	if cfg.Catalog.TaxonomyPath != "" {
		t, err := catalog.LoadTaxonomy(cfg.Catalog.TaxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("load taxonomy: %w", err)
		}
		tax = t
	}
	// Request validation accepts the categories this taxonomy defines.
	validation.SetCategories(tax.IDs())

	dataFS := os.DirFS(cfg.Catalog.DataDir)
	music := cfg.Catalog.Music

	var src chunked.Source
	switch music.Source {
	case "http":
		httpSrc, err := chunked.NewHTTPSource(chunked.HTTPSourceConfig{
			BaseURL:           music.BaseURL,
			Timeout:           music.Timeout,
			RequestsPerSecond: music.RequestsPerSecond,
			MaxBytes:          music.MaxChunkBytes,
		})
		if err != nil {
			return nil, err
		}
		src = httpSrc
	default:
		src = chunked.FSSource{FS: dataFS, Dir: music.Dir}
	}

	loader := chunked.NewLoader(src, chunked.Config{
		IndexFile:    music.IndexFile,
		FallbackFile: music.FallbackFile,
		Concurrency:  music.Concurrency,
		MaxBytes:     music.MaxChunkBytes,
	})
	return catalog.NewService(catalog.NewLoader(dataFS, tax, loader)), nil
}

// supervise registers every long-running component with the tree.
func (a *app) supervise(tree *supervisor.Tree) {
	if a.cfg.Catalog.ReloadInterval > 0 {
		tree.AddDataService(services.NewCatalogWatcherService(a.catalog.Watch, a.cfg.Catalog.ReloadInterval))
	}
	tree.AddDataService(services.NewSessionCleanupService(a.states.RunCleanup, a.cfg.State.CleanupInterval))
	tree.AddMessagingService(services.NewWebSocketHubService(a.hub))
	tree.AddAPIService(services.NewHTTPServerService(a.server, 10*time.Second))
}

func (a *app) close() {
	if err := a.states.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing session state")
	}
}
