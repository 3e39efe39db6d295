// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package main is the entry point for the Masterpiece server.
//
// Masterpiece serves a curated catalog of cultural recommendations (movies,
// series, documentaries, books, comics, music, videogames, boardgames and
// podcasts) as server-rendered pages and a JSON API, with per-session filter and
// navigation state pushed to browsers over WebSocket.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Catalog: taxonomy, category files and the chunked music dataset
//  3. View state: session repository (memory or BadgerDB) and manager
//  4. WebSocket hub, podcast feed fetcher, related-items engine
//  5. HTTP server: JSON API under /api/v1, pages at /
//
// Everything long-running is supervised by a suture tree (see
// internal/supervisor).
//
// # Configuration
//
//	DATA_DIR=./data          category JSON files
//	MUSIC_SOURCE=http        fetch music chunks from a CDN
//	MUSIC_BASE_URL=https://cdn.example.com/music/
//	STATE_STORE=badger       persist sessions across restarts
//	ADMIN_TOKEN=...          enables POST /api/v1/admin/reload
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the tree: the HTTP server drains for up to 10s,
// WebSocket clients are closed and the session repository is flushed.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/masterpiece/internal/config"
	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet; the default logger writes JSON to stderr.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("data_dir", cfg.Catalog.DataDir).
		Str("music_source", cfg.Catalog.Music.Source).
		Str("state_store", cfg.State.Store).
		Bool("feeds", cfg.Feeds.Enabled).
		Msg("Starting Masterpiece")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := build(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize server")
	}
	defer app.close()

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	app.supervise(tree)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		cancel()
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	logging.Info().Msg("Masterpiece stopped")
}
