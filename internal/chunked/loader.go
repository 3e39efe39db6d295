// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package chunked loads the music dataset.
//
// The dataset is published as fixed-size chunks plus a manifest:
//
//	index.json      {"totalItems": 4213, "chunkSize": 200, "chunks": ["music_0.json", ...]}
//	music_0.json    [ {...}, ... 200 items ]
//	music_1.json
//	...
//	music.json      the whole dataset in one file (fallback)
//
// Loader.Load fetches the manifest and every chunk and concatenates them in
// manifest order. If anything in that path fails, the monolithic file is
// loaded instead.
package chunked

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/metrics"
	"github.com/tomtom215/masterpiece/internal/models"
)

// ChunkSize is the number of items per chunk file.
const ChunkSize = 200

// DefaultMaxBytes bounds a single manifest, chunk or fallback file.
const DefaultMaxBytes int64 = 8 << 20

var (
	// ErrTooLarge is returned when a file exceeds the configured size.
	ErrTooLarge = errors.New("chunked: file too large")

	// ErrEmptyManifest is returned when the manifest names no chunks.
	ErrEmptyManifest = errors.New("chunked: manifest lists no chunks")

	// ErrTotalMismatch is returned when the concatenated chunks do not add
	// up to the manifest's totalItems.
	ErrTotalMismatch = errors.New("chunked: item count does not match manifest")
)

// Mode tells which path produced a Result.
type Mode string

const (
	ModeChunked  Mode = "chunked"
	ModeFallback Mode = "fallback"
)

// Manifest is the chunk index.
type Manifest struct {
	TotalItems int      `json:"totalItems"`
	ChunkSize  int      `json:"chunkSize"`
	Chunks     []string `json:"chunks,omitempty"`
}

// ChunkNames returns the chunk files in order. A manifest without an explicit
// list implies music_0.json .. music_<n-1>.json.
func (m *Manifest) ChunkNames() []string {
	if len(m.Chunks) > 0 {
		return m.Chunks
	}
	size := m.ChunkSize
	if size <= 0 {
		size = ChunkSize
	}
	if m.TotalItems <= 0 {
		return nil
	}
	n := (m.TotalItems + size - 1) / size
	names := make([]string, n)
	for i := range names {
		names[i] = ChunkFileName(i)
	}
	return names
}

// ChunkFileName is the conventional name of chunk i.
func ChunkFileName(i int) string {
	return fmt.Sprintf("music_%d.json", i)
}

// Config configures a Loader.
type Config struct {
	IndexFile    string
	FallbackFile string

	// Concurrency bounds parallel chunk fetches. Default 4.
	Concurrency int

	// MaxBytes bounds each file. Default DefaultMaxBytes.
	MaxBytes int64
}

// Result is a loaded music dataset.
type Result struct {
	Items    []models.Item
	Mode     Mode
	Chunks   int
	Duration time.Duration

	// ChunkErr is why the chunked path was abandoned, when Mode is fallback.
	ChunkErr error
}

// Loader loads the music dataset from a Source.
type Loader struct {
	src Source
	cfg Config
}

// NewLoader creates a loader. Empty file names default to index.json and
// music.json.
func NewLoader(src Source, cfg Config) *Loader {
	if cfg.IndexFile == "" {
		cfg.IndexFile = "index.json"
	}
	if cfg.FallbackFile == "" {
		cfg.FallbackFile = "music.json"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	return &Loader{src: src, cfg: cfg}
}

// Load returns the music items, preferring the chunked layout. An error is
// returned only when both paths fail or ctx is done.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	start := time.Now()
	log := logging.Ctx(ctx).With().Str("component", "chunked").Logger()

	items, chunks, chunkErr := l.loadChunked(ctx)
	if chunkErr == nil {
		res := &Result{Items: items, Mode: ModeChunked, Chunks: chunks, Duration: time.Since(start)}
		metrics.RecordMusicLoad(string(ModeChunked), res.Duration, nil)
		log.Info().Int("items", len(items)).Int("chunks", chunks).Dur("duration", res.Duration).Msg("Music loaded from chunks")
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	log.Warn().Err(chunkErr).Str("fallback", l.cfg.FallbackFile).Msg("Chunked music load failed, using monolithic file")

	items, err := l.loadMonolithic(ctx)
	if err != nil {
		metrics.RecordMusicLoad("failed", time.Since(start), chunkErr)
		return nil, fmt.Errorf("music load failed: chunked: %w; fallback: %w", chunkErr, err)
	}

	res := &Result{Items: items, Mode: ModeFallback, Duration: time.Since(start), ChunkErr: chunkErr}
	metrics.RecordMusicLoad(string(ModeFallback), res.Duration, chunkErr)
	log.Info().Int("items", len(items)).Dur("duration", res.Duration).Msg("Music loaded from fallback file")
	return res, nil
}

func (l *Loader) loadChunked(ctx context.Context) ([]models.Item, int, error) {
	var manifest Manifest
	if err := l.decode(ctx, l.cfg.IndexFile, &manifest); err != nil {
		return nil, 0, fmt.Errorf("manifest: %w", err)
	}
	names := manifest.ChunkNames()
	if len(names) == 0 {
		return nil, 0, ErrEmptyManifest
	}

	parts := make([][]models.Item, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Concurrency)
	for i, name := range names {
		g.Go(func() error {
			var chunk []models.Item
			if err := l.decode(gctx, name, &chunk); err != nil {
				return fmt.Errorf("chunk %d (%s): %w", i, name, err)
			}
			parts[i] = chunk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if manifest.TotalItems > 0 && total != manifest.TotalItems {
		return nil, 0, fmt.Errorf("%w: got %d items, manifest says %d", ErrTotalMismatch, total, manifest.TotalItems)
	}

	items := make([]models.Item, 0, total)
	for _, p := range parts {
		items = append(items, p...)
	}
	return items, len(names), nil
}

func (l *Loader) loadMonolithic(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := l.decode(ctx, l.cfg.FallbackFile, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", l.cfg.FallbackFile, err)
	}
	return items, nil
}

// decode reads name fully (bounded by MaxBytes) and unmarshals it into v.
func (l *Loader) decode(ctx context.Context, name string, v interface{}) error {
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, l.cfg.MaxBytes+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > l.cfg.MaxBytes {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, name, l.cfg.MaxBytes)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", name, err)
	}
	return nil
}
