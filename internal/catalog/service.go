// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/metrics"
)

// ErrNotLoaded is returned by Service methods before the first successful load.
var ErrNotLoaded = errors.New("catalog not loaded")

// Source builds catalog snapshots. *Loader implements it.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Service owns the current snapshot. Current is lock-free; Reload is
// serialized and only swaps the snapshot on success.
type Service struct {
	src     Source
	current atomic.Pointer[Catalog]

	reloadMu sync.Mutex

	listenersMu sync.RWMutex
	listeners   []func(*Catalog)
}

// NewService creates a service. Call Reload before serving.
func NewService(src Source) *Service {
	return &Service{src: src}
}

// NewStaticService creates a service that always serves c.
func NewStaticService(c *Catalog) *Service {
	s := &Service{src: staticSource{c}}
	s.current.Store(c)
	return s
}

type staticSource struct{ c *Catalog }

func (s staticSource) Load(context.Context) (*Catalog, error) { return s.c, nil }

// Current returns the active snapshot, or nil before the first load.
func (s *Service) Current() *Catalog {
	return s.current.Load()
}

// Ready reports whether a snapshot is loaded.
func (s *Service) Ready() bool {
	return s.current.Load() != nil
}

// Reload builds a fresh snapshot. On failure the previous snapshot stays
// active and the error is returned.
func (s *Service) Reload(ctx context.Context) (*Catalog, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	log := logging.Ctx(ctx)

	c, err := s.src.Load(ctx)
	if err != nil {
		metrics.RecordCatalogReload(nil, err)
		log.Error().Err(err).Bool("has_previous", s.Ready()).Msg("Catalog reload failed")
		return nil, err
	}

	prev := s.current.Swap(c)

	counts := make(map[string]int)
	for cat, n := range c.Counts() {
		counts[string(cat)] = n
	}
	metrics.RecordCatalogReload(counts, nil)

	log.Info().
		Int("items", c.Len()).
		Int("rejected", c.Rejected()).
		Str("music_mode", c.Music().Mode).
		Bool("initial", prev == nil).
		Dur("duration", time.Since(start)).
		Msg("Catalog loaded")

	s.listenersMu.RLock()
	listeners := make([]func(*Catalog), len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(c)
	}
	return c, nil
}

// OnReload registers fn to run after every successful reload.
func (s *Service) OnReload(fn func(*Catalog)) {
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenersMu.Unlock()
}

// Watch reloads every interval until ctx is done. Failures are logged and
// the previous snapshot is kept.
func (s *Service) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_, _ = s.Reload(logging.ContextWithNewCorrelationID(ctx))
		}
	}
}
