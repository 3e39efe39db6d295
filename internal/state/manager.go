// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/masterpiece/internal/cache"
	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/metrics"
	"github.com/tomtom215/masterpiece/internal/models"
)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Capacity bounds the live stores kept in memory. Default 1000.
	Capacity int

	// TTL is how long an idle session survives. Default 30 days.
	TTL time.Duration

	// PersistTimeout bounds each repository write. Default 5s.
	PersistTimeout time.Duration

	DefaultLanguage models.Language
}

// Manager keeps one Store per session. Live stores sit in an LRU; cold or
// evicted sessions are restored from the Repository on next access.
type Manager struct {
	catalog CatalogFunc
	repo    Repository
	cfg     ManagerConfig
	now     func() time.Time

	mu   sync.Mutex
	live *cache.LRU[*Store]

	hooksMu sync.RWMutex
	hooks   []func(Snapshot)
}

// NewManager creates a manager.
func NewManager(cat CatalogFunc, repo Repository, cfg ManagerConfig) *Manager {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1000
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 5 * time.Second
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = models.DefaultLanguage
	}
	if repo == nil {
		repo = NewMemoryRepository()
	}

	m := &Manager{catalog: cat, repo: repo, cfg: cfg, now: time.Now}
	m.live = cache.New(cache.Options[*Store]{
		Capacity: cfg.Capacity,
		TTL:      cfg.TTL,
		Sliding:  true,
		OnEvict: func(id string, _ *Store, reason cache.EvictReason) {
			logging.Debug().Str("session_id", logging.MaskID(id)).Str("reason", reason.String()).Msg("View state evicted from memory")
			metrics.StateSessionsActive.Set(float64(m.live.Len()))
		},
	})
	return m
}

// OnChange registers fn to receive every snapshot of every session.
func (m *Manager) OnChange(fn func(Snapshot)) {
	m.hooksMu.Lock()
	m.hooks = append(m.hooks, fn)
	m.hooksMu.Unlock()
}

// Get returns the live store for sessionID, restoring it from the
// repository or creating it with lang as the UI language.
func (m *Manager) Get(ctx context.Context, sessionID string, lang models.Language) (*Store, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	if m.catalog() == nil {
		return nil, ErrCatalogNotLoaded
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.live.Get(sessionID); ok {
		return s, nil
	}

	log := logging.Ctx(ctx)
	var (
		s       *Store
		created bool
	)
	rec, err := m.repo.Load(ctx, sessionID)
	switch {
	case err == nil && m.now().Sub(rec.UpdatedAt) <= m.cfg.TTL:
		s = RestoreStore(sessionID, m.catalog, rec.State)
	case err == nil, errors.Is(err, ErrSessionNotFound):
		created = true
	default:
		log.Warn().Err(err).Msg("Failed to load view state, starting fresh")
		created = true
	}
	if created {
		if lang == "" {
			lang = m.cfg.DefaultLanguage
		}
		s = NewStore(sessionID, m.catalog, lang)
	}

	s.Subscribe(m.persistAndFanOut)
	m.live.Add(sessionID, s)
	metrics.StateSessionsActive.Set(float64(m.live.Len()))

	if created {
		m.persist(s.Snapshot())
	}
	return s, nil
}

// Peek returns a live store without restoring or creating one.
func (m *Manager) Peek(sessionID string) (*Store, bool) {
	return m.live.Peek(sessionID)
}

func (m *Manager) persistAndFanOut(snap Snapshot) {
	m.persist(snap)

	m.hooksMu.RLock()
	hooks := m.hooks
	m.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(snap)
	}
}

func (m *Manager) persist(snap Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.PersistTimeout)
	defer cancel()

	updated := snap.State.UpdatedAt
	if updated.IsZero() {
		updated = m.now()
	}
	rec := &Record{SessionID: snap.SessionID, State: snap.State, UpdatedAt: updated}
	if err := m.repo.Save(ctx, rec); err != nil {
		metrics.StatePersistErrors.Inc()
		logging.Error().Err(err).Str("session_id", logging.MaskID(snap.SessionID)).Msg("Failed to persist view state")
	}
}

// Delete forgets a session everywhere.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	m.live.Remove(sessionID)
	return m.repo.Delete(ctx, sessionID)
}

// Resync recomputes every live store against the current catalog. Each
// store notifies its subscribers.
func (m *Manager) Resync(ctx context.Context) int {
	n := 0
	for _, s := range m.live.Values() {
		if _, err := s.Resync(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("session_id", logging.MaskID(s.ID())).Msg("View state resync failed")
			continue
		}
		n++
	}
	return n
}

// Active returns the number of live stores.
func (m *Manager) Active() int {
	return m.live.Len()
}

// CleanupExpired drops idle sessions from memory and from the repository.
func (m *Manager) CleanupExpired(ctx context.Context) (int, error) {
	m.live.CleanupExpired()
	n, err := m.repo.DeleteExpired(ctx, m.now().Add(-m.cfg.TTL))
	metrics.StateSessionsActive.Set(float64(m.live.Len()))
	return n, err
}

// RunCleanup calls CleanupExpired every interval until ctx is done.
func (m *Manager) RunCleanup(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := m.CleanupExpired(ctx)
			if err != nil {
				logging.Ctx(ctx).Error().Err(err).Msg("View state cleanup failed")
				continue
			}
			if n > 0 {
				logging.Ctx(ctx).Info().Int("removed", n).Msg("Expired view state removed")
			}
			hits, misses, size := m.live.Stats()
			logging.Ctx(ctx).Debug().
				Int64("hits", hits).
				Int64("misses", misses).
				Int("live", size).
				Msg("View state cache stats")
		}
	}
}

// Close drops the live stores and closes the repository. Every change was
// already persisted, so nothing is lost.
func (m *Manager) Close() error {
	m.live.Clear()
	return m.repo.Close()
}
