// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package state

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Record is a persisted session state.
type Record struct {
	SessionID string    `json:"sessionId"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repository persists session state between process restarts and LRU
// evictions.
type Repository interface {
	// Load returns ErrSessionNotFound for unknown or expired sessions.
	Load(ctx context.Context, sessionID string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, sessionID string) error

	// DeleteExpired removes records last updated before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)

	Close() error
}

// Store types accepted by NewRepository.
const (
	RepositoryMemory = "memory"
	RepositoryBadger = "badger"
)

// NewRepository creates the backend named by kind. path is only used by
// the badger backend.
func NewRepository(kind, path string, ttl time.Duration) (Repository, error) {
	switch kind {
	case "", RepositoryMemory:
		return NewMemoryRepository(), nil
	case RepositoryBadger:
		return OpenBadgerRepository(path, ttl)
	default:
		return nil, fmt.Errorf("unknown state store %q (want memory or badger)", kind)
	}
}

// MemoryRepository keeps records in a map. State is lost on restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]Record)}
}

func (r *MemoryRepository) Load(_ context.Context, sessionID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	rec.State.Filter = rec.State.Filter.clone()
	return &rec, nil
}

func (r *MemoryRepository) Save(_ context.Context, rec *Record) error {
	if rec == nil || rec.SessionID == "" {
		return fmt.Errorf("state record requires a session id")
	}
	cp := *rec
	cp.State.Filter = cp.State.Filter.clone()

	r.mu.Lock()
	r.records[rec.SessionID] = cp
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.records, sessionID)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, rec := range r.records {
		if rec.UpdatedAt.Before(cutoff) {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of records.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func (r *MemoryRepository) Close() error { return nil }
