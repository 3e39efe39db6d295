// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package services

import (
	"context"
	"time"
)

// IntervalFunc is a blocking loop that runs every interval until ctx is done.
// catalog.Service.Watch and state.Manager.RunCleanup have this shape.
type IntervalFunc func(ctx context.Context, interval time.Duration) error

// LoopService supervises an IntervalFunc under a fixed name.
type LoopService struct {
	name     string
	interval time.Duration
	run      IntervalFunc
}

// NewLoopService wraps run. A non-positive interval means one minute.
func NewLoopService(name string, interval time.Duration, run IntervalFunc) *LoopService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &LoopService{name: name, interval: interval, run: run}
}

// NewCatalogWatcherService re-reads the catalog every interval.
func NewCatalogWatcherService(watch IntervalFunc, interval time.Duration) *LoopService {
	return NewLoopService("catalog-watcher", interval, watch)
}

// NewSessionCleanupService purges expired sessions every interval.
func NewSessionCleanupService(cleanup IntervalFunc, interval time.Duration) *LoopService {
	return NewLoopService("session-cleanup", interval, cleanup)
}

// Serve implements suture.Service.
func (l *LoopService) Serve(ctx context.Context) error {
	return l.run(ctx, l.interval)
}

func (l *LoopService) String() string {
	return l.name
}
