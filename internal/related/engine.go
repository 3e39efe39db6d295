// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package related

import (
	"errors"
	"sort"

	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/models"
)

// ErrNotFound is returned for an unknown source item.
var ErrNotFound = errors.New("item not found")

// Config configures an Engine.
type Config struct {
	Weights           Weights
	MaxYearDifference int

	// Lambda is the MMR relevance/diversity balance. Default 0.7.
	Lambda float64

	// DefaultLimit applies when Related is called with limit <= 0. Default 8.
	DefaultLimit int

	// MaxLimit caps the limit. Default 50.
	MaxLimit int
}

// Engine computes related items.
type Engine struct {
	weights     Weights
	maxYearDiff int
	lambda      float64
	defLimit    int
	maxLimit    int
}

// NewEngine creates an engine.
func NewEngine(cfg Config) *Engine {
	if cfg.MaxYearDifference <= 0 {
		cfg.MaxYearDifference = 25
	}
	if cfg.Lambda <= 0 || cfg.Lambda > 1 {
		cfg.Lambda = 0.7
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 8
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 50
	}
	return &Engine{
		weights:     cfg.Weights.normalized(),
		maxYearDiff: cfg.MaxYearDifference,
		lambda:      cfg.Lambda,
		defLimit:    cfg.DefaultLimit,
		maxLimit:    cfg.MaxLimit,
	}
}

// Related returns up to limit items from the same category as globalID,
// most relevant first after diversity re-ranking. Items with zero
// similarity are never returned.
func (e *Engine) Related(c *catalog.Catalog, globalID string, limit int) ([]Scored, error) {
	src, ok := c.Lookup(globalID)
	if !ok {
		return nil, ErrNotFound
	}
	if limit <= 0 {
		limit = e.defLimit
	}
	limit = min(limit, e.maxLimit)

	peers := c.ByCategory(src.Category)
	candidates := make([]Scored, 0, len(peers))
	for i := range peers {
		if peers[i].GlobalID == src.GlobalID {
			continue
		}
		if s := e.similarity(&src, &peers[i]); s > 0 {
			candidates = append(candidates, Scored{Item: peers[i], Score: s})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Score != candidates[b].Score {
			return candidates[a].Score > candidates[b].Score
		}
		return candidates[a].Item.GlobalID < candidates[b].Item.GlobalID
	})

	// Re-rank a pool a few times larger than the result.
	pool := min(len(candidates), limit*5)
	return MMR(candidates[:pool], limit, e.lambda, e.similarity), nil
}

func (e *Engine) similarity(a, b *models.Item) float64 {
	return Similarity(a, b, e.weights, e.maxYearDiff)
}
