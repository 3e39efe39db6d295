// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package catalog holds the in-memory recommendation catalog.
//
// A Catalog is an immutable snapshot built once per load. Service owns the
// current snapshot and swaps it atomically on reload, so readers never see a
// partially loaded catalog and never need a lock.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/models"
)

// ErrDuplicateGlobalID is returned when two items resolve to the same global id.
var ErrDuplicateGlobalID = errors.New("duplicate global id")

// Catalog is an immutable set of items grouped by category. Slices returned
// by its methods are shared and must not be modified.
type Catalog struct {
	taxonomy *Taxonomy
	items    []models.Item
	byGlobal map[string]int
	ranges   map[models.Category][2]int
	subs     map[models.Category][]string
	rejected int
	loadedAt time.Time
	music    MusicInfo
}

// MusicInfo records how the music dataset was obtained.
type MusicInfo struct {
	Mode   string        `json:"mode"`
	Chunks int           `json:"chunks"`
	Took   time.Duration `json:"took"`
	Error  string        `json:"error,omitempty"`
}

// Build assigns global ids and assembles a snapshot. Items whose category is
// not in the taxonomy or that have no id are skipped and counted in
// Rejected.
func Build(tax *Taxonomy, items []models.Item) (*Catalog, error) {
	type source struct{ input, inCategory int }

	kept := make([]models.Item, 0, len(items))
	seen := make(map[string]source, len(items))
	perCategory := make(map[models.Category]int)
	rejected := 0
	for i := range items {
		it := items[i]
		pos := source{input: i, inCategory: perCategory[it.Category]}
		perCategory[it.Category]++
		if it.ID == "" {
			logging.Warn().Int("position", i).Str("category", string(it.Category)).Msg("Skipping catalog item without id")
			rejected++
			continue
		}
		if !tax.HasCategory(it.Category) {
			logging.Warn().Str("category", logging.SanitizeValue(string(it.Category))).Str("id", string(it.ID)).Msg("Skipping catalog item with unknown category")
			rejected++
			continue
		}
		if it.Subcategory != "" && !tax.Valid(it.Category, it.Subcategory) {
			logging.Debug().Str("category", string(it.Category)).Str("subcategory", it.Subcategory).Str("id", string(it.ID)).Msg("Unknown subcategory")
		}
		it.GlobalID = models.MakeGlobalID(it.Category, it.ID)
		if prev, dup := seen[it.GlobalID]; dup {
			return nil, fmt.Errorf("%w %q: %s entries %d and %d (input positions %d and %d)",
				ErrDuplicateGlobalID, it.GlobalID, it.Category, prev.inCategory, pos.inCategory, prev.input, pos.input)
		}
		seen[it.GlobalID] = pos
		kept = append(kept, it)
	}

	// Category display order, file order within a category.
	sort.SliceStable(kept, func(a, b int) bool {
		return tax.Order(kept[a].Category) < tax.Order(kept[b].Category)
	})

	c := &Catalog{
		taxonomy: tax,
		items:    kept,
		byGlobal: make(map[string]int, len(kept)),
		ranges:   make(map[models.Category][2]int),
		subs:     make(map[models.Category][]string),
		rejected: rejected,
		loadedAt: time.Now(),
	}

	for i := range kept {
		c.byGlobal[kept[i].GlobalID] = i

		cat := kept[i].Category
		r, ok := c.ranges[cat]
		if !ok {
			r = [2]int{i, i}
		}
		r[1] = i + 1
		c.ranges[cat] = r
	}

	for cat := range c.ranges {
		c.subs[cat] = presentSubcategories(tax, cat, c.ByCategory(cat))
	}
	return c, nil
}

// presentSubcategories lists the subcategories used by items, taxonomy
// order first and then unknown ones alphabetically.
func presentSubcategories(tax *Taxonomy, cat models.Category, items []models.Item) []string {
	seen := make(map[string]struct{})
	for i := range items {
		if s := items[i].Subcategory; s != "" {
			seen[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for _, def := range tax.Subcategories(cat) {
		if _, ok := seen[def.ID]; ok {
			out = append(out, def.ID)
			delete(seen, def.ID)
		}
	}
	extra := make([]string, 0, len(seen))
	for s := range seen {
		extra = append(extra, s)
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Taxonomy returns the taxonomy the snapshot was built with.
func (c *Catalog) Taxonomy() *Taxonomy { return c.taxonomy }

// Items returns every item in load order.
func (c *Catalog) Items() []models.Item { return c.items }

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// ByCategory returns the items of one category.
func (c *Catalog) ByCategory(cat models.Category) []models.Item {
	r, ok := c.ranges[cat]
	if !ok {
		return nil
	}
	return c.items[r[0]:r[1]]
}

// Lookup finds an item by global id.
func (c *Catalog) Lookup(globalID string) (models.Item, bool) {
	i, ok := c.byGlobal[globalID]
	if !ok {
		return models.Item{}, false
	}
	return c.items[i], true
}

// Has reports whether globalID exists.
func (c *Catalog) Has(globalID string) bool {
	_, ok := c.byGlobal[globalID]
	return ok
}

// Subcategories returns the subcategories present in the data for cat.
func (c *Catalog) Subcategories(cat models.Category) []string {
	return c.subs[cat]
}

// Counts returns the number of items per category. Categories without items
// are included with zero.
func (c *Catalog) Counts() map[models.Category]int {
	counts := make(map[models.Category]int, len(c.taxonomy.Categories()))
	for _, def := range c.taxonomy.Categories() {
		r := c.ranges[def.ID]
		counts[def.ID] = r[1] - r[0]
	}
	return counts
}

// Rejected returns how many source items were skipped.
func (c *Catalog) Rejected() int { return c.rejected }

// LoadedAt returns the build time.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Music returns how the music dataset was loaded.
func (c *Catalog) Music() MusicInfo { return c.music }
