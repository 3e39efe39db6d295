// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import (
	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/feeds"
	"github.com/tomtom215/masterpiece/internal/models"
	"github.com/tomtom215/masterpiece/internal/related"
	"github.com/tomtom215/masterpiece/internal/state"
)

// ItemView is an item with its text resolved to one language.
type ItemView struct {
	GlobalID    string          `json:"globalId"`
	ID          models.ItemID   `json:"id"`
	Category    models.Category `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Masterpiece bool            `json:"masterpiece"`
	Tags        []string        `json:"tags,omitempty"`
	Language    string          `json:"language,omitempty"`
	Year        models.Year     `json:"year,omitempty"`
	Creators    []string        `json:"creators,omitempty"`
	HasFeed     bool            `json:"hasFeed,omitempty"`
}

// NewItemView resolves it to lang.
func NewItemView(it *models.Item, lang models.Language) ItemView {
	return ItemView{
		GlobalID:    it.GlobalID,
		ID:          it.ID,
		Category:    it.Category,
		Subcategory: it.Subcategory,
		Title:       it.Title.Get(lang),
		Description: it.Description.Get(lang),
		Image:       it.Image,
		Masterpiece: it.Masterpiece,
		Tags:        it.Tags,
		Language:    it.Language,
		Year:        it.Year,
		Creators:    it.Creators(),
		HasFeed:     it.Feed != "",
	}
}

// NewItemViews resolves every item to lang.
func NewItemViews(items []models.Item, lang models.Language) []ItemView {
	out := make([]ItemView, len(items))
	for i := range items {
		out[i] = NewItemView(&items[i], lang)
	}
	return out
}

// ItemsResponse is the data of GET /items.
type ItemsResponse struct {
	Items      []ItemView            `json:"items"`
	Pagination models.PaginationInfo `json:"pagination"`
	Lang       models.Language       `json:"lang"`
}

// ItemDetailResponse is the data of GET /items/{globalId}. Source keeps
// both languages and the category-specific fields.
type ItemDetailResponse struct {
	Item   ItemView        `json:"item"`
	Source models.Item     `json:"source"`
	Lang   models.Language `json:"lang"`
}

// RelatedView is one related item with its score.
type RelatedView struct {
	ItemView
	Score float64 `json:"score"`
}

// RelatedResponse is the data of GET /items/{globalId}/related.
type RelatedResponse struct {
	GlobalID string          `json:"globalId"`
	Items    []RelatedView   `json:"items"`
	Lang     models.Language `json:"lang"`
}

// NewRelatedViews resolves scored items to lang.
func NewRelatedViews(scored []related.Scored, lang models.Language) []RelatedView {
	out := make([]RelatedView, len(scored))
	for i := range scored {
		out[i] = RelatedView{ItemView: NewItemView(&scored[i].Item, lang), Score: scored[i].Score}
	}
	return out
}

// EpisodesResponse is the data of GET /items/{globalId}/episodes.
type EpisodesResponse struct {
	GlobalID string      `json:"globalId"`
	Feed     *feeds.Feed `json:"feed"`
}

// SubcategoryView is a subcategory label with its item count.
type SubcategoryView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CategoryView is a category label with counts.
type CategoryView struct {
	ID            models.Category   `json:"id"`
	Label         string            `json:"label"`
	Count         int               `json:"count"`
	Subcategories []SubcategoryView `json:"subcategories"`
}

// CategoriesResponse is the data of GET /categories.
type CategoriesResponse struct {
	Categories []CategoryView  `json:"categories"`
	Total      int             `json:"total"`
	Lang       models.Language `json:"lang"`
}

// NewCategoryViews lists every taxonomy category in order, including empty
// ones. Only subcategories that have items are listed; those missing from
// the taxonomy come last with their id as label.
func NewCategoryViews(c *catalog.Catalog, lang models.Language) []CategoryView {
	counts := c.Counts()
	tax := c.Taxonomy()
	out := make([]CategoryView, 0, len(tax.Categories()))

	for _, def := range tax.Categories() {
		subCounts := make(map[string]int)
		for _, it := range c.ByCategory(def.ID) {
			if it.Subcategory != "" {
				subCounts[it.Subcategory]++
			}
		}

		labels := make(map[string]string, len(def.Subcategories))
		for _, sd := range def.Subcategories {
			labels[sd.ID] = sd.Label.Get(lang)
		}

		subs := make([]SubcategoryView, 0, len(def.Subcategories))
		for _, id := range c.Subcategories(def.ID) {
			label := labels[id]
			if label == "" {
				label = id
			}
			subs = append(subs, SubcategoryView{ID: id, Label: label, Count: subCounts[id]})
		}

		out = append(out, CategoryView{
			ID:            def.ID,
			Label:         def.Label.Get(lang),
			Count:         counts[def.ID],
			Subcategories: subs,
		})
	}
	return out
}

// StateResponse is returned by the state endpoints.
type StateResponse struct {
	state.Snapshot
	Lang models.Language `json:"lang"`
}
