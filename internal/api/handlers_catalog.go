// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/filter"
	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/models"
	"github.com/tomtom215/masterpiece/internal/related"
)

func (h *Handler) catalogOrNil() *catalog.Catalog {
	if h.catalog == nil {
		return nil
	}
	return h.catalog.Current()
}

// currentCatalog returns the active snapshot or writes a 503.
func (h *Handler) currentCatalog(w http.ResponseWriter) (*catalog.Catalog, bool) {
	c := h.catalogOrNil()
	if c == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeService, "Catalog not loaded yet", catalog.ErrNotLoaded)
		return nil, false
	}
	return c, true
}

// lookupItem resolves the {globalId} URL parameter or writes a 400/404.
func (h *Handler) lookupItem(w http.ResponseWriter, r *http.Request, c *catalog.Catalog) (models.Item, bool) {
	gid := chi.URLParam(r, "globalId")
	if _, _, ok := models.ParseGlobalID(gid); !ok {
		invalidParam(w, "globalId", gid)
		return models.Item{}, false
	}
	it, ok := c.Lookup(gid)
	if !ok {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Item not found", nil)
		return models.Item{}, false
	}
	return it, true
}

// Categories lists every category with its label, item count and the
// subcategories that have items.
//
// Method: GET
// Path: /api/v1/categories
//
// Query Parameters:
//   - lang: es or en (optional)
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c, ok := h.currentCatalog(w)
	if !ok {
		return
	}
	hctx := h.handlerContext(r)

	respondSuccess(w, CategoriesResponse{
		Categories: NewCategoryViews(c, hctx.Lang),
		Total:      c.Len(),
		Lang:       hctx.Lang,
	}, start)
}

// Items returns a filtered, sorted page of items.
//
// Method: GET
// Path: /api/v1/items
//
// Query Parameters:
//   - category, subcategory: taxonomy ids (optional)
//   - languages: comma-separated original-language codes (optional)
//   - masterpiece, spanish_cinema: booleans (optional)
//   - q: free-text search over title, description and creators (optional)
//   - sort: default, title, year_asc, year_desc, masterpiece_first (optional)
//   - lang: es or en (optional)
//   - limit, offset: pagination, limit capped at api.max_page_size
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, bad := parseItemsRequest(r, h.config.API.DefaultPageSize)
	if bad != "" {
		invalidParam(w, bad, r.URL.Query().Get(bad))
		return
	}
	if req.Limit > h.config.API.MaxPageSize {
		req.Limit = h.config.API.MaxPageSize
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	c, ok := h.currentCatalog(w)
	if !ok {
		return
	}
	if req.Category != "" && req.Subcategory != "" && !c.Taxonomy().Valid(models.Category(req.Category), req.Subcategory) {
		invalidParam(w, "subcategory", req.Subcategory)
		return
	}

	hctx := h.handlerContext(r)
	matched := filter.Apply(c.Items(), req.Criteria(hctx.Lang))
	page, info := filter.Paginate(matched, req.Offset, req.Limit)

	respondSuccess(w, ItemsResponse{
		Items:      NewItemViews(page, hctx.Lang),
		Pagination: info,
		Lang:       hctx.Lang,
	}, start)
}

// Item returns one item by global id.
//
// Method: GET
// Path: /api/v1/items/{globalId}
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c, ok := h.currentCatalog(w)
	if !ok {
		return
	}
	it, ok := h.lookupItem(w, r, c)
	if !ok {
		return
	}
	hctx := h.handlerContext(r)

	respondSuccess(w, ItemDetailResponse{
		Item:   NewItemView(&it, hctx.Lang),
		Source: it,
		Lang:   hctx.Lang,
	}, start)
}

// Related returns similar items from the same category.
//
// Method: GET
// Path: /api/v1/items/{globalId}/related
//
// Query Parameters:
//   - limit: 1-50, default related.default_limit
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, ok := getIntParam(r, "limit", 0)
	if !ok {
		invalidParam(w, "limit", r.URL.Query().Get("limit"))
		return
	}
	req := RelatedRequest{GlobalID: chi.URLParam(r, "globalId"), Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	c, ok := h.currentCatalog(w)
	if !ok {
		return
	}
	scored, err := h.related.Related(c, req.GlobalID, req.Limit)
	if err != nil {
		if errors.Is(err, related.ErrNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Item not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute related items", err)
		return
	}
	hctx := h.handlerContext(r)

	respondSuccess(w, RelatedResponse{
		GlobalID: req.GlobalID,
		Items:    NewRelatedViews(scored, hctx.Lang),
		Lang:     hctx.Lang,
	}, start)
}

// Episodes returns the latest episodes of a podcast item's feed.
//
// Method: GET
// Path: /api/v1/items/{globalId}/episodes
func (h *Handler) Episodes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.feeds == nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Podcast feeds are disabled", ErrFeedsDisabled)
		return
	}
	c, ok := h.currentCatalog(w)
	if !ok {
		return
	}
	it, ok := h.lookupItem(w, r, c)
	if !ok {
		return
	}
	if it.Feed == "" {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Item has no feed", ErrNoFeed)
		return
	}

	feed, cached, err := h.feeds.Episodes(r.Context(), it.Feed)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("global_id", it.GlobalID).
			Str("breaker", h.feeds.BreakerState()).
			Msg("Feed fetch failed")
		respondError(w, http.StatusBadGateway, ErrCodeUpstream, "Failed to fetch podcast feed", err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   EpisodesResponse{GlobalID: it.GlobalID, Feed: feed},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}
