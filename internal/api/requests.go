// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import (
	"net/http"

	"github.com/tomtom215/masterpiece/internal/filter"
	"github.com/tomtom215/masterpiece/internal/models"
)

// ItemsRequest represents the validated query parameters for GET /items.
//
// Example:
//
//	/api/v1/items?category=movies&spanish_cinema=true&sort=year_desc&lang=en&limit=24
type ItemsRequest struct {
	Category      string   `json:"category" validate:"omitempty,category"`
	Subcategory   string   `json:"subcategory" validate:"omitempty,max=64"`
	Languages     []string `json:"languages" validate:"max=20,dive,min=2,max=8"`
	Masterpiece   bool     `json:"masterpiece"`
	SpanishCinema bool     `json:"spanish_cinema"`
	Query         string   `json:"q" validate:"max=200"`
	Sort          string   `json:"sort" validate:"omitempty,sort"`
	Lang          string   `json:"lang" validate:"omitempty,uilang"`
	Limit         int      `json:"limit" validate:"min=1,max=500"`
	Offset        int      `json:"offset" validate:"min=0,max=1000000"`
}

// Criteria converts the request into filter criteria.
func (r *ItemsRequest) Criteria(lang models.Language) filter.Criteria {
	order, _ := filter.ParseSort(r.Sort)
	return filter.Criteria{
		Category:          models.Category(r.Category),
		Subcategory:       r.Subcategory,
		Languages:         r.Languages,
		MasterpieceOnly:   r.Masterpiece,
		SpanishCinemaOnly: r.SpanishCinema,
		Query:             r.Query,
		Sort:              order,
		UILanguage:        lang,
	}
}

// RelatedRequest represents the query parameters for GET /items/{globalId}/related.
type RelatedRequest struct {
	GlobalID string `json:"globalId" validate:"required,globalid"`
	Limit    int    `json:"limit" validate:"min=0,max=50"`
}

// NavigateRequest is the body of POST /state/navigate. GlobalID is
// required for the detail view and ignored otherwise.
type NavigateRequest struct {
	View     string `json:"view" validate:"required,oneof=home detail coffee how_to_download"`
	GlobalID string `json:"globalId" validate:"omitempty,globalid"`
}

// parseItemsRequest reads the /items query parameters. The returned name is
// the first parameter that could not be parsed.
func parseItemsRequest(r *http.Request, defaultLimit int) (req ItemsRequest, badParam string) {
	q := r.URL.Query()
	req = ItemsRequest{
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Languages:   parseCommaSeparated(q.Get("languages")),
		Query:       q.Get("q"),
		Sort:        q.Get("sort"),
		Lang:        q.Get("lang"),
	}

	var ok bool
	if req.Masterpiece, ok = getBoolParam(r, "masterpiece"); !ok {
		return req, "masterpiece"
	}
	if req.SpanishCinema, ok = getBoolParam(r, "spanish_cinema"); !ok {
		return req, "spanish_cinema"
	}
	if req.Limit, ok = getIntParam(r, "limit", defaultLimit); !ok {
		return req, "limit"
	}
	if req.Offset, ok = getIntParam(r, "offset", 0); !ok {
		return req, "offset"
	}
	return req, ""
}
