// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package state implements the per-session view state: the filter slice
// (what the visitor is browsing) and the navigation slice (which screen is
// open and which item is selected).
//
// A Store holds one session's state. Every mutation recomputes the filtered
// item list against the current catalog and notifies subscribers with a
// Snapshot. Manager keeps live stores for many sessions and persists them
// through a Repository.
package state

import (
	"errors"
	"time"

	"github.com/tomtom215/masterpiece/internal/filter"
	"github.com/tomtom215/masterpiece/internal/models"
)

// View is a top-level screen.
type View string

const (
	ViewHome          View = "home"
	ViewDetail        View = "detail"
	ViewCoffee        View = "coffee"
	ViewHowToDownload View = "how_to_download"
)

// ParseView validates a view name.
func ParseView(s string) (View, bool) {
	switch v := View(s); v {
	case ViewHome, ViewDetail, ViewCoffee, ViewHowToDownload:
		return v, true
	}
	return "", false
}

// Change names the slice a notification is about.
type Change string

const (
	ChangeFilter     Change = "filter"
	ChangeNavigation Change = "navigation"
	ChangePatch      Change = "patch"
	ChangeCatalog    Change = "catalog"
)

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidSubcategory = errors.New("invalid subcategory for category")
	ErrInvalidView        = errors.New("invalid view")
	ErrInvalidSort        = errors.New("invalid sort")
	ErrInvalidLanguage    = errors.New("invalid language")
	ErrSessionNotFound    = errors.New("session not found")
	ErrCatalogNotLoaded   = errors.New("catalog not loaded")
)

// FilterState is the filter slice.
type FilterState struct {
	Category          models.Category `json:"category"`
	Subcategory       string          `json:"subcategory"`
	Languages         []string        `json:"languages"`
	MasterpieceOnly   bool            `json:"masterpieceOnly"`
	SpanishCinemaOnly bool            `json:"spanishCinemaOnly"`
	Query             string          `json:"query"`
	Sort              filter.Sort     `json:"sort"`
	UILanguage        models.Language `json:"lang"`
}

// DefaultFilter returns the filter of a new session.
func DefaultFilter(lang models.Language) FilterState {
	if lang == "" {
		lang = models.DefaultLanguage
	}
	return FilterState{Languages: []string{}, Sort: filter.SortDefault, UILanguage: lang}
}

// Criteria converts the slice into filter criteria.
func (f FilterState) Criteria() filter.Criteria {
	return filter.Criteria{
		Category:          f.Category,
		Subcategory:       f.Subcategory,
		Languages:         f.Languages,
		MasterpieceOnly:   f.MasterpieceOnly,
		SpanishCinemaOnly: f.SpanishCinemaOnly,
		Query:             f.Query,
		Sort:              f.Sort,
		UILanguage:        f.UILanguage,
	}
}

func (f FilterState) clone() FilterState {
	f.Languages = append([]string{}, f.Languages...)
	return f
}

// NavigationState is the navigation slice.
type NavigationState struct {
	View         View   `json:"view"`
	SelectedID   string `json:"selectedId,omitempty"`
	PreviousView View   `json:"previousView,omitempty"`
}

// State is both slices plus a version that increases on every change.
type State struct {
	Filter     FilterState     `json:"filter"`
	Navigation NavigationState `json:"navigation"`
	Version    uint64          `json:"version"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Snapshot is what subscribers receive: the state and the filtered items.
type Snapshot struct {
	SessionID string   `json:"sessionId"`
	State     State    `json:"state"`
	Items     []string `json:"items"`
	Total     int      `json:"total"`
	Change    Change   `json:"change"`
}
