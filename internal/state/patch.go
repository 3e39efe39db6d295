// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package state

import (
	"fmt"
	"strings"

	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/filter"
	"github.com/tomtom215/masterpiece/internal/models"
)

// Patch is a partial update of both slices. Nil fields are left unchanged.
//
// Example:
//
//	{"category": "movies", "spanishCinemaOnly": true, "view": "home"}
type Patch struct {
	Category          *models.Category `json:"category,omitempty" validate:"omitempty,category"`
	Subcategory       *string          `json:"subcategory,omitempty"`
	Languages         *[]string        `json:"languages,omitempty" validate:"omitempty,max=20,dive,min=2,max=8"`
	MasterpieceOnly   *bool            `json:"masterpieceOnly,omitempty"`
	SpanishCinemaOnly *bool            `json:"spanishCinemaOnly,omitempty"`
	Query             *string          `json:"query,omitempty" validate:"omitempty,max=200"`
	Sort              *filter.Sort     `json:"sort,omitempty" validate:"omitempty,sort"`
	UILanguage        *models.Language `json:"lang,omitempty" validate:"omitempty,uilang"`

	View       *View   `json:"view,omitempty"`
	SelectedID *string `json:"selectedId,omitempty" validate:"omitempty,max=128"`
}

// Empty reports whether the patch changes nothing.
func (p *Patch) Empty() bool {
	return p.Category == nil && p.Subcategory == nil && p.Languages == nil &&
		p.MasterpieceOnly == nil && p.SpanishCinemaOnly == nil && p.Query == nil &&
		p.Sort == nil && p.UILanguage == nil && p.View == nil && p.SelectedID == nil
}

// Apply updates both slices atomically with a single notification. Fields
// are applied in the order category, subcategory, Spanish cinema, the
// remaining filters, then navigation, so {"category": "books",
// "subcategory": "novel"} works in one patch. Any invalid field rejects the
// whole patch.
func (s *Store) Apply(p Patch) (Snapshot, error) {
	return s.update(ChangePatch, func(st *State, c *catalog.Catalog) error {
		return applyPatch(st, c, p)
	})
}

func applyPatch(st *State, c *catalog.Catalog, p Patch) error {
	f := &st.Filter

	if p.Category != nil {
		if err := setCategory(f, c, *p.Category); err != nil {
			return err
		}
	}
	if p.Subcategory != nil {
		if err := setSubcategory(f, c, *p.Subcategory); err != nil {
			return err
		}
	}
	if p.SpanishCinemaOnly != nil {
		setSpanishCinema(f, c, *p.SpanishCinemaOnly)
	}
	if p.Languages != nil {
		f.Languages = normalizeLanguages(*p.Languages)
	}
	if p.MasterpieceOnly != nil {
		f.MasterpieceOnly = *p.MasterpieceOnly
	}
	if p.Query != nil {
		f.Query = strings.TrimSpace(*p.Query)
	}
	if p.Sort != nil {
		v, ok := filter.ParseSort(string(*p.Sort))
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidSort, *p.Sort)
		}
		f.Sort = v
	}
	if p.UILanguage != nil {
		l, ok := models.ParseLanguage(string(*p.UILanguage))
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, *p.UILanguage)
		}
		f.UILanguage = l
	}

	switch {
	case p.View != nil:
		gid := st.Navigation.SelectedID
		if p.SelectedID != nil {
			gid = *p.SelectedID
		}
		return navigate(&st.Navigation, c, *p.View, gid)
	case p.SelectedID != nil && *p.SelectedID != "":
		return navigate(&st.Navigation, c, ViewDetail, *p.SelectedID)
	case p.SelectedID != nil:
		closeDetail(&st.Navigation)
	}
	return nil
}
