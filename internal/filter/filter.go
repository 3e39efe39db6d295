// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package filter selects and orders catalog items.
//
// Apply runs a chain of predicates over a slice of items and then sorts the
// survivors. The input slice is never modified.
package filter

import (
	"sort"
	"strings"

	"github.com/tomtom215/masterpiece/internal/models"
)

// Sort orders a filtered list.
type Sort string

const (
	SortDefault          Sort = "default"
	SortTitle            Sort = "title"
	SortYearAsc          Sort = "year_asc"
	SortYearDesc         Sort = "year_desc"
	SortMasterpieceFirst Sort = "masterpiece_first"
)

// Sorts lists the accepted sort values.
var Sorts = []Sort{SortDefault, SortTitle, SortYearAsc, SortYearDesc, SortMasterpieceFirst}

// ParseSort returns the Sort named by s. Empty means SortDefault.
func ParseSort(s string) (Sort, bool) {
	if s == "" {
		return SortDefault, true
	}
	for _, v := range Sorts {
		if string(v) == s {
			return v, true
		}
	}
	return SortDefault, false
}

// Criteria selects items. The zero value matches everything.
type Criteria struct {
	Category          models.Category `json:"category"`
	Subcategory       string          `json:"subcategory"`
	Languages         []string        `json:"languages"`
	MasterpieceOnly   bool            `json:"masterpieceOnly"`
	SpanishCinemaOnly bool            `json:"spanishCinemaOnly"`
	Query             string          `json:"query"`
	Sort              Sort            `json:"sort"`

	// UILanguage drives title collation and which title is sorted on.
	UILanguage models.Language `json:"lang"`
}

// Predicate reports whether an item passes.
type Predicate func(*models.Item) bool

// Predicates builds the predicate chain for c. Only active criteria
// contribute a predicate.
func Predicates(c Criteria) []Predicate {
	var ps []Predicate
	if c.Category != "" {
		cat := c.Category
		ps = append(ps, func(it *models.Item) bool { return it.Category == cat })
	}
	if c.Subcategory != "" {
		sub := c.Subcategory
		ps = append(ps, func(it *models.Item) bool { return it.Subcategory == sub })
	}
	if len(c.Languages) > 0 {
		set := make(map[string]struct{}, len(c.Languages))
		for _, l := range c.Languages {
			set[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
		}
		ps = append(ps, func(it *models.Item) bool {
			_, ok := set[strings.ToLower(it.Language)]
			return ok
		})
	}
	if c.MasterpieceOnly {
		ps = append(ps, func(it *models.Item) bool { return it.Masterpiece })
	}
	if c.SpanishCinemaOnly {
		ps = append(ps, func(it *models.Item) bool { return it.IsSpanishCinema() })
	}
	if terms := queryTerms(c.Query); len(terms) > 0 {
		ps = append(ps, func(it *models.Item) bool { return matchesAll(searchText(it), terms) })
	}
	return ps
}

// Apply returns the items matching c in the order requested by c.Sort.
func Apply(items []models.Item, c Criteria) []models.Item {
	ps := Predicates(c)
	out := make([]models.Item, 0, len(items))
next:
	for i := range items {
		for _, p := range ps {
			if !p(&items[i]) {
				continue next
			}
		}
		out = append(out, items[i])
	}
	order(out, c.Sort, c.UILanguage)
	return out
}

// Count returns how many items match c without building the result.
func Count(items []models.Item, c Criteria) int {
	ps := Predicates(c)
	n := 0
next:
	for i := range items {
		for _, p := range ps {
			if !p(&items[i]) {
				continue next
			}
		}
		n++
	}
	return n
}

// GlobalIDs extracts the global ids of items.
func GlobalIDs(items []models.Item) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].GlobalID
	}
	return ids
}

func order(items []models.Item, s Sort, lang models.Language) {
	switch s {
	case SortTitle:
		sortByTitle(items, lang)
	case SortYearAsc:
		sort.SliceStable(items, func(a, b int) bool { return yearLess(items[a].Year, items[b].Year, false) })
	case SortYearDesc:
		sort.SliceStable(items, func(a, b int) bool { return yearLess(items[a].Year, items[b].Year, true) })
	case SortMasterpieceFirst:
		sort.SliceStable(items, func(a, b int) bool { return items[a].Masterpiece && !items[b].Masterpiece })
	}
}

// yearLess orders by year with unknown (zero) years last in both directions.
func yearLess(a, b models.Year, desc bool) bool {
	switch {
	case a == 0:
		return false
	case b == 0:
		return true
	case desc:
		return a > b
	default:
		return a < b
	}
}
