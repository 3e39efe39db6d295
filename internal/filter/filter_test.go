// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package filter

import (
	"reflect"
	"testing"

	"github.com/tomtom215/masterpiece/internal/models"
)

func fixture() []models.Item {
	items := []models.Item{
		{ID: "1", Category: models.CategoryMovies, Subcategory: "drama", Title: models.LocalizedText{ES: "El espíritu de la colmena", EN: "The Spirit of the Beehive"}, Language: "es", Year: 1973, Masterpiece: true, Director: "Víctor Erice"},
		{ID: "2", Category: models.CategoryMovies, Subcategory: "scifi", Title: models.Text("Alien"), Language: "en", Year: 1979, Masterpiece: true, Director: "Ridley Scott"},
		{ID: "3", Category: models.CategoryMovies, Subcategory: "drama", Title: models.Text("Ágora"), Language: "en", Spanish: true, Year: 2009},
		{ID: "4", Category: models.CategoryMovies, Subcategory: "comedy", Title: models.Text("Zelig"), Language: "en"},
		{ID: "5", Category: models.CategoryBooks, Subcategory: "novel", Title: models.Text("Rayuela"), Language: "es", Year: 1963, Author: "Julio Cortázar", Tags: []string{"boom"}},
		{ID: "6", Category: models.CategoryBooks, Subcategory: "novel", Title: models.Text("Ulysses"), Language: "EN", Year: 1922, Masterpiece: true},
	}
	for i := range items {
		items[i].GlobalID = models.MakeGlobalID(items[i].Category, items[i].ID)
	}
	return items
}

func ids(items []models.Item) []string { return GlobalIDs(items) }

func TestApply_Predicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"zero value matches all", Criteria{}, []string{"movies_1", "movies_2", "movies_3", "movies_4", "books_5", "books_6"}},
		{"category", Criteria{Category: models.CategoryBooks}, []string{"books_5", "books_6"}},
		{"subcategory", Criteria{Category: models.CategoryMovies, Subcategory: "drama"}, []string{"movies_1", "movies_3"}},
		{"languages case insensitive", Criteria{Languages: []string{"en"}}, []string{"movies_2", "movies_3", "movies_4", "books_6"}},
		{"multiple languages", Criteria{Category: models.CategoryBooks, Languages: []string{"es", "en"}}, []string{"books_5", "books_6"}},
		{"masterpiece", Criteria{MasterpieceOnly: true}, []string{"movies_1", "movies_2", "books_6"}},
		{"spanish cinema", Criteria{SpanishCinemaOnly: true}, []string{"movies_1", "movies_3"}},
		{"spanish cinema excludes books", Criteria{SpanishCinemaOnly: true, Languages: []string{"es"}}, []string{"movies_1"}},
		{"query folds accents", Criteria{Query: "CORTAZAR"}, []string{"books_5"}},
		{"query all terms", Criteria{Query: "espiritu erice"}, []string{"movies_1"}},
		{"query english title", Criteria{Query: "beehive"}, []string{"movies_1"}},
		{"query tag", Criteria{Query: "boom"}, []string{"books_5"}},
		{"query no match", Criteria{Query: "erice scott"}, []string{}},
		{"blank query ignored", Criteria{Query: "   ", Category: models.CategoryBooks}, []string{"books_5", "books_6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ids(Apply(fixture(), tt.criteria))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
			if n := Count(fixture(), tt.criteria); n != len(tt.want) {
				t.Errorf("Count() = %d, want %d", n, len(tt.want))
			}
		})
	}
}

func TestApply_Sorts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"title spanish collation", Criteria{Category: models.CategoryMovies, Sort: SortTitle, UILanguage: models.LanguageES}, []string{"movies_3", "movies_2", "movies_1", "movies_4"}},
		{"title english uses english titles", Criteria{Category: models.CategoryMovies, Sort: SortTitle, UILanguage: models.LanguageEN}, []string{"movies_3", "movies_2", "movies_1", "movies_4"}},
		{"year asc unknown last", Criteria{Category: models.CategoryMovies, Sort: SortYearAsc}, []string{"movies_1", "movies_2", "movies_3", "movies_4"}},
		{"year desc unknown last", Criteria{Category: models.CategoryMovies, Sort: SortYearDesc}, []string{"movies_3", "movies_2", "movies_1", "movies_4"}},
		{"masterpiece first stable", Criteria{Sort: SortMasterpieceFirst}, []string{"movies_1", "movies_2", "books_6", "movies_3", "movies_4", "books_5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ids(Apply(fixture(), tt.criteria))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	items := fixture()
	before := ids(items)
	_ = Apply(items, Criteria{Sort: SortTitle})
	if !reflect.DeepEqual(ids(items), before) {
		t.Error("Apply reordered its input")
	}
}

func TestFold(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Cortázar":        "cortazar",
		"ÁGORA":           "agora",
		"Straße":          "strasse",
		"plain":           "plain",
		"Pedro Almodóvar": "pedro almodovar",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	if s, ok := ParseSort(""); !ok || s != SortDefault {
		t.Errorf("ParseSort(\"\") = %s, %v", s, ok)
	}
	if s, ok := ParseSort("year_desc"); !ok || s != SortYearDesc {
		t.Errorf("ParseSort(year_desc) = %s, %v", s, ok)
	}
	if _, ok := ParseSort("random"); ok {
		t.Error("ParseSort(random) should fail")
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		offset, limit int
		wantCount     int
		wantMore      bool
	}{
		{"first page", 0, 2, 2, true},
		{"last page", 4, 2, 2, false},
		{"partial", 5, 2, 1, false},
		{"past end", 10, 2, 0, false},
		{"no limit", 1, 0, 5, false},
		{"negative offset", -3, 3, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page, info := Paginate(fixture(), tt.offset, tt.limit)
			if len(page) != tt.wantCount || info.Count != tt.wantCount {
				t.Errorf("count = %d/%d, want %d", len(page), info.Count, tt.wantCount)
			}
			if info.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", info.HasMore, tt.wantMore)
			}
			if info.Total != 6 {
				t.Errorf("Total = %d, want 6", info.Total)
			}
		})
	}
}
