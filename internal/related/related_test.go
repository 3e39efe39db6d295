// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package related

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/models"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWeights_Normalized(t *testing.T) {
	t.Parallel()

	w := Weights{Subcategory: 2, Tags: 2, Creator: 0, Year: 0}.normalized()
	if !almostEqual(w.Subcategory, 0.5) || !almostEqual(w.Tags, 0.5) {
		t.Errorf("normalized = %+v", w)
	}
	d := Weights{}.normalized()
	if !almostEqual(d.Subcategory+d.Tags+d.Creator+d.Year, 1) {
		t.Errorf("zero weights should fall back to normalized defaults, got %+v", d)
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	w := DefaultWeights().normalized()
	base := models.Item{Subcategory: "drama", Tags: []string{"war", "spain"}, Director: "Víctor Erice", Year: 1973}

	tests := []struct {
		name  string
		other models.Item
		want  float64
	}{
		{"identical", base, 1.0},
		{"nothing shared", models.Item{Subcategory: "comedy", Tags: []string{"music"}}, 0},
		{"same subcategory only", models.Item{Subcategory: "drama"}, 0.3},
		{"half tags case insensitive", models.Item{Tags: []string{"WAR", "love", "spain", "x"}}, 0.4 * 2.0 / 4.0},
		{"creator case insensitive", models.Item{Director: "víctor erice"}, 0.2},
		{"year 5 apart", models.Item{Year: 1978}, 0.1 * (1 - 5.0/25.0)},
		{"year too far", models.Item{Year: 2020}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Similarity(&base, &tt.other, w, 25); !almostEqual(got, tt.want) {
				t.Errorf("Similarity() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMMR(t *testing.T) {
	t.Parallel()

	items := []Scored{
		{Item: models.Item{GlobalID: "a", Tags: []string{"x"}}, Score: 1.0},
		{Item: models.Item{GlobalID: "b", Tags: []string{"x"}}, Score: 0.9},
		{Item: models.Item{GlobalID: "c", Tags: []string{"y"}}, Score: 0.8},
	}
	sim := func(a, b *models.Item) float64 { return jaccard(a.Tags, b.Tags) }

	tests := []struct {
		name   string
		lambda float64
		k      int
		want   []string
	}{
		{"pure relevance", 1.0, 3, []string{"a", "b", "c"}},
		{"diversity promotes c", 0.5, 3, []string{"a", "c", "b"}},
		{"k bounds output", 0.5, 2, []string{"a", "c"}},
		{"k above len", 0.5, 10, []string{"a", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MMR(items, tt.k, tt.lambda, sim)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Item.GlobalID != tt.want[i] {
					t.Errorf("position %d = %s, want %s", i, got[i].Item.GlobalID, tt.want[i])
				}
			}
		})
	}

	if MMR(nil, 3, 0.5, sim) != nil {
		t.Error("empty input should return nil")
	}
}

func TestEngine_Related(t *testing.T) {
	t.Parallel()

	items := []models.Item{
		{ID: "1", Category: models.CategoryMovies, Subcategory: "scifi", Tags: []string{"space", "horror"}, Director: "Ridley Scott", Year: 1979},
		{ID: "2", Category: models.CategoryMovies, Subcategory: "scifi", Tags: []string{"space", "horror"}, Director: "James Cameron", Year: 1986},
		{ID: "3", Category: models.CategoryMovies, Subcategory: "scifi", Tags: []string{"noir"}, Director: "Ridley Scott", Year: 1982},
		{ID: "4", Category: models.CategoryMovies, Subcategory: "comedy", Tags: []string{"musical"}, Year: 1952},
		{ID: "5", Category: models.CategoryBooks, Subcategory: "scifi", Tags: []string{"space", "horror"}, Year: 1979},
	}
	c, err := catalog.Build(catalog.DefaultTaxonomy(), items)
	if err != nil {
		t.Fatal(err)
	}

	e := NewEngine(Config{})
	got, err := e.Related(c, "movies_1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d related items, want 2 (same category, score > 0): %+v", len(got), got)
	}
	for _, s := range got {
		if s.Item.Category != models.CategoryMovies || s.Item.GlobalID == "movies_1" {
			t.Errorf("unexpected related item %s", s.Item.GlobalID)
		}
	}
	if got[0].Item.GlobalID != "movies_2" {
		t.Errorf("best match = %s, want movies_2", got[0].Item.GlobalID)
	}

	again, _ := e.Related(c, "movies_1", 0)
	for i := range got {
		if again[i].Item.GlobalID != got[i].Item.GlobalID {
			t.Fatal("Related must be deterministic")
		}
	}

	if one, _ := e.Related(c, "movies_1", 1); len(one) != 1 {
		t.Errorf("limit 1 returned %d", len(one))
	}

	if _, err := e.Related(c, "movies_404", 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
