// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package catalog

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/tomtom215/masterpiece/internal/chunked"
	"github.com/tomtom215/masterpiece/internal/models"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"movies.json": {Data: []byte(`[
			{"id": 1, "title": {"es": "El espíritu de la colmena", "en": "The Spirit of the Beehive"}, "subcategory": "drama", "spanish": true, "year": 1973},
			{"id": 2, "title": "Alien", "subcategory": "scifi", "year": "1979", "masterpiece": true},
			{"id": 3, "title": "Odd", "subcategory": "noir"}
		]`)},
		"books.json": {Data: []byte(`[
			{"id": "b1", "title": "Rayuela", "subcategory": "novel", "author": "Julio Cortázar"},
			{"id": "b2", "title": "Stray", "category": "cooking"}
		]`)},
		"music.json": {Data: []byte(`[{"id": 7, "title": "Kind of Blue", "subcategory": "jazz"}]`)},
	}
}

func TestParseTaxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"valid", "categories:\n  - id: movies\n    label: {es: Películas, en: Movies}\n    subcategories:\n      - {id: drama, label: Drama}\n", false},
		{"empty", "categories: []\n", true},
		{"duplicate category", "categories:\n  - id: a\n  - id: a\n", true},
		{"missing id", "categories:\n  - label: x\n", true},
		{"duplicate subcategory", "categories:\n  - id: a\n    subcategories:\n      - id: s\n      - id: s\n", true},
		{"bad label", "categories:\n  - id: a\n    label: [1, 2]\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseTaxonomy([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTaxonomy() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultTaxonomy(t *testing.T) {
	t.Parallel()

	tax := DefaultTaxonomy()
	want := models.AllCategories()
	cats := tax.Categories()
	if len(cats) != len(want) {
		t.Fatalf("got %d categories, want %d", len(cats), len(want))
	}
	for i, c := range cats {
		if c.ID != want[i] {
			t.Errorf("category %d = %s, want %s", i, c.ID, want[i])
		}
	}
	for i, id := range tax.IDs() {
		if id != want[i] {
			t.Errorf("IDs()[%d] = %s, want %s", i, id, want[i])
		}
	}

	movies, _ := tax.Category(models.CategoryMovies)
	if movies.Label.Get(models.LanguageEN) != "Movies" || movies.Label.Get(models.LanguageES) != "Películas" {
		t.Errorf("movies label = %+v", movies.Label)
	}
	if !tax.Valid(models.CategoryMovies, "drama") || !tax.Valid(models.CategoryMovies, "") {
		t.Error("drama and empty subcategory should be valid for movies")
	}
	if tax.Valid(models.CategoryMovies, "jazz") || tax.Valid("cooking", "") {
		t.Error("unexpected valid pair")
	}
	if tax.Order("cooking") != -1 {
		t.Error("unknown category should have order -1")
	}
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	c, err := NewLoader(testFS(), nil, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Len() != 5 {
		t.Errorf("Len = %d, want 5", c.Len())
	}
	if c.Rejected() != 1 {
		t.Errorf("Rejected = %d, want 1", c.Rejected())
	}

	// Taxonomy order: movies before books before music.
	items := c.Items()
	if items[0].GlobalID != "movies_1" || items[3].GlobalID != "books_b1" || items[4].GlobalID != "music_7" {
		t.Errorf("unexpected order: %s %s %s", items[0].GlobalID, items[3].GlobalID, items[4].GlobalID)
	}

	alien, ok := c.Lookup("movies_2")
	if !ok {
		t.Fatal("movies_2 not found")
	}
	if alien.Year != 1979 || alien.Category != models.CategoryMovies {
		t.Errorf("alien = %+v", alien)
	}

	if got := c.Subcategories(models.CategoryMovies); len(got) != 3 || got[0] != "drama" || got[1] != "scifi" || got[2] != "noir" {
		t.Errorf("Subcategories(movies) = %v", got)
	}

	counts := c.Counts()
	if counts[models.CategoryMovies] != 3 || counts[models.CategoryComics] != 0 {
		t.Errorf("Counts = %v", counts)
	}
	if _, ok := counts[models.CategoryPodcasts]; !ok {
		t.Error("Counts should include empty categories")
	}
	if len(c.ByCategory(models.CategoryPodcasts)) != 0 {
		t.Error("podcasts should be empty")
	}
}

func TestLoader_InvalidJSON(t *testing.T) {
	t.Parallel()

	fsys := testFS()
	fsys["series.json"] = &fstest.MapFile{Data: []byte(`{"not": "an array"}`)}
	if _, err := NewLoader(fsys, nil, nil).Load(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestBuild_DuplicateGlobalID(t *testing.T) {
	t.Parallel()

	// Podcasts sort after books, so sorted positions would differ from these.
	items := []models.Item{
		{ID: "1", Category: models.CategoryPodcasts},
		{ID: "1", Category: models.CategoryBooks},
		{ID: "2", Category: models.CategoryPodcasts},
		{ID: "1", Category: models.CategoryPodcasts},
	}
	_, err := Build(DefaultTaxonomy(), items)
	if !errors.Is(err, ErrDuplicateGlobalID) {
		t.Fatalf("expected ErrDuplicateGlobalID, got %v", err)
	}
	want := `"podcasts_1": podcasts entries 0 and 2 (input positions 0 and 3)`
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want it to contain %q", err, want)
	}
}

type fakeMusic struct {
	res *chunked.Result
	err error
}

func (f fakeMusic) Load(context.Context) (*chunked.Result, error) { return f.res, f.err }

func TestLoader_MusicLoader(t *testing.T) {
	t.Parallel()

	res := &chunked.Result{
		Items:  []models.Item{{ID: "10", Title: models.Text("Blue")}, {ID: "11", Title: models.Text("Red")}},
		Mode:   chunked.ModeChunked,
		Chunks: 1,
	}
	c, err := NewLoader(testFS(), nil, fakeMusic{res: res}).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(c.ByCategory(models.CategoryMusic)); got != 2 {
		t.Errorf("music items = %d, want 2", got)
	}
	if c.Music().Mode != "chunked" {
		t.Errorf("music mode = %s", c.Music().Mode)
	}

	c, err = NewLoader(testFS(), nil, fakeMusic{err: errors.New("cdn down")}).Load(context.Background())
	if err != nil {
		t.Fatalf("music failure should not fail the catalog: %v", err)
	}
	if c.Music().Mode != MusicModeUnavailable || len(c.ByCategory(models.CategoryMusic)) != 0 {
		t.Errorf("music = %+v", c.Music())
	}
}

type countingSource struct {
	calls atomic.Int32
	fail  atomic.Bool
	inner Source
}

func (s *countingSource) Load(ctx context.Context) (*Catalog, error) {
	s.calls.Add(1)
	if s.fail.Load() {
		return nil, errors.New("boom")
	}
	return s.inner.Load(ctx)
}

func TestService_ReloadKeepsPreviousOnFailure(t *testing.T) {
	t.Parallel()

	src := &countingSource{inner: NewLoader(testFS(), nil, nil)}
	svc := NewService(src)
	if svc.Ready() {
		t.Fatal("service should not be ready before load")
	}

	var notified atomic.Int32
	svc.OnReload(func(*Catalog) { notified.Add(1) })

	first, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if svc.Current() != first {
		t.Error("Current should return the loaded snapshot")
	}

	src.fail.Store(true)
	if _, err := svc.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if svc.Current() != first {
		t.Error("failed reload must keep the previous snapshot")
	}
	if notified.Load() != 1 {
		t.Errorf("listeners notified %d times, want 1", notified.Load())
	}
}

func TestNewStaticService(t *testing.T) {
	t.Parallel()

	c, err := Build(DefaultTaxonomy(), []models.Item{{ID: "1", Category: models.CategoryComics}})
	if err != nil {
		t.Fatal(err)
	}
	svc := NewStaticService(c)
	if !svc.Ready() || !svc.Current().Has("comics_1") {
		t.Error("static service should serve the given catalog")
	}
}
