// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package state

import (
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/filter"
	"github.com/tomtom215/masterpiece/internal/models"
)

func testItems() []models.Item {
	return []models.Item{
		{ID: "1", Category: models.CategoryMovies, Subcategory: "drama", Title: models.Text("Viridiana"), Language: "es", Masterpiece: true, Year: 1961},
		{ID: "2", Category: models.CategoryMovies, Subcategory: "scifi", Title: models.Text("Alien"), Language: "en", Year: 1979},
		{ID: "3", Category: models.CategoryMovies, Subcategory: "drama", Title: models.Text("Ágora"), Language: "en", Spanish: true},
		{ID: "4", Category: models.CategoryBooks, Subcategory: "novel", Title: models.Text("Rayuela"), Language: "es", Masterpiece: true},
		{ID: "5", Category: models.CategoryBooks, Subcategory: "poetry", Title: models.Text("Poeta en Nueva York"), Language: "es"},
		{ID: "6", Category: models.CategoryPodcasts, Title: models.Text("Radio"), Language: "en"},
	}
}

func testCatalog(t *testing.T, items []models.Item) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Build(catalog.DefaultTaxonomy(), items)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

// catalogHolder lets a test swap the catalog a store filters against.
type catalogHolder struct{ p atomic.Pointer[catalog.Catalog] }

func (h *catalogHolder) get() *catalog.Catalog { return h.p.Load() }

func newTestStore(t *testing.T) (*Store, *catalogHolder) {
	t.Helper()
	h := &catalogHolder{}
	h.p.Store(testCatalog(t, testItems()))
	return NewStore("sess-1", h.get, models.LanguageES), h
}

func TestStore_Defaults(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	snap := s.Snapshot()
	if snap.Total != 6 {
		t.Errorf("Total = %d, want 6", snap.Total)
	}
	if snap.State.Navigation.View != ViewHome {
		t.Errorf("View = %s, want home", snap.State.Navigation.View)
	}
	if snap.State.Filter.Sort != filter.SortDefault || snap.State.Filter.UILanguage != models.LanguageES {
		t.Errorf("Filter = %+v", snap.State.Filter)
	}
}

func TestStore_SetCategoryClearsSubcategory(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	if _, err := s.SetCategory(models.CategoryMovies); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetSubcategory("drama"); err != nil {
		t.Fatal(err)
	}
	snap, err := s.SetCategory(models.CategoryBooks)
	if err != nil {
		t.Fatal(err)
	}
	if snap.State.Filter.Subcategory != "" {
		t.Errorf("subcategory = %q, want cleared", snap.State.Filter.Subcategory)
	}
	if !reflect.DeepEqual(snap.Items, []string{"books_4", "books_5"}) {
		t.Errorf("Items = %v", snap.Items)
	}

	snap, err = s.SetCategory("")
	if err != nil || snap.Total != 6 {
		t.Errorf("empty category should match all: total=%d err=%v", snap.Total, err)
	}

	if _, err := s.SetCategory("cooking"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestStore_SetSubcategoryValidation(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	if _, err := s.SetSubcategory("drama"); !errors.Is(err, ErrInvalidSubcategory) {
		t.Errorf("subcategory without category: got %v", err)
	}
	_, _ = s.SetCategory(models.CategoryBooks)
	if _, err := s.SetSubcategory("drama"); !errors.Is(err, ErrInvalidSubcategory) {
		t.Errorf("drama is not a book subcategory: got %v", err)
	}
	before := s.State().Version
	if _, err := s.SetSubcategory("nope"); err == nil {
		t.Fatal("expected error")
	}
	if s.State().Version != before {
		t.Error("failed update must not change the version")
	}
	snap, err := s.SetSubcategory("poetry")
	if err != nil || !reflect.DeepEqual(snap.Items, []string{"books_5"}) {
		t.Errorf("poetry: items=%v err=%v", snap.Items, err)
	}
}

func TestStore_SubcategoryOnlyInData(t *testing.T) {
	t.Parallel()

	items := append(testItems(), models.Item{ID: "7", Category: models.CategoryMovies, Subcategory: "noir", Title: models.Text("Laura")})
	c := testCatalog(t, items)
	s := NewStore("sess-noir", func() *catalog.Catalog { return c }, models.LanguageES)
	if _, err := s.SetCategory(models.CategoryMovies); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SetSubcategory("noir"); !errors.Is(err, ErrInvalidSubcategory) {
		t.Errorf("noir is not in the taxonomy: got %v", err)
	}
	if got := s.State().Filter.Subcategory; got != "" {
		t.Errorf("subcategory = %q, want unchanged", got)
	}

	// The item itself stays in the catalog.
	snap := s.Snapshot()
	if snap.Total != 4 {
		t.Errorf("movies total = %d, want 4", snap.Total)
	}
}

func TestStore_SpanishCinema(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	_, _ = s.SetCategory(models.CategoryBooks)
	_, _ = s.SetSubcategory("poetry")

	snap, err := s.SetSpanishCinemaOnly(true)
	if err != nil {
		t.Fatal(err)
	}
	f := snap.State.Filter
	if f.Category != models.CategoryMovies || f.Subcategory != "" || !f.SpanishCinemaOnly {
		t.Errorf("filter = %+v, want movies without subcategory", f)
	}
	if !reflect.DeepEqual(snap.Items, []string{"movies_1", "movies_3"}) {
		t.Errorf("Items = %v", snap.Items)
	}

	_, _ = s.SetSubcategory("drama")
	snap, _ = s.SetSpanishCinemaOnly(true)
	if snap.State.Filter.Subcategory != "drama" {
		t.Error("a movie subcategory must survive enabling Spanish cinema")
	}

	snap, _ = s.SetCategory(models.CategoryPodcasts)
	if snap.State.Filter.SpanishCinemaOnly {
		t.Error("leaving movies must clear Spanish cinema")
	}
}

func TestStore_Languages(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	snap, _ := s.ToggleLanguage("EN")
	if !reflect.DeepEqual(snap.State.Filter.Languages, []string{"en"}) || snap.Total != 3 {
		t.Errorf("languages=%v total=%d", snap.State.Filter.Languages, snap.Total)
	}
	snap, _ = s.ToggleLanguage("en")
	if len(snap.State.Filter.Languages) != 0 || snap.Total != 6 {
		t.Errorf("toggle off: languages=%v total=%d", snap.State.Filter.Languages, snap.Total)
	}
	snap, _ = s.SetLanguages([]string{"es", " ES ", "", "en"})
	if !reflect.DeepEqual(snap.State.Filter.Languages, []string{"es", "en"}) {
		t.Errorf("SetLanguages normalized to %v", snap.State.Filter.Languages)
	}
	if _, err := s.ToggleLanguage(" "); !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("expected ErrInvalidLanguage, got %v", err)
	}
}

func TestStore_OtherFilters(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	snap, _ := s.SetMasterpieceOnly(true)
	if !reflect.DeepEqual(snap.Items, []string{"movies_1", "books_4"}) {
		t.Errorf("masterpiece items = %v", snap.Items)
	}
	_, _ = s.SetMasterpieceOnly(false)

	snap, _ = s.SetQuery("  rayuela ")
	if snap.State.Filter.Query != "rayuela" || snap.Total != 1 {
		t.Errorf("query: %q total=%d", snap.State.Filter.Query, snap.Total)
	}

	if _, err := s.SetSort("shuffle"); !errors.Is(err, ErrInvalidSort) {
		t.Errorf("expected ErrInvalidSort, got %v", err)
	}
	if _, err := s.SetUILanguage("fr"); !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("expected ErrInvalidLanguage, got %v", err)
	}
	snap, _ = s.SetUILanguage("en-GB")
	if snap.State.Filter.UILanguage != models.LanguageEN {
		t.Errorf("UILanguage = %s", snap.State.Filter.UILanguage)
	}

	_, _ = s.SetCategory(models.CategoryBooks)
	snap, _ = s.ResetFilters()
	if snap.Total != 6 || snap.State.Filter.Query != "" || snap.State.Filter.Category != "" {
		t.Errorf("reset filter = %+v", snap.State.Filter)
	}
	if snap.State.Filter.UILanguage != models.LanguageEN {
		t.Error("reset must keep the UI language")
	}
}

func TestStore_Navigation(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	if _, err := s.ShowDetail("movies_99"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	_, _ = s.ShowCoffee()
	snap, err := s.ShowDetail("movies_2")
	if err != nil {
		t.Fatal(err)
	}
	nav := snap.State.Navigation
	if nav.View != ViewDetail || nav.SelectedID != "movies_2" || nav.PreviousView != ViewCoffee {
		t.Errorf("nav = %+v", nav)
	}

	// Detail over detail keeps the original return view.
	snap, _ = s.ShowDetail("books_4")
	if snap.State.Navigation.PreviousView != ViewCoffee {
		t.Errorf("PreviousView = %s, want coffee", snap.State.Navigation.PreviousView)
	}

	snap, _ = s.CloseDetail()
	if snap.State.Navigation.View != ViewCoffee || snap.State.Navigation.SelectedID != "" {
		t.Errorf("after close nav = %+v", snap.State.Navigation)
	}

	snap, _ = s.ShowHowToDownload()
	if snap.State.Navigation.View != ViewHowToDownload {
		t.Errorf("View = %s", snap.State.Navigation.View)
	}
	snap, _ = s.GoHome()
	if snap.State.Navigation.View != ViewHome {
		t.Errorf("View = %s", snap.State.Navigation.View)
	}

	snap, _ = s.CloseDetail()
	if snap.State.Navigation.View != ViewHome {
		t.Error("CloseDetail outside detail should stay put")
	}

	if _, err := s.Navigate("settings", ""); !errors.Is(err, ErrInvalidView) {
		t.Errorf("expected ErrInvalidView, got %v", err)
	}
}

func TestStore_SubscribeOrderAndUnsubscribe(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	var order []string
	var versions []uint64
	unsubA := s.Subscribe(func(snap Snapshot) {
		order = append(order, "a")
		versions = append(versions, snap.State.Version)
	})
	s.Subscribe(func(Snapshot) { order = append(order, "b") })

	_, _ = s.SetMasterpieceOnly(true)
	unsubA()
	unsubA()
	_, _ = s.SetMasterpieceOnly(false)

	if !reflect.DeepEqual(order, []string{"a", "b", "b"}) {
		t.Errorf("order = %v", order)
	}
	if !reflect.DeepEqual(versions, []uint64{1}) {
		t.Errorf("versions = %v", versions)
	}
}

func TestStore_ApplyPatchSingleNotification(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	var calls int
	s.Subscribe(func(Snapshot) { calls++ })

	cat := models.CategoryBooks
	sub := "novel"
	lang := models.LanguageEN
	view := ViewDetail
	gid := "books_4"
	snap, err := s.Apply(Patch{Category: &cat, Subcategory: &sub, UILanguage: &lang, View: &view, SelectedID: &gid})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("notifications = %d, want 1", calls)
	}
	if snap.Change != ChangePatch || snap.State.Version != 1 {
		t.Errorf("change=%s version=%d", snap.Change, snap.State.Version)
	}
	if !reflect.DeepEqual(snap.Items, []string{"books_4"}) || snap.State.Navigation.SelectedID != "books_4" {
		t.Errorf("snap = %+v", snap)
	}

	bad := "drama"
	q := "ignored"
	if _, err := s.Apply(Patch{Subcategory: &bad, Query: &q}); !errors.Is(err, ErrInvalidSubcategory) {
		t.Errorf("expected ErrInvalidSubcategory, got %v", err)
	}
	if s.State().Filter.Query != "" || calls != 1 {
		t.Error("a rejected patch must not apply any field")
	}

	empty := ""
	snap, _ = s.Apply(Patch{SelectedID: &empty})
	if snap.State.Navigation.View != ViewHome {
		t.Errorf("clearing selectedId should close detail, got %+v", snap.State.Navigation)
	}
}

func TestStore_ResyncAfterCatalogReload(t *testing.T) {
	t.Parallel()

	s, h := newTestStore(t)
	_, _ = s.SetCategory(models.CategoryMovies)
	_, _ = s.ShowDetail("movies_2")

	items := testItems()
	h.p.Store(testCatalog(t, items[:1]))

	snap, err := s.Resync()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Change != ChangeCatalog || snap.Total != 1 {
		t.Errorf("change=%s total=%d", snap.Change, snap.Total)
	}
	if snap.State.Navigation.View != ViewHome || snap.State.Navigation.SelectedID != "" {
		t.Errorf("missing selection should return home, nav=%+v", snap.State.Navigation)
	}
}

func TestRestoreStore_RepairsState(t *testing.T) {
	t.Parallel()

	c := testCatalog(t, testItems())
	st := State{
		Filter:     FilterState{Category: "cooking", Subcategory: "x", SpanishCinemaOnly: true},
		Navigation: NavigationState{View: ViewDetail, SelectedID: "movies_404"},
		Version:    7,
	}
	s := RestoreStore("r", func() *catalog.Catalog { return c }, st)
	got := s.State()
	if got.Filter.Category != "" || got.Filter.Subcategory != "" || got.Filter.SpanishCinemaOnly {
		t.Errorf("filter not repaired: %+v", got.Filter)
	}
	if got.Navigation.View != ViewHome {
		t.Errorf("navigation not repaired: %+v", got.Navigation)
	}
	if got.Version != 7 {
		t.Errorf("version = %d, want 7", got.Version)
	}
}

func TestStore_CatalogNotLoaded(t *testing.T) {
	t.Parallel()

	s := NewStore("x", func() *catalog.Catalog { return nil }, "")
	if _, err := s.SetQuery("a"); !errors.Is(err, ErrCatalogNotLoaded) {
		t.Errorf("expected ErrCatalogNotLoaded, got %v", err)
	}
}
