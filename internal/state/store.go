// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/filter"
	"github.com/tomtom215/masterpiece/internal/metrics"
	"github.com/tomtom215/masterpiece/internal/models"
)

// CatalogFunc returns the catalog snapshot to filter against.
type CatalogFunc func() *catalog.Catalog

type subscriber struct {
	id uint64
	fn func(Snapshot)
}

// Store is one session's observable view state. It is safe for concurrent
// use. Subscribers are called in registration order after the state lock is
// released; notifications are serialized so subscribers observe versions in
// order. A subscriber must not mutate the store it is subscribed to.
type Store struct {
	id      string
	catalog CatalogFunc

	notifyMu sync.Mutex

	mu      sync.Mutex
	state   State
	items   []string
	subs    []subscriber
	nextSub uint64
	now     func() time.Time
}

// NewStore creates a store with the default state for lang.
func NewStore(sessionID string, cat CatalogFunc, lang models.Language) *Store {
	return RestoreStore(sessionID, cat, State{
		Filter:     DefaultFilter(lang),
		Navigation: NavigationState{View: ViewHome},
	})
}

// RestoreStore creates a store from a persisted state. Values that no longer
// fit the catalog are repaired: an unknown category or subcategory is
// cleared and a missing selected item sends navigation home.
func RestoreStore(sessionID string, cat CatalogFunc, st State) *Store {
	s := &Store{id: sessionID, catalog: cat, now: time.Now}
	st.Filter = st.Filter.clone()
	if st.Filter.Sort == "" {
		st.Filter.Sort = filter.SortDefault
	}
	if st.Filter.UILanguage == "" {
		st.Filter.UILanguage = models.DefaultLanguage
	}
	if st.Navigation.View == "" {
		st.Navigation.View = ViewHome
	}
	if c := cat(); c != nil {
		repair(&st, c)
		s.items = filter.GlobalIDs(filter.Apply(c.Items(), st.Filter.Criteria()))
	}
	s.state = st
	return s
}

// repair makes st consistent with c.
func repair(st *State, c *catalog.Catalog) {
	f := &st.Filter
	if f.Category != "" && !c.Taxonomy().HasCategory(f.Category) {
		f.Category, f.Subcategory = "", ""
	}
	if f.Subcategory != "" && !subcategoryValid(c, f.Category, f.Subcategory) {
		f.Subcategory = ""
	}
	if f.SpanishCinemaOnly && f.Category != models.CategoryMovies {
		f.SpanishCinemaOnly = false
	}
	if st.Navigation.SelectedID != "" && !c.Has(st.Navigation.SelectedID) {
		st.Navigation = NavigationState{View: ViewHome}
	}
	if st.Navigation.View == ViewDetail && st.Navigation.SelectedID == "" {
		st.Navigation = NavigationState{View: ViewHome}
	}
}

// subcategoryValid reports whether sub is a taxonomy subcategory of cat.
// Subcategories that only appear in the data are not selectable.
func subcategoryValid(c *catalog.Catalog, cat models.Category, sub string) bool {
	return cat != "" && c.Taxonomy().Valid(cat, sub)
}

// ID returns the session id.
func (s *Store) ID() string { return s.id }

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Filter = st.Filter.clone()
	return st
}

// Snapshot returns the current state and filtered items.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked("")
}

func (s *Store) snapshotLocked(change Change) Snapshot {
	st := s.state
	st.Filter = st.Filter.clone()
	return Snapshot{
		SessionID: s.id,
		State:     st,
		Items:     append([]string(nil), s.items...),
		Total:     len(s.items),
		Change:    change,
	}
}

// Subscribe registers fn for every change and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// update applies fn to a copy of the state. When fn fails nothing changes
// and nobody is notified.
func (s *Store) update(change Change, fn func(st *State, c *catalog.Catalog) error) (Snapshot, error) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	c := s.catalog()
	if c == nil {
		return Snapshot{}, ErrCatalogNotLoaded
	}

	s.mu.Lock()
	next := s.state
	next.Filter = next.Filter.clone()
	if err := fn(&next, c); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	next.Version = s.state.Version + 1
	next.UpdatedAt = s.now()
	s.state = next
	s.items = filter.GlobalIDs(filter.Apply(c.Items(), next.Filter.Criteria()))
	snap := s.snapshotLocked(change)
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	metrics.StateChanges.WithLabelValues(string(change)).Inc()
	for _, sub := range subs {
		sub.fn(snap)
	}
	return snap, nil
}

// Filter slice operations.

// SetCategory selects a category, or all categories when cat is empty. The
// subcategory is cleared; leaving movies also clears the Spanish cinema
// toggle.
func (s *Store) SetCategory(cat models.Category) (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, c *catalog.Catalog) error {
		return setCategory(&st.Filter, c, cat)
	})
}

// SetSubcategory narrows the current category. Empty clears it.
func (s *Store) SetSubcategory(sub string) (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, c *catalog.Catalog) error {
		return setSubcategory(&st.Filter, c, sub)
	})
}

// ToggleLanguage adds code to the language filter, or removes it if present.
func (s *Store) ToggleLanguage(code string) (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, _ *catalog.Catalog) error {
		code = normalizeLanguageCode(code)
		if code == "" {
			return fmt.Errorf("%w: empty language code", ErrInvalidLanguage)
		}
		for i, l := range st.Filter.Languages {
			if l == code {
				st.Filter.Languages = append(st.Filter.Languages[:i], st.Filter.Languages[i+1:]...)
				return nil
			}
		}
		st.Filter.Languages = append(st.Filter.Languages, code)
		return nil
	})
}

// SetLanguages replaces the language filter. An empty list matches all.
func (s *Store) SetLanguages(codes []string) (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, _ *catalog.Catalog) error {
		st.Filter.Languages = normalizeLanguages(codes)
		return nil
	})
}

// SetMasterpieceOnly toggles the masterpiece filter.
func (s *Store) SetMasterpieceOnly(on bool) (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, _ *catalog.Catalog) error {
		st.Filter.MasterpieceOnly = on
		return nil
	})
}

// SetSpanishCinemaOnly toggles the Spanish cinema filter. Enabling it moves
// the filter to movies and drops a subcategory movies do not have.
func (s *Store) SetSpanishCinemaOnly(on bool) (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, c *catalog.Catalog) error {
		setSpanishCinema(&st.Filter, c, on)
		return nil
	})
}

// SetQuery sets the free-text search.
func (s *Store) SetQuery(q string) (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, _ *catalog.Catalog) error {
		st.Filter.Query = strings.TrimSpace(q)
		return nil
	})
}

// SetSort sets the result order.
func (s *Store) SetSort(order filter.Sort) (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, _ *catalog.Catalog) error {
		v, ok := filter.ParseSort(string(order))
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidSort, order)
		}
		st.Filter.Sort = v
		return nil
	})
}

// SetUILanguage sets the display language.
func (s *Store) SetUILanguage(lang models.Language) (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, _ *catalog.Catalog) error {
		l, ok := models.ParseLanguage(string(lang))
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
		}
		st.Filter.UILanguage = l
		return nil
	})
}

// ResetFilters restores the default filter, keeping the UI language.
func (s *Store) ResetFilters() (Snapshot, error) {
	return s.update(ChangeFilter, func(st *State, _ *catalog.Catalog) error {
		st.Filter = DefaultFilter(st.Filter.UILanguage)
		return nil
	})
}

// Navigation slice operations.

// ShowDetail opens the detail view for globalID over the current view.
func (s *Store) ShowDetail(globalID string) (Snapshot, error) {
	return s.update(ChangeNavigation, func(st *State, c *catalog.Catalog) error {
		return navigate(&st.Navigation, c, ViewDetail, globalID)
	})
}

// CloseDetail returns to the view the detail was opened from, or home.
func (s *Store) CloseDetail() (Snapshot, error) {
	return s.update(ChangeNavigation, func(st *State, _ *catalog.Catalog) error {
		closeDetail(&st.Navigation)
		return nil
	})
}

// ShowCoffee opens the support page.
func (s *Store) ShowCoffee() (Snapshot, error) { return s.Navigate(ViewCoffee, "") }

// ShowHowToDownload opens the download help page.
func (s *Store) ShowHowToDownload() (Snapshot, error) { return s.Navigate(ViewHowToDownload, "") }

// GoHome returns to the list.
func (s *Store) GoHome() (Snapshot, error) { return s.Navigate(ViewHome, "") }

// Navigate switches to view. globalID is required for the detail view and
// ignored otherwise.
func (s *Store) Navigate(view View, globalID string) (Snapshot, error) {
	return s.update(ChangeNavigation, func(st *State, c *catalog.Catalog) error {
		return navigate(&st.Navigation, c, view, globalID)
	})
}

// Resync recomputes the items against a reloaded catalog and repairs state
// that no longer fits it.
func (s *Store) Resync() (Snapshot, error) {
	return s.update(ChangeCatalog, func(st *State, c *catalog.Catalog) error {
		repair(st, c)
		return nil
	})
}

// Slice helpers shared by the setters and Apply.

func setCategory(f *FilterState, c *catalog.Catalog, cat models.Category) error {
	if cat != "" && !c.Taxonomy().HasCategory(cat) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, cat)
	}
	f.Category = cat
	f.Subcategory = ""
	if cat != models.CategoryMovies {
		f.SpanishCinemaOnly = false
	}
	return nil
}

func setSubcategory(f *FilterState, c *catalog.Catalog, sub string) error {
	sub = strings.TrimSpace(sub)
	if sub != "" && !subcategoryValid(c, f.Category, sub) {
		return fmt.Errorf("%w: %q in %q", ErrInvalidSubcategory, sub, f.Category)
	}
	f.Subcategory = sub
	return nil
}

func setSpanishCinema(f *FilterState, c *catalog.Catalog, on bool) {
	f.SpanishCinemaOnly = on
	if !on {
		return
	}
	f.Category = models.CategoryMovies
	if f.Subcategory != "" && !subcategoryValid(c, models.CategoryMovies, f.Subcategory) {
		f.Subcategory = ""
	}
}

func navigate(n *NavigationState, c *catalog.Catalog, view View, globalID string) error {
	if _, ok := ParseView(string(view)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidView, view)
	}
	if view != ViewDetail {
		*n = NavigationState{View: view}
		return nil
	}
	if globalID == "" || !c.Has(globalID) {
		return fmt.Errorf("%w: %q", ErrItemNotFound, globalID)
	}
	prev := n.View
	if prev == ViewDetail {
		prev = n.PreviousView
	}
	*n = NavigationState{View: ViewDetail, SelectedID: globalID, PreviousView: prev}
	return nil
}

func closeDetail(n *NavigationState) {
	if n.View != ViewDetail {
		return
	}
	back := n.PreviousView
	if back == "" || back == ViewDetail {
		back = ViewHome
	}
	*n = NavigationState{View: back}
}

func normalizeLanguageCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func normalizeLanguages(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = normalizeLanguageCode(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
