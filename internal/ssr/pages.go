// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package ssr

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/masterpiece/internal/api"
	"github.com/tomtom215/masterpiece/internal/catalog"
	"github.com/tomtom215/masterpiece/internal/config"
	"github.com/tomtom215/masterpiece/internal/filter"
	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/middleware"
	"github.com/tomtom215/masterpiece/internal/models"
	"github.com/tomtom215/masterpiece/internal/related"
	"github.com/tomtom215/masterpiece/internal/state"
	"github.com/tomtom215/masterpiece/internal/validation"
)

// Deps are the services the pages read from.
type Deps struct {
	Catalog *catalog.Service
	States  *state.Manager
	Related *related.Engine
	Config  *config.Config
}

// Pages serves the server-rendered HTML.
type Pages struct {
	catalog   *catalog.Service
	states    *state.Manager
	related   *related.Engine
	config    *config.Config
	templates map[string]*template.Template
}

// New parses the embedded templates.
func New(d Deps) (*Pages, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if d.Config == nil {
		d.Config = config.Defaults()
	}
	if d.Related == nil {
		d.Related = related.NewEngine(related.Config{})
	}
	return &Pages{
		catalog:   d.Catalog,
		states:    d.States,
		related:   d.Related,
		config:    d.Config,
		templates: tmpl,
	}, nil
}

// Mount registers the page routes.
func (p *Pages) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(SecurityHeaders)
		r.Use(api.NoStore)
		r.Get("/", p.Home)
		r.Get("/item/{globalId}", p.Detail)
		r.Get("/coffee", p.Coffee)
		r.Get("/how-to-download", p.HowToDownload)
	})
}

// pageData is what every template receives.
type pageData struct {
	Lang  models.Language
	Nonce string
	Path  string

	Categories []api.CategoryView
	Filter     state.FilterState
	State      api.StateResponse

	Items      []api.ItemView
	Pagination models.PaginationInfo
	PrevURL    string
	NextURL    string

	Item    *api.ItemView
	Related []api.RelatedView

	Status  int
	Message string
}

// Home renders the filtered list. Filter query parameters present in the
// URL are applied to the session first.
//
// Query Parameters:
//   - category, subcategory, languages, masterpiece, spanish_cinema, q, sort, lang
//   - offset: first item shown
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	lang := p.language(r)
	c := p.catalogOrNil()
	if c == nil {
		p.renderError(w, r, lang, http.StatusServiceUnavailable, state.ErrCatalogNotLoaded)
		return
	}

	patch, err := patchFromQuery(r.URL.Query())
	if err != nil {
		p.renderError(w, r, lang, http.StatusBadRequest, err)
		return
	}
	offset, err := offsetParam(r.URL.Query())
	if err != nil {
		p.renderError(w, r, lang, http.StatusBadRequest, err)
		return
	}

	store, err := p.store(r, lang)
	if err != nil {
		p.renderError(w, r, lang, statusFor(err), err)
		return
	}
	if store.State().Navigation.View != state.ViewHome {
		home := state.ViewHome
		patch.View = &home
	}

	snap := store.Snapshot()
	if !patch.Empty() {
		if snap, err = store.Apply(patch); err != nil {
			p.renderError(w, r, lang, statusFor(err), err)
			return
		}
	}
	lang = snap.State.Filter.UILanguage

	list := filter.Apply(c.Items(), snap.State.Filter.Criteria())
	page, info := filter.Paginate(list, offset, p.config.API.DefaultPageSize)

	data := p.baseData(r, c, snap)
	data.Items = api.NewItemViews(page, lang)
	data.Pagination = info
	if info.Offset > 0 {
		data.PrevURL = pageURL(max(info.Offset-info.Limit, 0))
	}
	if info.HasMore {
		data.NextURL = pageURL(info.Offset + info.Limit)
	}
	p.render(w, r, http.StatusOK, pageHome, data)
}

// Detail renders one item and its related items.
func (p *Pages) Detail(w http.ResponseWriter, r *http.Request) {
	lang := p.language(r)
	c := p.catalogOrNil()
	if c == nil {
		p.renderError(w, r, lang, http.StatusServiceUnavailable, state.ErrCatalogNotLoaded)
		return
	}

	globalID := chi.URLParam(r, "globalId")
	if _, _, ok := models.ParseGlobalID(globalID); !ok {
		p.renderError(w, r, lang, http.StatusNotFound, state.ErrItemNotFound)
		return
	}

	store, err := p.store(r, lang)
	if err != nil {
		p.renderError(w, r, lang, statusFor(err), err)
		return
	}
	if err := applyQueryLanguage(store, r); err != nil {
		p.renderError(w, r, lang, statusFor(err), err)
		return
	}
	snap, err := store.ShowDetail(globalID)
	if err != nil {
		p.renderError(w, r, lang, statusFor(err), err)
		return
	}
	lang = snap.State.Filter.UILanguage

	it, ok := c.Lookup(globalID)
	if !ok {
		p.renderError(w, r, lang, http.StatusNotFound, state.ErrItemNotFound)
		return
	}

	data := p.baseData(r, c, snap)
	view := api.NewItemView(&it, lang)
	data.Item = &view

	scored, err := p.related.Related(c, globalID, p.config.Related.DefaultLimit)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("global_id", globalID).Msg("Related items unavailable")
	}
	data.Related = api.NewRelatedViews(scored, lang)

	p.render(w, r, http.StatusOK, pageDetail, data)
}

// Coffee renders the support page.
func (p *Pages) Coffee(w http.ResponseWriter, r *http.Request) {
	p.staticView(w, r, state.ViewCoffee, pageCoffee)
}

// HowToDownload renders the download help page.
func (p *Pages) HowToDownload(w http.ResponseWriter, r *http.Request) {
	p.staticView(w, r, state.ViewHowToDownload, pageHowToDownload)
}

func (p *Pages) staticView(w http.ResponseWriter, r *http.Request, view state.View, page string) {
	lang := p.language(r)
	c := p.catalogOrNil()
	if c == nil {
		p.renderError(w, r, lang, http.StatusServiceUnavailable, state.ErrCatalogNotLoaded)
		return
	}

	store, err := p.store(r, lang)
	if err != nil {
		p.renderError(w, r, lang, statusFor(err), err)
		return
	}
	if err := applyQueryLanguage(store, r); err != nil {
		p.renderError(w, r, lang, statusFor(err), err)
		return
	}
	snap, err := store.Navigate(view, "")
	if err != nil {
		p.renderError(w, r, lang, statusFor(err), err)
		return
	}
	p.render(w, r, http.StatusOK, page, p.baseData(r, c, snap))
}

func (p *Pages) baseData(r *http.Request, c *catalog.Catalog, snap state.Snapshot) *pageData {
	lang := snap.State.Filter.UILanguage
	return &pageData{
		Lang:       lang,
		Path:       r.URL.Path,
		Categories: api.NewCategoryViews(c, lang),
		Filter:     snap.State.Filter,
		State:      api.StateMessage(snap),
	}
}

func (p *Pages) renderError(w http.ResponseWriter, r *http.Request, lang models.Language, status int, err error) {
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Page failed")
	}
	p.render(w, r, status, pageError, &pageData{
		Lang:    lang,
		Path:    r.URL.Path,
		Status:  status,
		Message: err.Error(),
	})
}

func (p *Pages) catalogOrNil() *catalog.Catalog {
	if p.catalog == nil {
		return nil
	}
	return p.catalog.Current()
}

// language resolves the page language without creating a session.
func (p *Pages) language(r *http.Request) models.Language {
	var sessionLang models.Language
	if id := middleware.GetSessionID(r.Context()); id != "" && p.states != nil {
		if s, ok := p.states.Peek(id); ok {
			sessionLang = s.State().Filter.UILanguage
		}
	}
	return middleware.ResolveLanguage(r, sessionLang)
}

// store returns the session store. Without a session the page is rendered
// from a throwaway store so it still works behind plain handlers.
func (p *Pages) store(r *http.Request, lang models.Language) (*state.Store, error) {
	id := middleware.GetSessionID(r.Context())
	if id == "" || p.states == nil {
		return state.NewStore("", p.catalogOrNil, lang), nil
	}
	return p.states.Get(r.Context(), id, lang)
}

// applyQueryLanguage persists ?lang= on pages that take no other filter.
func applyQueryLanguage(store *state.Store, r *http.Request) error {
	lang, ok := middleware.QueryLanguage(r)
	if !ok || store.State().Filter.UILanguage == lang {
		return nil
	}
	_, err := store.SetUILanguage(lang)
	return err
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, state.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, state.ErrCatalogNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, state.ErrInvalidCategory),
		errors.Is(err, state.ErrInvalidSubcategory),
		errors.Is(err, state.ErrInvalidView),
		errors.Is(err, state.ErrInvalidSort),
		errors.Is(err, state.ErrInvalidLanguage),
		errors.Is(err, errInvalidParam):
		return http.StatusBadRequest
	}
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// pageURL links another page of the current session filter. The filter
// lives in the session, so only the offset is needed.
func pageURL(offset int) string {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	return "/?" + q.Encode()
}
