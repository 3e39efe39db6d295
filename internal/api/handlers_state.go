// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/masterpiece/internal/models"
	"github.com/tomtom215/masterpiece/internal/state"
	ws "github.com/tomtom215/masterpiece/internal/websocket"
)

// sessionStore returns the caller's store or writes the error response.
func (h *Handler) sessionStore(w http.ResponseWriter, r *http.Request) (*state.Store, bool) {
	s, err := h.handlerContext(r).Store()
	if err != nil {
		respondStateError(w, err)
		return nil, false
	}
	return s, true
}

// respondStateError maps state errors to HTTP responses.
func respondStateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrItemNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Item not found", err)
	case errors.Is(err, state.ErrInvalidCategory),
		errors.Is(err, state.ErrInvalidSubcategory),
		errors.Is(err, state.ErrInvalidView),
		errors.Is(err, state.ErrInvalidSort),
		errors.Is(err, state.ErrInvalidLanguage):
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), err)
	case errors.Is(err, state.ErrCatalogNotLoaded):
		respondError(w, http.StatusServiceUnavailable, ErrCodeService, "Catalog not loaded yet", err)
	case errors.Is(err, ErrNoSession), errors.Is(err, state.ErrSessionNotFound):
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Session cookie is required", err)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update view state", err)
	}
}

func respondSnapshot(w http.ResponseWriter, snap state.Snapshot, start time.Time) {
	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, StateMessage(snap), start)
}

// GetState returns the session's filter and navigation state with the ids
// of the items matching the filter.
//
// Method: GET
// Path: /api/v1/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s, ok := h.sessionStore(w, r)
	if !ok {
		return
	}
	respondSnapshot(w, s.Snapshot(), start)
}

// PatchState applies a partial update to both state slices at once.
//
// Method: PATCH
// Path: /api/v1/state
//
// Request Body: state.Patch, e.g. {"category": "books", "subcategory": "novel"}
func (h *Handler) PatchState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var p state.Patch
	if err := decodeJSONBody(w, r, &p); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), err)
		return
	}
	if apiErr := validateRequest(&p); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	s, ok := h.sessionStore(w, r)
	if !ok {
		return
	}
	if p.Empty() {
		respondSnapshot(w, s.Snapshot(), start)
		return
	}

	snap, err := s.Apply(p)
	if err != nil {
		respondStateError(w, err)
		return
	}
	respondSnapshot(w, snap, start)
}

// Navigate switches the view. The detail view needs a globalId.
//
// Method: POST
// Path: /api/v1/state/navigate
//
// Request Body: {"view": "detail", "globalId": "movies_12"}
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req NavigateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	view, _ := state.ParseView(req.View)
	if view == state.ViewDetail && req.GlobalID == "" {
		respondErrorDetails(w, http.StatusBadRequest, ErrCodeValidation,
			"globalId is required for the detail view",
			map[string]interface{}{"field": "globalId", "tag": "required"}, nil)
		return
	}

	s, ok := h.sessionStore(w, r)
	if !ok {
		return
	}
	snap, err := s.Navigate(view, req.GlobalID)
	if err != nil {
		respondStateError(w, err)
		return
	}
	respondSnapshot(w, snap, start)
}

// ResetState clears every filter except the UI language.
//
// Method: POST
// Path: /api/v1/state/reset
func (h *Handler) ResetState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s, ok := h.sessionStore(w, r)
	if !ok {
		return
	}
	snap, err := s.ResetFilters()
	if err != nil {
		respondStateError(w, err)
		return
	}
	respondSnapshot(w, snap, start)
}

// WebSocket upgrades the connection and pushes state_changed messages for
// the caller's session, starting with the current state.
//
// Method: GET
// Path: /api/v1/ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeService, "WebSocket push is not available", nil)
		return
	}
	s, ok := h.sessionStore(w, r)
	if !ok {
		return
	}
	initial := &ws.Message{Type: ws.MessageTypeStateChanged, Data: StateMessage(s.Snapshot())}
	ws.ServeWS(h.wsHub, w, r, s.ID(), initial)
}

// StateMessage is the payload pushed to a session after every change.
func StateMessage(snap state.Snapshot) StateResponse {
	return StateResponse{Snapshot: snap, Lang: languageOrDefault(snap.State.Filter.UILanguage)}
}

func languageOrDefault(l models.Language) models.Language {
	if l == "" {
		return models.DefaultLanguage
	}
	return l
}

// ForwardStateChanges pushes every snapshot of every session to that
// session's WebSocket clients.
func ForwardStateChanges(states *state.Manager, hub *ws.Hub) {
	states.OnChange(func(snap state.Snapshot) {
		hub.SendToSession(snap.SessionID, ws.MessageTypeStateChanged, StateMessage(snap))
	})
}
