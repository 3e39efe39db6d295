// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

/*
handler_context.go - Request Context Helpers

HandlerContext gathers what every handler needs from a request: the
session cookie value, the request ID and the resolved UI language.

Usage:

	func (h *Handler) SomeHandler(w http.ResponseWriter, r *http.Request) {
	    hctx := h.handlerContext(r)
	    items := NewItemViews(list, hctx.Lang)
	    ...
	}

Read-only handlers use the live session only to pick the language and
never create a session store. State handlers call Store, which restores or
creates it.
*/

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/masterpiece/internal/middleware"
	"github.com/tomtom215/masterpiece/internal/models"
	"github.com/tomtom215/masterpiece/internal/state"
)

// ErrNoSession is returned when a state route is reached without the
// session middleware.
var ErrNoSession = errors.New("no session")

// HandlerContext provides request-scoped values for handlers.
type HandlerContext struct {
	// SessionID is the mp_session cookie value. Empty only when the
	// session middleware is not installed.
	SessionID string

	// RequestID is the unique identifier for this request.
	RequestID string

	// Lang is the UI language: ?lang=, then the session, then
	// Accept-Language, then the default.
	Lang models.Language

	states *state.Manager
	ctx    context.Context
}

// handlerContext builds the context for r without touching the repository.
func (h *Handler) handlerContext(r *http.Request) *HandlerContext {
	ctx := r.Context()
	hctx := &HandlerContext{
		SessionID: middleware.GetSessionID(ctx),
		RequestID: middleware.GetRequestID(ctx),
		states:    h.states,
		ctx:       ctx,
	}

	var sessionLang models.Language
	if h.states != nil && hctx.SessionID != "" {
		if s, ok := h.states.Peek(hctx.SessionID); ok {
			sessionLang = s.State().Filter.UILanguage
		}
	}
	hctx.Lang = middleware.ResolveLanguage(r, sessionLang)
	return hctx
}

// Store returns the session's view state store, restoring or creating it.
// A new store starts with the resolved language.
func (hctx *HandlerContext) Store() (*state.Store, error) {
	if hctx.states == nil || hctx.SessionID == "" {
		return nil, ErrNoSession
	}
	return hctx.states.Get(hctx.ctx, hctx.SessionID, hctx.Lang)
}
