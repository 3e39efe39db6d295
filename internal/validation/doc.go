// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the process. On top of the
// built-in tags it registers the catalog's own rules:
//
//	category     a known catalog category ("movies", "podcasts", ...)
//	globalid     a "<category>_<id>" identifier with a known category
//	uilang       a supported interface language ("es" or "en")
//	sort         a supported list ordering
//
// Field names in errors come from the json tag, so a failing query
// parameter is reported the way the client spelled it:
//
//	type ItemsRequest struct {
//	    Category string `json:"category" validate:"omitempty,category"`
//	    Limit    int    `json:"limit" validate:"min=1,max=200"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// ToAPIError always produces the VALIDATION_ERROR code. A single failure
// carries field, tag and value in Details; several failures are listed
// under Details["fields"].
package validation
