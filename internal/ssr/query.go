// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package ssr

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/masterpiece/internal/filter"
	"github.com/tomtom215/masterpiece/internal/models"
	"github.com/tomtom215/masterpiece/internal/state"
	"github.com/tomtom215/masterpiece/internal/validation"
)

var errInvalidParam = errors.New("invalid query parameter")

// patchFromQuery turns the filter parameters present in q into a patch.
// Absent parameters leave the session untouched; an empty value clears
// the field ("?category=" shows every category).
func patchFromQuery(q url.Values) (state.Patch, error) {
	var p state.Patch

	if _, ok := q["category"]; ok {
		cat := models.Category(strings.TrimSpace(q.Get("category")))
		p.Category = &cat
	}
	if _, ok := q["subcategory"]; ok {
		sub := strings.TrimSpace(q.Get("subcategory"))
		p.Subcategory = &sub
	}
	if _, ok := q["languages"]; ok {
		langs := splitList(q.Get("languages"))
		p.Languages = &langs
	}
	if _, ok := q["q"]; ok {
		query := q.Get("q")
		p.Query = &query
	}
	if _, ok := q["sort"]; ok {
		order := filter.Sort(strings.TrimSpace(q.Get("sort")))
		p.Sort = &order
	}
	if raw := q.Get("lang"); raw != "" {
		lang := models.Language(strings.ToLower(strings.TrimSpace(raw)))
		p.UILanguage = &lang
	}

	var err error
	if p.MasterpieceOnly, err = boolParam(q, "masterpiece"); err != nil {
		return p, err
	}
	if p.SpanishCinemaOnly, err = boolParam(q, "spanish_cinema"); err != nil {
		return p, err
	}

	if verr := validation.ValidateStruct(p); verr != nil {
		return p, verr
	}
	return p, nil
}

func boolParam(q url.Values, key string) (*bool, error) {
	vals, ok := q[key]
	if !ok || len(vals) == 0 {
		return nil, nil
	}
	// Forms send a hidden "false" before the checkbox, so the last value wins.
	raw := strings.TrimSpace(vals[len(vals)-1])
	if raw == "" {
		v := false
		return &v, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %q", errInvalidParam, key, raw)
	}
	return &v, nil
}

func offsetParam(q url.Values) (int, error) {
	raw := strings.TrimSpace(q.Get("offset"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w offset: %q", errInvalidParam, raw)
	}
	return n, nil
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
