// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package middleware

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/tomtom215/masterpiece/internal/models"
)

// LanguageParam is the query parameter that selects the content language.
const LanguageParam = "lang"

// supported is ordered so the matcher's fallback is the default language.
var (
	supported = []models.Language{models.LanguageES, models.LanguageEN}
	matcher   = language.NewMatcher([]language.Tag{language.Spanish, language.English})
)

// QueryLanguage returns the language named by ?lang=, if valid.
func QueryLanguage(r *http.Request) (models.Language, bool) {
	v := r.URL.Query().Get(LanguageParam)
	if v == "" {
		return "", false
	}
	return models.ParseLanguage(v)
}

// AcceptLanguage matches the Accept-Language header against the supported
// languages. It returns the default language when nothing matches.
func AcceptLanguage(r *http.Request) models.Language {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return models.DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return models.DefaultLanguage
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return models.DefaultLanguage
	}
	return supported[idx]
}

// ResolveLanguage picks the content language for r: ?lang= first, then the
// session's language when known, then Accept-Language.
func ResolveLanguage(r *http.Request, session models.Language) models.Language {
	if lang, ok := QueryLanguage(r); ok {
		return lang
	}
	if session != "" {
		return session
	}
	return AcceptLanguage(r)
}
