// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Language is a content language.
type Language string

const (
	LanguageES Language = "es"
	LanguageEN Language = "en"
)

// DefaultLanguage is used when nothing else selects one.
const DefaultLanguage = LanguageES

// Languages lists the supported languages in preference order.
var Languages = []Language{LanguageES, LanguageEN}

// ParseLanguage maps a BCP 47 tag such as "en-US" or "ES" to a Language.
// Unknown tags return DefaultLanguage and false.
func ParseLanguage(tag string) (Language, bool) {
	base := strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}
	switch Language(base) {
	case LanguageES:
		return LanguageES, true
	case LanguageEN:
		return LanguageEN, true
	default:
		return DefaultLanguage, false
	}
}

// Other returns the opposite language.
func (l Language) Other() Language {
	if l == LanguageEN {
		return LanguageES
	}
	return LanguageEN
}

// LocalizedText holds a text in both languages.
//
// In catalog JSON it is either a plain string, used for every language:
//
//	"title": "Amélie"
//
// or an object with one entry per language:
//
//	"title": {"es": "El viaje de Chihiro", "en": "Spirited Away"}
type LocalizedText struct {
	ES string
	EN string
}

// Text returns a LocalizedText with the same value in both languages.
func Text(s string) LocalizedText {
	return LocalizedText{ES: s, EN: s}
}

// Get returns the text in lang, falling back to the other language when
// that one is empty.
func (t LocalizedText) Get(lang Language) string {
	primary, secondary := t.ES, t.EN
	if lang == LanguageEN {
		primary, secondary = t.EN, t.ES
	}
	if primary != "" {
		return primary
	}
	return secondary
}

// IsZero reports whether both languages are empty.
func (t LocalizedText) IsZero() bool {
	return t.ES == "" && t.EN == ""
}

// UnmarshalJSON accepts a string, an {es, en} object or null.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = LocalizedText{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case '{':
		var obj struct {
			ES string `json:"es"`
			EN string `json:"en"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*t = LocalizedText{ES: obj.ES, EN: obj.EN}
		return nil
	default:
		return fmt.Errorf("localized text must be a string or an {es, en} object, got %s", truncate(data, 32))
	}
}

// MarshalJSON emits a plain string when only one form is needed.
func (t LocalizedText) MarshalJSON() ([]byte, error) {
	switch {
	case t.ES == t.EN:
		return json.Marshal(t.ES)
	case t.EN == "":
		return json.Marshal(t.ES)
	case t.ES == "":
		return json.Marshal(t.EN)
	}
	return json.Marshal(struct {
		ES string `json:"es"`
		EN string `json:"en"`
	}{t.ES, t.EN})
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
