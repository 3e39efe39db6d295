// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package filter

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/masterpiece/internal/models"
)

// Fold normalizes s for accent- and case-insensitive matching:
// "Cortázar" and "CORTAZAR" both fold to "cortazar".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

func queryTerms(q string) []string {
	fields := strings.Fields(Fold(q))
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func searchText(it *models.Item) string {
	var b strings.Builder
	for _, s := range []string{it.Title.ES, it.Title.EN, it.Description.ES, it.Description.EN} {
		b.WriteString(s)
		b.WriteByte(' ')
	}
	for _, tag := range it.Tags {
		b.WriteString(tag)
		b.WriteByte(' ')
	}
	for _, c := range it.Creators() {
		b.WriteString(c)
		b.WriteByte(' ')
	}
	return Fold(b.String())
}

func matchesAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

// collatorTag maps a UI language to a collation locale.
func collatorTag(lang models.Language) language.Tag {
	if lang == models.LanguageEN {
		return language.English
	}
	return language.Spanish
}

// sortByTitle sorts stably by the title in lang using locale collation.
// Collators are not safe for concurrent use, so one is built per call.
func sortByTitle(items []models.Item, lang models.Language) {
	if lang == "" {
		lang = models.DefaultLanguage
	}
	col := collate.New(collatorTag(lang), collate.IgnoreCase, collate.Loose)
	keys := make([][]byte, len(items))
	var buf collate.Buffer
	for i := range items {
		keys[i] = append([]byte(nil), col.KeyFromString(&buf, items[i].Title.Get(lang))...)
		buf.Reset()
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return string(keys[idx[a]]) < string(keys[idx[b]])
	})

	sorted := make([]models.Item, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}
