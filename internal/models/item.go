// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package models

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Category identifies a catalog section.
type Category string

const (
	CategoryMovies        Category = "movies"
	CategorySeries        Category = "series"
	CategoryDocumentaries Category = "documentaries"
	CategoryBooks         Category = "books"
	CategoryComics        Category = "comics"
	CategoryMusic         Category = "music"
	CategoryVideogames    Category = "videogames"
	CategoryBoardgames    Category = "boardgames"
	CategoryPodcasts      Category = "podcasts"
)

// AllCategories returns the built-in categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryMovies, CategorySeries, CategoryDocumentaries, CategoryBooks, CategoryComics,
		CategoryMusic, CategoryVideogames, CategoryBoardgames, CategoryPodcasts,
	}
}

// ItemID is an item identifier that is unique only within its category.
// Catalog files use both numbers and strings, so both decode.
type ItemID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id must be a number or string: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

// Year is a release year. Numeric strings are accepted; anything else
// decodes to zero (unknown).
type Year int

// UnmarshalJSON accepts a number, a numeric string or null.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			*y = 0
			return nil
		}
		*y = Year(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a number: %w", err)
	}
	*y = Year(int(n))
	return nil
}

// Item is one recommendation.
//
// Example (source file):
//
//	{
//	  "id": 7,
//	  "title": {"es": "El viaje de Chihiro", "en": "Spirited Away"},
//	  "description": "...",
//	  "subcategory": "animation",
//	  "image": "https://img.example/chihiro.jpg",
//	  "director": "Hayao Miyazaki",
//	  "year": 2001,
//	  "language": "ja",
//	  "masterpiece": true,
//	  "tags": ["ghibli", "fantasy"]
//	}
//
// GlobalID is filled in by the catalog loader ("movies_7").
type Item struct {
	ID          ItemID        `json:"id"`
	GlobalID    string        `json:"globalId,omitempty"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Category    Category      `json:"category"`
	Subcategory string        `json:"subcategory,omitempty"`
	Image       string        `json:"image,omitempty"`
	Masterpiece bool          `json:"masterpiece,omitempty"`
	Tags        []string      `json:"tags,omitempty"`

	// Language is the original language of the work (ISO 639-1).
	Language string `json:"language,omitempty"`

	// Spanish marks Spanish cinema regardless of language.
	Spanish bool `json:"spanish,omitempty"`

	Director  string `json:"director,omitempty"`
	Author    string `json:"author,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Developer string `json:"developer,omitempty"`
	Host      string `json:"host,omitempty"`
	Year      Year   `json:"year,omitempty"`

	// Feed is the RSS/Atom URL of a podcast.
	Feed string `json:"feed,omitempty"`

	// Extra holds category-specific fields that are not modeled above.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownItemFields are the JSON keys decoded into Item fields.
var knownItemFields = map[string]struct{}{
	"id": {}, "globalId": {}, "title": {}, "description": {}, "category": {},
	"subcategory": {}, "image": {}, "masterpiece": {}, "tags": {}, "language": {},
	"spanish": {}, "director": {}, "author": {}, "artist": {}, "developer": {},
	"host": {}, "year": {}, "feed": {},
}

type itemFields Item

// UnmarshalJSON decodes the modeled fields and keeps the rest in Extra.
func (i *Item) UnmarshalJSON(data []byte) error {
	var f itemFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range knownItemFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		f.Extra = raw
	} else {
		f.Extra = nil
	}

	*i = Item(f)
	return nil
}

// MarshalJSON writes the modeled fields followed by Extra in key order.
// Extra keys never override modeled fields.
//
//nolint:gocritic // value receiver so both Item and *Item encode with extras
func (i Item) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(itemFields(i))
	if err != nil {
		return nil, err
	}
	if len(i.Extra) == 0 {
		return base, nil
	}

	keys := make([]string, 0, len(i.Extra))
	for k := range i.Extra {
		if _, known := knownItemFields[k]; !known {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return base, nil
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Grow(len(base) + 32*len(keys))
	buf.Write(base[:len(base)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(i.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MakeGlobalID builds the catalog-wide identifier for an item.
func MakeGlobalID(cat Category, id ItemID) string {
	return string(cat) + "_" + string(id)
}

// ParseGlobalID splits a global id into category and item id.
// Item ids may themselves contain underscores, so the split is on the first one.
func ParseGlobalID(globalID string) (Category, ItemID, bool) {
	i := strings.IndexByte(globalID, '_')
	if i <= 0 || i == len(globalID)-1 {
		return "", "", false
	}
	return Category(globalID[:i]), ItemID(globalID[i+1:]), true
}

// Creators returns the non-empty creator fields in a fixed order.
func (i *Item) Creators() []string {
	var out []string
	for _, c := range []string{i.Director, i.Author, i.Artist, i.Developer, i.Host} {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// IsSpanishCinema reports whether the item is a movie flagged as Spanish
// cinema or originally in Spanish.
func (i *Item) IsSpanishCinema() bool {
	if i.Category != CategoryMovies {
		return false
	}
	return i.Spanish || strings.EqualFold(i.Language, "es")
}
