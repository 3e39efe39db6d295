// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestLocalizedText_Unmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    LocalizedText
		wantErr bool
	}{
		{"plain string", `"Amélie"`, LocalizedText{ES: "Amélie", EN: "Amélie"}, false},
		{"object", `{"es":"El viaje de Chihiro","en":"Spirited Away"}`, LocalizedText{ES: "El viaje de Chihiro", EN: "Spirited Away"}, false},
		{"object missing en", `{"es":"Solo"}`, LocalizedText{ES: "Solo"}, false},
		{"null", `null`, LocalizedText{}, false},
		{"number", `42`, LocalizedText{}, true},
		{"array", `["a"]`, LocalizedText{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got LocalizedText
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLocalizedText_GetFallsBack(t *testing.T) {
	t.Parallel()

	lt := LocalizedText{ES: "Solo español"}
	if got := lt.Get(LanguageEN); got != "Solo español" {
		t.Errorf("Get(en) = %q, want fallback to es", got)
	}
	lt = LocalizedText{ES: "Hola", EN: "Hello"}
	if got := lt.Get(LanguageEN); got != "Hello" {
		t.Errorf("Get(en) = %q, want Hello", got)
	}
}

func TestLocalizedText_Marshal(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Text("Same"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"Same"` {
		t.Errorf("Marshal(equal) = %s, want plain string", out)
	}

	out, err = json.Marshal(LocalizedText{ES: "Hola", EN: "Hello"})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"es":"Hola","en":"Hello"}` {
		t.Errorf("Marshal(distinct) = %s", out)
	}
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Language
		ok    bool
	}{
		{"es", LanguageES, true},
		{"EN", LanguageEN, true},
		{"en-US", LanguageEN, true},
		{"es_ES", LanguageES, true},
		{"fr", DefaultLanguage, false},
		{"", DefaultLanguage, false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLanguage(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestItem_IDFormsAndExtra(t *testing.T) {
	t.Parallel()

	input := `{
		"id": 12,
		"title": "Ok Computer",
		"category": "music",
		"artist": "Radiohead",
		"year": "1997",
		"label": "Parlophone",
		"tracks": [1, 2, 3]
	}`

	var item Item
	if err := json.Unmarshal([]byte(input), &item); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if item.ID != "12" {
		t.Errorf("ID = %q, want 12", item.ID)
	}
	if item.Year != 1997 {
		t.Errorf("Year = %d, want 1997", item.Year)
	}
	if len(item.Extra) != 2 {
		t.Fatalf("Extra has %d keys, want 2: %v", len(item.Extra), item.Extra)
	}
	if string(item.Extra["label"]) != `"Parlophone"` {
		t.Errorf("Extra[label] = %s", item.Extra["label"])
	}

	out, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"label":"Parlophone"`) || !strings.Contains(s, `"tracks":[1, 2, 3]`) && !strings.Contains(s, `"tracks":[1,2,3]`) {
		t.Errorf("Marshal lost extra fields: %s", s)
	}

	var again Item
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-Unmarshal failed: %v", err)
	}
	if again.Artist != "Radiohead" || len(again.Extra) != 2 {
		t.Errorf("round trip mismatch: %+v", again)
	}
}

func TestItem_StringID(t *testing.T) {
	t.Parallel()

	var item Item
	if err := json.Unmarshal([]byte(`{"id":" b-7 ","title":"x"}`), &item); err != nil {
		t.Fatal(err)
	}
	if item.ID != "b-7" {
		t.Errorf("ID = %q, want b-7", item.ID)
	}
	if item.Extra != nil {
		t.Errorf("Extra = %v, want nil", item.Extra)
	}
}

func TestGlobalID(t *testing.T) {
	t.Parallel()

	gid := MakeGlobalID(CategoryMovies, "12")
	if gid != "movies_12" {
		t.Fatalf("MakeGlobalID = %q", gid)
	}
	cat, id, ok := ParseGlobalID("boardgames_a_1")
	if !ok || cat != CategoryBoardgames || id != "a_1" {
		t.Errorf("ParseGlobalID = (%q, %q, %v)", cat, id, ok)
	}
	for _, bad := range []string{"", "movies", "_12", "movies_"} {
		if _, _, ok := ParseGlobalID(bad); ok {
			t.Errorf("ParseGlobalID(%q) should fail", bad)
		}
	}
}

func TestItem_IsSpanishCinema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		item Item
		want bool
	}{
		{Item{Category: CategoryMovies, Spanish: true}, true},
		{Item{Category: CategoryMovies, Language: "ES"}, true},
		{Item{Category: CategoryMovies, Language: "fr"}, false},
		{Item{Category: CategoryBooks, Language: "es"}, false},
	}
	for i, tt := range tests {
		if got := tt.item.IsSpanishCinema(); got != tt.want {
			t.Errorf("case %d: IsSpanishCinema() = %v, want %v", i, got, tt.want)
		}
	}
}
