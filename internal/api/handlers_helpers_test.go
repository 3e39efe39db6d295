// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseCommaSeparated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"es", []string{"es"}},
		{"es, en ,,ja", []string{"es", "en", "ja"}},
		{" , ", nil},
	}
	for _, tt := range tests {
		if got := parseCommaSeparated(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseCommaSeparated(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetParams(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?limit=12&bad=x&flag=true&off=0&nope=yes", nil)

	if v, ok := getIntParam(r, "limit", 5); !ok || v != 12 {
		t.Errorf("limit = %d, %v", v, ok)
	}
	if v, ok := getIntParam(r, "missing", 5); !ok || v != 5 {
		t.Errorf("missing = %d, %v", v, ok)
	}
	if _, ok := getIntParam(r, "bad", 5); ok {
		t.Error("bad int accepted")
	}
	if v, ok := getBoolParam(r, "flag"); !ok || !v {
		t.Errorf("flag = %v, %v", v, ok)
	}
	if v, ok := getBoolParam(r, "off"); !ok || v {
		t.Errorf("off = %v, %v", v, ok)
	}
	if _, ok := getBoolParam(r, "nope"); ok {
		t.Error("yes accepted as bool")
	}
}

func TestGenerateETag(t *testing.T) {
	t.Parallel()

	a := generateETag([]byte(`{"a":1}`))
	b := generateETag([]byte(`{"a":2}`))
	if a == b {
		t.Error("different bodies share an ETag")
	}
	if a != generateETag([]byte(`{"a":1}`)) {
		t.Error("ETag is not stable")
	}
	if !strings.HasPrefix(a, `W/"`) || !strings.HasSuffix(a, `"`) {
		t.Errorf("ETag = %q, want weak form", a)
	}
}

func TestRespondError_Envelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	respondErrorDetails(rec, http.StatusBadRequest, ErrCodeValidation, "limit is not a valid value",
		map[string]interface{}{"field": "limit"}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	resp := decode(t, rec, nil)
	if resp.Status != "error" || resp.Error.Message != "limit is not a valid value" || resp.Error.Details["field"] != "limit" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestRespondSuccess_QueryTime(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	respondSuccess(rec, map[string]int{"n": 1}, time.Now().Add(-5*time.Millisecond))

	var data map[string]int
	resp := decode(t, rec, &data)
	if resp.Status != "success" || data["n"] != 1 {
		t.Errorf("resp = %+v data = %v", resp, data)
	}
	if resp.Metadata.QueryTimeMS < 5 {
		t.Errorf("query_time_ms = %d", resp.Metadata.QueryTimeMS)
	}
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	type body struct {
		View string `json:"view"`
	}
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"ok", `{"view":"home"}`, false},
		{"empty", ``, true},
		{"unknown field", `{"view":"home","x":1}`, true},
		{"trailing object", `{"view":"home"} {"view":"detail"}`, true},
		{"too large", `{"view":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.in))
			var b body
			err := decodeJSONBody(httptest.NewRecorder(), r, &b)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
