// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/masterpiece/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same instance")
	}
}

type itemsRequest struct {
	Category string   `json:"category" validate:"omitempty,category"`
	GlobalID string   `json:"globalId" validate:"omitempty,globalid"`
	Lang     string   `json:"lang" validate:"omitempty,uilang"`
	Sort     string   `json:"sort" validate:"omitempty,sort"`
	Query    string   `json:"q" validate:"max=10"`
	Tags     []string `json:"tags" validate:"max=2"`
	Limit    int      `json:"limit" validate:"min=1,max=100"`
	Hidden   string   `json:"-" validate:"omitempty,oneof=a b"`
	NoTag    int      `validate:"gte=0"`
}

func valid() itemsRequest {
	return itemsRequest{Limit: 10}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input func(r *itemsRequest)
	}{
		{"zero optional fields", func(r *itemsRequest) {}},
		{"category", func(r *itemsRequest) { r.Category = "podcasts" }},
		{"global id", func(r *itemsRequest) { r.GlobalID = "movies_42" }},
		{"global id with underscore in item id", func(r *itemsRequest) { r.GlobalID = "books_el_quijote" }},
		{"language", func(r *itemsRequest) { r.Lang = "en" }},
		{"language with region", func(r *itemsRequest) { r.Lang = "es-ES" }},
		{"sort", func(r *itemsRequest) { r.Sort = "year_desc" }},
		{"limits", func(r *itemsRequest) { r.Limit = 100; r.Query = "abcdefghij" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := valid()
			tt.input(&req)
			if err := ValidateStruct(&req); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     func(r *itemsRequest)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"unknown category", func(r *itemsRequest) { r.Category = "operas" }, "category", "category", "category must be a known category"},
		{"global id without separator", func(r *itemsRequest) { r.GlobalID = "movies42" }, "globalId", "globalid", "globalId must be a global id of the form category_id"},
		{"global id with unknown category", func(r *itemsRequest) { r.GlobalID = "operas_1" }, "globalId", "globalid", ""},
		{"unsupported language", func(r *itemsRequest) { r.Lang = "fr" }, "lang", "uilang", "lang must be es or en"},
		{"unknown sort", func(r *itemsRequest) { r.Sort = "random" }, "sort", "sort", ""},
		{"query too long", func(r *itemsRequest) { r.Query = "abcdefghijk" }, "q", "max", "q must be at most 10 characters"},
		{"too many tags", func(r *itemsRequest) { r.Tags = []string{"a", "b", "c"} }, "tags", "max", "tags must be at most 2 entries"},
		{"limit too low", func(r *itemsRequest) { r.Limit = 0 }, "limit", "min", "limit must be at least 1"},
		{"json dash uses struct name", func(r *itemsRequest) { r.Hidden = "c" }, "Hidden", "oneof", "Hidden must be one of: a b"},
		{"no json tag uses struct name", func(r *itemsRequest) { r.NoTag = -1 }, "NoTag", "gte", "NoTag must be greater than or equal to 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := valid()
			tt.input(&req)

			err := ValidateStruct(&req)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("got field=%s tag=%s, want field=%s tag=%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && errs[0].Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_SortMessageListsValues(t *testing.T) {
	t.Parallel()

	req := valid()
	req.Sort = "random"
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, s := range []string{"title", "year_asc", "masterpiece_first"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("message %q should mention %q", err.Error(), s)
		}
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	req := valid()
	req.Category = "operas"
	apiErr := ValidateStruct(&req).ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "category" || apiErr.Details["tag"] != "category" {
		t.Errorf("Details = %v", apiErr.Details)
	}
	if apiErr.Details["value"] != "operas" {
		t.Errorf("value = %v", apiErr.Details["value"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	req := itemsRequest{Category: "operas", Limit: 0}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected error")
	}
	apiErr := verr.ToAPIError()

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("fields type = %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if !strings.Contains(apiErr.Message, "; ") {
		t.Errorf("message should join errors: %q", apiErr.Message)
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()

	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message != "Validation failed" {
		t.Errorf("got %+v", apiErr)
	}
	if (&RequestValidationError{}).Error() != "validation failed" {
		t.Error("empty error message mismatch")
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct("not a struct")
	if verr == nil {
		t.Fatal("expected error for non-struct input")
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("field = %s, want unknown", verr.Errors()[0].Field())
	}
}

func TestValidateStruct_EmptyCategoryPointer(t *testing.T) {
	t.Parallel()

	type patch struct {
		Category *string `json:"category,omitempty" validate:"omitempty,category"`
	}
	empty, known, unknown := "", "books", "paintings"

	if err := ValidateStruct(&patch{Category: &empty}); err != nil {
		t.Errorf("empty category should mean all categories: %v", err)
	}
	if err := ValidateStruct(&patch{Category: &known}); err != nil {
		t.Errorf("known category rejected: %v", err)
	}
	if err := ValidateStruct(&patch{Category: &unknown}); err == nil {
		t.Error("unknown category accepted")
	}
}

// Not parallel: replaces the package-wide category set.
func TestSetCategories(t *testing.T) {
	SetCategories([]models.Category{models.CategoryBooks, "courses"})
	t.Cleanup(func() { SetCategories(models.AllCategories()) })

	type req struct {
		Category string `json:"category" validate:"omitempty,category"`
		GlobalID string `json:"globalId" validate:"omitempty,globalid"`
	}
	if err := ValidateStruct(&req{Category: "courses", GlobalID: "courses_1"}); err != nil {
		t.Errorf("custom category rejected: %v", err)
	}
	if err := ValidateStruct(&req{Category: "movies"}); err == nil {
		t.Error("category missing from the set accepted")
	}
}
