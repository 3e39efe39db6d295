// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/masterpiece/internal/models"
)

//go:embed categories.yaml
var defaultTaxonomy []byte

// ErrInvalidTaxonomy is returned for structurally invalid taxonomy files.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// CategoryDef describes one category and its subcategories.
type CategoryDef struct {
	ID            models.Category      `json:"id"`
	Label         models.LocalizedText `json:"label"`
	Subcategories []SubcategoryDef     `json:"subcategories"`
}

// SubcategoryDef describes a subcategory.
type SubcategoryDef struct {
	ID    string               `json:"id"`
	Label models.LocalizedText `json:"label"`
}

// Taxonomy is the ordered category tree.
type Taxonomy struct {
	categories []CategoryDef
	index      map[models.Category]int
	subs       map[models.Category]map[string]struct{}
}

// yamlText decodes a YAML scalar or {es, en} mapping into LocalizedText.
type yamlText models.LocalizedText

func (t *yamlText) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = yamlText(models.Text(node.Value))
		return nil
	case yaml.MappingNode:
		var m struct {
			ES string `yaml:"es"`
			EN string `yaml:"en"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		*t = yamlText{ES: m.ES, EN: m.EN}
		return nil
	default:
		return fmt.Errorf("line %d: label must be a string or an {es, en} mapping", node.Line)
	}
}

type taxonomyFile struct {
	Categories []struct {
		ID            string   `yaml:"id"`
		Label         yamlText `yaml:"label"`
		Subcategories []struct {
			ID    string   `yaml:"id"`
			Label yamlText `yaml:"label"`
		} `yaml:"subcategories"`
	} `yaml:"categories"`
}

// DefaultTaxonomy returns the embedded taxonomy.
func DefaultTaxonomy() *Taxonomy {
	t, err := ParseTaxonomy(defaultTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("embedded categories.yaml is invalid: %v", err))
	}
	return t
}

// LoadTaxonomy reads a taxonomy file, or returns the embedded one when path
// is empty.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy %s: %w", path, err)
	}
	return ParseTaxonomy(data)
}

// ParseTaxonomy decodes and validates taxonomy YAML.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaxonomy, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidTaxonomy)
	}

	t := &Taxonomy{
		index: make(map[models.Category]int, len(f.Categories)),
		subs:  make(map[models.Category]map[string]struct{}, len(f.Categories)),
	}
	for _, c := range f.Categories {
		id := models.Category(c.ID)
		if c.ID == "" {
			return nil, fmt.Errorf("%w: category without id", ErrInvalidTaxonomy)
		}
		if _, dup := t.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidTaxonomy, c.ID)
		}

		def := CategoryDef{ID: id, Label: models.LocalizedText(c.Label)}
		subs := make(map[string]struct{}, len(c.Subcategories))
		for _, s := range c.Subcategories {
			if s.ID == "" {
				return nil, fmt.Errorf("%w: subcategory without id in %q", ErrInvalidTaxonomy, c.ID)
			}
			if _, dup := subs[s.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate subcategory %q in %q", ErrInvalidTaxonomy, s.ID, c.ID)
			}
			subs[s.ID] = struct{}{}
			def.Subcategories = append(def.Subcategories, SubcategoryDef{ID: s.ID, Label: models.LocalizedText(s.Label)})
		}

		t.index[id] = len(t.categories)
		t.categories = append(t.categories, def)
		t.subs[id] = subs
	}
	return t, nil
}

// Categories returns the categories in display order.
func (t *Taxonomy) Categories() []CategoryDef {
	return t.categories
}

// IDs returns the category identifiers in display order.
func (t *Taxonomy) IDs() []models.Category {
	ids := make([]models.Category, len(t.categories))
	for i, def := range t.categories {
		ids[i] = def.ID
	}
	return ids
}

// Category returns one category definition.
func (t *Taxonomy) Category(cat models.Category) (CategoryDef, bool) {
	i, ok := t.index[cat]
	if !ok {
		return CategoryDef{}, false
	}
	return t.categories[i], true
}

// HasCategory reports whether cat is defined.
func (t *Taxonomy) HasCategory(cat models.Category) bool {
	_, ok := t.index[cat]
	return ok
}

// Subcategories lists the subcategories of cat.
func (t *Taxonomy) Subcategories(cat models.Category) []SubcategoryDef {
	c, _ := t.Category(cat)
	return c.Subcategories
}

// Valid reports whether sub belongs to cat. An empty sub is valid for any
// defined category.
func (t *Taxonomy) Valid(cat models.Category, sub string) bool {
	subs, ok := t.subs[cat]
	if !ok {
		return false
	}
	if sub == "" {
		return true
	}
	_, ok = subs[sub]
	return ok
}

// Order returns the display position of cat, or -1.
func (t *Taxonomy) Order(cat models.Category) int {
	if i, ok := t.index[cat]; ok {
		return i
	}
	return -1
}
