// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goccy/go-json"

	"github.com/tomtom215/masterpiece/internal/chunked"
	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/models"
)

// MusicModeUnavailable marks a catalog whose music dataset could not be loaded.
const MusicModeUnavailable = "unavailable"

// MusicLoader provides the music dataset. *chunked.Loader implements it.
type MusicLoader interface {
	Load(ctx context.Context) (*chunked.Result, error)
}

// Loader reads one <category>.json file per taxonomy category from an fs.FS.
// The music category comes from a MusicLoader when one is set.
type Loader struct {
	fsys     fs.FS
	taxonomy *Taxonomy
	music    MusicLoader
}

// NewLoader creates a loader. music may be nil, in which case music.json is
// read from fsys like any other category.
func NewLoader(fsys fs.FS, taxonomy *Taxonomy, music MusicLoader) *Loader {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &Loader{fsys: fsys, taxonomy: taxonomy, music: music}
}

// Taxonomy returns the loader's taxonomy.
func (l *Loader) Taxonomy() *Taxonomy { return l.taxonomy }

// Load builds a new snapshot. A missing category file yields an empty
// category; malformed JSON fails the load. A failed music load leaves the
// music category empty and is reported through Catalog.Music.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	log := logging.Ctx(ctx).With().Str("component", "catalog").Logger()

	var (
		all   []models.Item
		music MusicInfo
	)
	for _, def := range l.taxonomy.Categories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if def.ID == models.CategoryMusic && l.music != nil {
			items, info, err := l.loadMusic(ctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				log.Error().Err(err).Msg("Music dataset unavailable")
				music = MusicInfo{Mode: MusicModeUnavailable, Error: err.Error()}
				continue
			}
			music = info
			all = append(all, items...)
			continue
		}

		items, err := l.loadFile(def.ID)
		if err != nil {
			return nil, err
		}
		if items == nil {
			log.Warn().Str("category", string(def.ID)).Msg("Category file not found, category is empty")
			continue
		}
		all = append(all, items...)
	}

	c, err := Build(l.taxonomy, all)
	if err != nil {
		return nil, err
	}
	c.music = music
	return c, nil
}

// loadFile returns nil items without error when the file does not exist.
func (l *Loader) loadFile(cat models.Category) ([]models.Item, error) {
	name := string(cat) + ".json"
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if items == nil {
		items = []models.Item{}
	}
	defaultCategory(items, cat)
	return items, nil
}

func (l *Loader) loadMusic(ctx context.Context) ([]models.Item, MusicInfo, error) {
	res, err := l.music.Load(ctx)
	if err != nil {
		return nil, MusicInfo{}, err
	}
	info := MusicInfo{Mode: string(res.Mode), Chunks: res.Chunks, Took: res.Duration}
	if res.ChunkErr != nil {
		info.Error = res.ChunkErr.Error()
	}
	defaultCategory(res.Items, models.CategoryMusic)
	return res.Items, info, nil
}

// defaultCategory fills in the category of items that do not name one.
func defaultCategory(items []models.Item, cat models.Category) {
	for i := range items {
		if items[i].Category == "" {
			items[i].Category = cat
		}
	}
}
