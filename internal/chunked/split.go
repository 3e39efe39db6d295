// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package chunked

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tomtom215/masterpiece/internal/models"
)

// Split cuts items into chunks of size and returns the matching manifest.
// The last chunk may be shorter. Item order is preserved.
func Split(items []models.Item, size int) (Manifest, [][]models.Item) {
	if size <= 0 {
		size = ChunkSize
	}
	m := Manifest{TotalItems: len(items), ChunkSize: size}
	var chunks [][]models.Item
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
		m.Chunks = append(m.Chunks, ChunkFileName(len(chunks)-1))
	}
	return m, chunks
}

// WriteDir writes the chunk files and the manifest (indexFile) to dir,
// creating it if needed. It returns the manifest written.
func WriteDir(dir, indexFile string, items []models.Item, size int) (Manifest, error) {
	if indexFile == "" {
		indexFile = "index.json"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	m, chunks := Split(items, size)
	for i, chunk := range chunks {
		if err := writeJSON(filepath.Join(dir, m.Chunks[i]), chunk); err != nil {
			return Manifest{}, err
		}
	}
	if err := writeJSON(filepath.Join(dir, indexFile), m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}
