// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package main

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxCellWidth truncates long titles so rows stay on one line.
const maxCellWidth = 48

// table aligns columns by display width, so accented and CJK titles line up.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table {
	return &table{header: header}
}

func (t *table) add(cells ...string) {
	row := make([]string, len(t.header))
	for i := range row {
		if i < len(cells) {
			row[i] = runewidth.Truncate(cells[i], maxCellWidth, "…")
		}
	}
	t.rows = append(t.rows, row)
}

func (t *table) widths() []int {
	w := make([]int, len(t.header))
	for i, h := range t.header {
		w[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := runewidth.StringWidth(cell); n > w[i] {
				w[i] = n
			}
		}
	}
	return w
}

func (t *table) write(w io.Writer) error {
	widths := t.widths()
	var sb strings.Builder

	line := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == len(cells)-1 {
				sb.WriteString(cell)
				continue
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		sb.WriteString("\n")
	}

	line(t.header)
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	line(sep)
	for _, row := range t.rows {
		line(row)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
