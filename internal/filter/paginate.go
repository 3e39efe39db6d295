// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package filter

import "github.com/tomtom215/masterpiece/internal/models"

// Paginate returns the window [offset, offset+limit) of items. A limit of
// zero or less returns everything from offset.
func Paginate[T any](items []T, offset, limit int) ([]T, models.PaginationInfo) {
	total := len(items)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	page := items[offset:end]
	return page, models.PaginationInfo{
		Total:   total,
		Count:   len(page),
		Offset:  offset,
		Limit:   limit,
		HasMore: end < total,
	}
}
