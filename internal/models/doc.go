// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

/*
Package models defines the data structures shared across Masterpiece.

Key Components:

  - Item: a catalog recommendation (movie, book, album, game, podcast...)
  - LocalizedText: text given either as a plain string or as an {es, en} object
  - Language: the two content languages (es, en)
  - Category: the nine catalog categories
  - APIResponse: the JSON envelope returned by every /api/v1 endpoint

Identity:

Item IDs are only unique within a category. Every item carries a synthetic
GlobalID of the form <category>_<id> which is unique across the catalog and
is the identifier used by the API, the view state and the HTML pages:

	movies_12
	music_12

Unknown fields:

Catalog files carry category-specific fields (platform, players, label,
episodes...) that the server does not interpret. They are kept verbatim in
Item.Extra and written back out when the item is encoded, so the JSON
served to clients is a superset of the source files.
*/
package models
