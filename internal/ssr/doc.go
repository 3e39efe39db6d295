// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

/*
Package ssr renders the HTML pages of Masterpiece on the server.

Pages:
  - GET /                      home: category tabs and the filtered list
  - GET /item/{globalId}       detail view with related items
  - GET /coffee                support page
  - GET /how-to-download       download help

Every page is a view of the session's state. The URL is applied to the
session first (filter query parameters on /, the detail id on /item/...),
so the rendered list, the JSON embedded for hydration in
<script id="mp-state" type="application/json"> and later /api/v1/state
reads all agree.

Templates are embedded with go:embed and parsed once by New. Each page
template defines "title" and "content" and is executed through layout.html.

Scripts and inline JSON carry a per-request CSP nonce set by
SecurityHeaders.
*/
package ssr
