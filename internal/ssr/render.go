// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package ssr

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names, one file each under templates/.
const (
	pageHome          = "home"
	pageDetail        = "detail"
	pageCoffee        = "coffee"
	pageHowToDownload = "how_to_download"
	pageError         = "error"
)

var pageNames = []string{pageHome, pageDetail, pageCoffee, pageHowToDownload, pageError}

var templateFuncs = template.FuncMap{
	// pick returns es or en for the page language.
	"pick": func(lang models.Language, es, en string) string {
		if lang == models.LanguageEN {
			return en
		}
		return es
	},
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
}

// parseTemplates builds one template set per page on top of the layout.
func parseTemplates() (map[string]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// render executes a page into a buffer first so a template error can still
// produce a clean 500.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data *pageData) {
	t, ok := p.templates[name]
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data.Nonce = NonceFromContext(r.Context())

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", string(data.Lang))
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
