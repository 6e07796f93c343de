// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the flyer editor.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header, and carries user notices to
// the browser in the HX-Trigger response header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"flyerly/internal/compose"
	"flyerly/internal/flyer"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds everything the editor templates render.
type PageData struct {
	Title     string
	CSRFToken string
	Editor    Editor
	Preview   compose.PreviewModel
	Templates []flyer.Template
	Formats   []string
	AI        AIStatus
	Error     string // message for the standalone error page
}

// Editor is the current form state of the left-hand controls.
type Editor struct {
	Name        string
	Description string
	Date        string // datetime-local value
	Location    string
	Tagline     string
	HasImage    bool
	Version     uint64

	TaglineBusy bool
	ImageBusy   bool
}

// AIStatus describes which generators are available.
type AIStatus struct {
	Provider string
	Text     bool
	Image    bool
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	fragments *template.Template
	funcMap   template.FuncMap
}

// standaloneTemplates render as full HTML pages without the base layout.
var standaloneTemplates = map[string]bool{
	"error": true,
}

// New parses every page template from the embedded filesystem. Each page is
// paired with the base layout and the shared fragments.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"upper": strings.ToUpper,
			// blank reports whether s is empty once trimmed.
			"blank": func(s string) bool { return strings.TrimSpace(s) == "" },
			// categoryClass maps a template category to its badge style.
			"categoryClass": func(category string) string {
				return "badge badge-" + strings.ToLower(strings.ReplaceAll(category, " ", "-"))
			},
		},
	}

	fragments, err := template.New("fragments.html").Funcs(r.funcMap).ParseFS(templateFS, "templates/fragments.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}
	r.fragments = fragments

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimPrefix(page, "templates/")
		if name == "base.html" || name == "fragments.html" {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		if standaloneTemplates[tmplName] {
			tmpl, err = template.New(name).Funcs(r.funcMap).ParseFS(templateFS, page)
		} else {
			tmpl, err = template.New("base.html").Funcs(r.funcMap).ParseFS(
				templateFS, "templates/base.html", "templates/fragments.html", page,
			)
		}
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a full page or, for HTMX requests, only its "content" block.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus is Page with an explicit status code.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	execName := "base.html"
	switch {
	case standaloneTemplates[name]:
		execName = name + ".html"
	case IsHTMX(r):
		execName = "content"
	}

	writeHTML(w, status, func(buf io.Writer) error {
		return tmpl.ExecuteTemplate(buf, execName, data)
	})
}

// Fragment renders one of the shared fragments ("editor", "preview",
// "tagline_field", "image_controls", "templates") on its own.
func (rn *Renderer) Fragment(w http.ResponseWriter, status int, name string, data *PageData) {
	if rn.fragments.Lookup(name) == nil {
		http.Error(w, fmt.Sprintf("fragment %q not found", name), http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, func(buf io.Writer) error {
		return rn.fragments.ExecuteTemplate(buf, name, data)
	})
}

// writeHTML buffers the output so a template error can still become a 500.
func writeHTML(w http.ResponseWriter, status int, exec func(io.Writer) error) {
	var buf bytes.Buffer
	if err := exec(&buf); err != nil {
		slog.Error("template execution failed", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
