// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers serves the flyer editor: the page and its fragments,
// field edits, AI generation, image upload and the downloadable exports.
package handlers

import (
	"context"
	"net/http"

	"flyerly/internal/compose"
	"flyerly/internal/flyer"
	"flyerly/internal/generate"
	"flyerly/internal/render"
	"flyerly/internal/session"
)

// DefaultMaxUpload is the upload size limit used when Options leaves it zero.
const DefaultMaxUpload = 10 << 20

// TaglineGenerator produces a tagline from an event description.
type TaglineGenerator interface {
	Generate(ctx context.Context, in generate.Input) (generate.TaglineOutput, error)
}

// ImageGenerator produces a flyer image from an event description.
type ImageGenerator interface {
	Generate(ctx context.Context, in generate.Input) (generate.ImageOutput, error)
}

// Providers is the runtime-switchable AI provider registry.
type Providers interface {
	ActiveName() string
	Available() []string
	HasProvider(name string) bool
	SetActive(name string) error
	ImageProviderName() string
	SetImageProvider(name string) error
	SupportsImageGeneration() bool
}

// Catalog lists the flyer templates.
type Catalog interface {
	All() []flyer.Template
}

// Options configure the Flyer handlers.
type Options struct {
	PlaceholderURL string
	MaxUploadBytes int64
	Cookies        session.Cookies
}

// Flyer groups the handlers of the flyer editor.
type Flyer struct {
	renderer  *render.Renderer
	sessions  *session.Manager
	catalog   Catalog
	exporter  *compose.Exporter
	tagline   TaglineGenerator // nil disables tagline generation
	image     ImageGenerator   // nil disables image generation
	providers Providers        // nil when no AI provider is configured
	opts      Options
}

// NewFlyer creates the Flyer handler group. tagline, image and providers
// may be nil when no AI provider is configured.
func NewFlyer(renderer *render.Renderer, sessions *session.Manager, catalog Catalog, exporter *compose.Exporter, tagline TaglineGenerator, image ImageGenerator, providers Providers, opts Options) *Flyer {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUpload
	}
	if opts.PlaceholderURL == "" {
		opts.PlaceholderURL = compose.DefaultPlaceholderURL
	}
	return &Flyer{
		renderer:  renderer,
		sessions:  sessions,
		catalog:   catalog,
		exporter:  exporter,
		tagline:   tagline,
		image:     image,
		providers: providers,
		opts:      opts,
	}
}

// Index renders the editor page.
func (h *Flyer) Index(w http.ResponseWriter, r *http.Request) {
	id, snap, ok := h.current(w, r)
	if !ok {
		return
	}
	h.renderer.Page(w, r, "index", h.pageData(r, id, snap))
}

// Preview renders the preview fragment for the current snapshot.
func (h *Flyer) Preview(w http.ResponseWriter, r *http.Request) {
	id, snap, ok := h.current(w, r)
	if !ok {
		return
	}
	h.renderer.Fragment(w, http.StatusOK, "preview", h.pageData(r, id, snap))
}

// Editor renders the event details fragment, used after a template or a
// reset replaced several fields at once.
func (h *Flyer) Editor(w http.ResponseWriter, r *http.Request) {
	id, snap, ok := h.current(w, r)
	if !ok {
		return
	}
	h.renderer.Fragment(w, http.StatusOK, "editor", h.pageData(r, id, snap))
}

// State returns the current snapshot as JSON. Image bytes are left out.
func (h *Flyer) State(w http.ResponseWriter, r *http.Request) {
	id, snap, ok := h.current(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.stateOf(id, snap))
}

// Templates returns the template catalog as JSON.
func (h *Flyer) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": h.catalog.All()})
}

// End forgets the session and its cookie. The next visit starts fresh.
func (h *Flyer) End(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.sessions.End(r.Context(), id); err != nil {
		h.fail(w, r, "", err, nil)
		return
	}
	h.opts.Cookies.Clear(w)
	if render.IsHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
	}
	w.WriteHeader(http.StatusNoContent)
}

// current resolves the session and loads its snapshot, answering the
// request itself on failure.
func (h *Flyer) current(w http.ResponseWriter, r *http.Request) (string, flyer.Snapshot, bool) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return "", flyer.Snapshot{}, false
	}
	snap, err := h.sessions.Snapshot(r.Context(), id)
	if err != nil {
		h.fail(w, r, "", err, nil)
		return "", flyer.Snapshot{}, false
	}
	return id, snap, true
}

// pageData assembles the template data for snap.
func (h *Flyer) pageData(r *http.Request, id string, snap flyer.Snapshot) *render.PageData {
	loc := h.sessions.Location()
	data := &render.PageData{
		Title:     "Flyer Editor",
		CSRFToken: csrfToken(r),
		Editor: render.Editor{
			Name:        snap.Event.Name,
			Description: snap.Event.Description,
			Date:        flyer.DateInput(snap.Event.Date, loc),
			Location:    snap.Event.Location,
			Tagline:     snap.Tagline,
			HasImage:    snap.Image.IsSet(),
			Version:     snap.Version,
		},
		Preview: compose.Preview(snap, compose.PreviewOptions{
			PlaceholderURL: h.opts.PlaceholderURL,
			Location:       loc,
		}),
		Templates: h.catalog.All(),
		Formats:   compose.ImageFormats,
		AI:        h.aiStatus(),
	}
	for _, op := range h.sessions.Busy(id) {
		switch op {
		case session.OpTagline:
			data.Editor.TaglineBusy = true
		case session.OpImage:
			data.Editor.ImageBusy = true
		}
	}
	return data
}

func (h *Flyer) aiStatus() render.AIStatus {
	if h.providers == nil {
		return render.AIStatus{}
	}
	active := h.providers.ActiveName()
	return render.AIStatus{
		Provider: active,
		Text:     h.tagline != nil && h.providers.HasProvider(active),
		Image:    h.image != nil && h.providers.SupportsImageGeneration(),
	}
}

// flyerState is the JSON shape of a snapshot.
type flyerState struct {
	Version   uint64             `json:"version"`
	Event     flyer.EventDetails `json:"event"`
	Tagline   string             `json:"tagline"`
	Image     imageState         `json:"image"`
	ImageHint string             `json:"image_hint"`
	Busy      []session.Op       `json:"busy"`
}

type imageState struct {
	Source      string `json:"source"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size"`
}

func (h *Flyer) stateOf(id string, snap flyer.Snapshot) flyerState {
	busy := h.sessions.Busy(id)
	if busy == nil {
		busy = []session.Op{}
	}
	return flyerState{
		Version: snap.Version,
		Event:   snap.Event,
		Tagline: snap.Tagline,
		Image: imageState{
			Source:      snap.Image.Source.String(),
			ContentType: snap.Image.ContentType,
			Size:        len(snap.Image.Data),
		},
		ImageHint: snap.ImageHint,
		Busy:      busy,
	}
}
