// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"flyerly/internal/flyer"
	"flyerly/internal/render"
	"flyerly/internal/session"
)

// UpdateField patches one event field from the "field" and "value" form
// values.
func (h *Flyer) UpdateField(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	field, err := flyer.ParseField(r.FormValue("field"))
	if err != nil {
		h.fail(w, r, "", flyer.Invalid("Unknown Field", "That is not an event field."), nil)
		return
	}
	value := r.FormValue("value")
	if msg := validateField(field, value); msg != "" {
		h.fail(w, r, "", flyer.Invalid("Field Too Long", msg), nil)
		return
	}

	var notices flyer.Notices
	snap, err := h.sessions.Apply(r.Context(), id, session.UpdateField{Field: field, Value: value}, &notices)
	if err != nil {
		h.fail(w, r, "", err, notices)
		return
	}
	h.changed(w, r, id, snap, render.Triggers{Notify: notices})
}

// SetTagline replaces the tagline with the "tagline" form value.
func (h *Flyer) SetTagline(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	tagline := r.FormValue("tagline")
	if msg := validateTagline(tagline); msg != "" {
		h.fail(w, r, "", flyer.Invalid("Tagline Too Long", msg), nil)
		return
	}

	var notices flyer.Notices
	snap, err := h.sessions.Apply(r.Context(), id, session.SetTagline{Text: tagline}, &notices)
	if err != nil {
		h.fail(w, r, "", err, notices)
		return
	}
	h.changed(w, r, id, snap, render.Triggers{Notify: notices})
}

// ApplyTemplate applies the catalog template named by the {id} URL param.
func (h *Flyer) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var notices flyer.Notices
	snap, err := h.sessions.Apply(r.Context(), id, session.ApplyTemplate{ID: chi.URLParam(r, "id")}, &notices)
	if err != nil {
		h.fail(w, r, "", err, notices)
		return
	}
	version := &render.Changed{Version: snap.Version}
	h.changed(w, r, id, snap, render.Triggers{Notify: notices, Reset: version})
}

// RemoveImage drops the active image so the placeholder shows again.
func (h *Flyer) RemoveImage(w http.ResponseWriter, r *http.Request) {
	h.setImage(w, r, flyer.Image{}, nil)
}

// Reset returns the flyer to its starting values.
func (h *Flyer) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var notices flyer.Notices
	snap, err := h.sessions.Apply(r.Context(), id, session.Reset{}, &notices)
	if err != nil {
		h.fail(w, r, "", err, notices)
		return
	}
	version := &render.Changed{Version: snap.Version}
	h.changed(w, r, id, snap, render.Triggers{Notify: notices, Reset: version})
}

// setImage applies a SetImage command. extra notices are sent before the
// command's own confirmation.
func (h *Flyer) setImage(w http.ResponseWriter, r *http.Request, img flyer.Image, extra flyer.Notices) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	notices := extra
	snap, err := h.sessions.Apply(r.Context(), id, session.SetImage{Image: img}, &notices)
	if err != nil {
		h.fail(w, r, "", err, notices)
		return
	}
	version := &render.Changed{Version: snap.Version}
	h.changed(w, r, id, snap, render.Triggers{Notify: notices, Image: version})
}
