// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"flyerly/internal/flyer"
	"flyerly/internal/generate"
	"flyerly/internal/render"
	"flyerly/internal/session"
)

// GenerateTagline asks the AI provider for a tagline based on the session's
// event description. At most one tagline request runs per session; the
// image generator is independent. On success the tagline field fragment is
// returned (or the new state for JSON clients).
func (h *Flyer) GenerateTagline(w http.ResponseWriter, r *http.Request) {
	const failTitle = "Error Generating Tagline"

	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if !h.aiStatus().Text {
		h.fail(w, r, failTitle, flyer.Invalid("Tagline Generation Unavailable",
			"No AI provider is configured for text generation."), nil)
		return
	}

	done, err := h.sessions.Begin(id, session.OpTagline)
	if err != nil {
		h.fail(w, r, failTitle, err, nil)
		return
	}
	defer done()

	snap, err := h.sessions.Snapshot(r.Context(), id)
	if err != nil {
		h.fail(w, r, failTitle, err, nil)
		return
	}

	out, err := h.tagline.Generate(r.Context(), generate.Input{EventDescription: snap.Event.Description})
	if err != nil {
		slog.Warn("tagline generation failed", "error", err, "session", id)
		h.fail(w, r, failTitle, err, nil)
		return
	}

	notices := flyer.Notices{flyer.Success("Tagline Generated!", "A new tagline has been successfully created.")}
	snap, err = h.sessions.Apply(r.Context(), id, session.SetTagline{Text: out.Tagline}, &notices)
	if err != nil {
		h.fail(w, r, failTitle, err, nil)
		return
	}

	if wantsJSON(r) {
		h.changed(w, r, id, snap, render.Triggers{Notify: notices})
		return
	}
	render.Triggers{Notify: notices, Changed: &render.Changed{Version: snap.Version}}.Write(w)
	done()
	h.renderer.Fragment(w, http.StatusOK, "tagline_field", h.pageData(r, id, snap))
}

// GenerateImage asks the AI provider for a portrait flyer image based on
// the session's event description and makes it the active image.
func (h *Flyer) GenerateImage(w http.ResponseWriter, r *http.Request) {
	const failTitle = "Error Generating Image"

	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if !h.aiStatus().Image {
		h.fail(w, r, failTitle, flyer.Invalid("Image Generation Unavailable",
			"No AI provider with an image model is configured."), nil)
		return
	}

	done, err := h.sessions.Begin(id, session.OpImage)
	if err != nil {
		h.fail(w, r, failTitle, err, nil)
		return
	}
	defer done()

	snap, err := h.sessions.Snapshot(r.Context(), id)
	if err != nil {
		h.fail(w, r, failTitle, err, nil)
		return
	}

	out, err := h.image.Generate(r.Context(), generate.Input{EventDescription: snap.Event.Description})
	if err != nil {
		slog.Warn("image generation failed", "error", err, "session", id)
		h.fail(w, r, failTitle, err, nil)
		return
	}

	slog.Info("ai image generated", "session", id, "type", out.Image.ContentType, "bytes", len(out.Image.Data))
	h.setImage(w, r, out.Image, flyer.Notices{
		flyer.Success("AI Image Generated!", "A new image has been successfully created."),
	})
}
