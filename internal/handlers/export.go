// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"flyerly/internal/flyer"
	"flyerly/internal/session"
)

// ExportImage downloads the active image untouched. The "format" query
// parameter picks the extension (png, jpg, jpeg, webp, gif).
func (h *Flyer) ExportImage(w http.ResponseWriter, r *http.Request) {
	_, snap, ok := h.current(w, r)
	if !ok {
		return
	}

	var notices flyer.Notices
	art, err := h.exporter.Image(snap, r.URL.Query().Get("format"), &notices)
	if err != nil {
		h.fail(w, r, "", err, notices)
		return
	}
	download(w, art, notices)
}

// ExportPDF composes and downloads the one-page flyer document. Only one
// export per session runs at a time.
func (h *Flyer) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id, snap, ok := h.current(w, r)
	if !ok {
		return
	}

	done, err := h.sessions.Begin(id, session.OpExport)
	if err != nil {
		h.fail(w, r, "Cannot Generate PDF", err, nil)
		return
	}
	defer done()

	var notices flyer.Notices
	art, err := h.exporter.Document(r.Context(), snap, &notices)
	if err != nil {
		h.fail(w, r, "Cannot Generate PDF", err, notices)
		return
	}
	slog.Info("pdf exported", "session", id, "bytes", len(art.Data), "version", snap.Version)
	download(w, art, notices)
}

// ExportICS downloads an iCalendar file for the event. The event needs a
// date.
func (h *Flyer) ExportICS(w http.ResponseWriter, r *http.Request) {
	_, snap, ok := h.current(w, r)
	if !ok {
		return
	}

	var notices flyer.Notices
	art, err := h.exporter.Calendar(snap, &notices)
	if err != nil {
		h.fail(w, r, "", err, notices)
		return
	}
	download(w, art, notices)
}
