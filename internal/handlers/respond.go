// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"flyerly/internal/compose"
	"flyerly/internal/flyer"
	"flyerly/internal/middleware"
	"flyerly/internal/render"
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var ve *flyer.ValidationError
	var ge *flyer.GenerationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, flyer.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &ge):
		return http.StatusBadGateway
	case errors.Is(err, flyer.ErrUnknownTemplate):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// titleFor picks the toast title for err. fallback names the failing
// action, e.g. "Error Generating Tagline".
func titleFor(err error, fallback string) string {
	var ve *flyer.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Title
	case errors.Is(err, flyer.ErrBusy):
		return "Please Wait"
	case errors.Is(err, flyer.ErrUnknownTemplate):
		return "Template Not Found"
	case fallback != "":
		return fallback
	}
	return "Something Went Wrong"
}

// fail answers a failed request. Notices already collected are sent along;
// an error toast is added unless one is already among them.
func (h *Flyer) fail(w http.ResponseWriter, r *http.Request, title string, err error, notices flyer.Notices) {
	status := statusFor(err)
	msg := flyer.UserMessage(err)

	if status >= http.StatusInternalServerError {
		slog.Error("flyer request failed", "error", err, "path", r.URL.Path,
			"session", middleware.SessionIDFromCtx(r.Context()))
	} else {
		slog.Debug("flyer request rejected", "error", err, "path", r.URL.Path)
	}

	if notices.Count(flyer.LevelError) == 0 {
		notices.Notify(flyer.Failure(titleFor(err, title), msg))
	}
	render.Triggers{Notify: notices}.Write(w)

	if wantsJSON(r) {
		writeJSON(w, status, map[string]string{"error": titleFor(err, title), "message": msg})
		return
	}
	http.Error(w, msg, status)
}

// changed answers a successful mutation: the triggers refresh the page and
// show the notices; JSON clients get the new state instead of an empty 204.
func (h *Flyer) changed(w http.ResponseWriter, r *http.Request, id string, snap flyer.Snapshot, t render.Triggers) {
	if t.Changed == nil {
		t.Changed = &render.Changed{Version: snap.Version}
	}
	t.Write(w)
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, h.stateOf(id, snap))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// download sends an export as an attachment.
func download(w http.ResponseWriter, a compose.Artifact, notices flyer.Notices) {
	render.Triggers{Notify: notices}.Write(w)
	h := w.Header()
	h.Set("Content-Type", a.ContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	h.Set("Content-Length", strconv.Itoa(len(a.Data)))
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(a.Data)
}

// sessionID returns the id set by middleware.LoadSession.
func (h *Flyer) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := middleware.SessionIDFromCtx(r.Context())
	if id == "" {
		slog.Error("flyer handler reached without a session", "path", r.URL.Path)
		http.Error(w, "session required", http.StatusInternalServerError)
		return "", false
	}
	return id, true
}

func csrfToken(r *http.Request) string {
	return middleware.CSRFTokenFromCtx(r.Context())
}

// wantsJSON reports whether the client asked for JSON rather than HTML.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
