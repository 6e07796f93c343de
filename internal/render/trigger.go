// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"flyerly/internal/flyer"
)

// TriggerHeader is the HTMX response header that fires client events.
const TriggerHeader = "HX-Trigger"

// Triggers is the HX-Trigger payload. Notify carries toasts and Changed
// makes the preview refresh. Image refreshes the image controls, Reset
// refreshes the whole editor.
type Triggers struct {
	Notify  []flyer.Notice `json:"notify,omitempty"`
	Changed *Changed       `json:"flyer-changed,omitempty"`
	Image   *Changed       `json:"flyer-image,omitempty"`
	Reset   *Changed       `json:"flyer-reset,omitempty"`
}

// Changed identifies the snapshot a refresh should show.
type Changed struct {
	Version uint64 `json:"version"`
}

// Empty reports whether there is nothing to send.
func (t Triggers) Empty() bool {
	return len(t.Notify) == 0 && t.Changed == nil && t.Image == nil && t.Reset == nil
}

// Write sets the HX-Trigger header. It must run before the status line is
// written.
func (t Triggers) Write(w http.ResponseWriter) {
	if t.Empty() {
		return
	}
	b, err := json.Marshal(t)
	if err != nil {
		return
	}
	w.Header().Set(TriggerHeader, asciiJSON(b))
}

// Notify sends notices as toasts.
func Notify(w http.ResponseWriter, notices ...flyer.Notice) {
	Triggers{Notify: notices}.Write(w)
}

// asciiJSON escapes non-ASCII runes so the payload survives header
// transport, which browsers decode as Latin-1.
func asciiJSON(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, r := range string(b) {
		switch {
		case r < 0x80:
			sb.WriteRune(r)
		case r > 0xFFFF:
			r -= 0x10000
			fmt.Fprintf(&sb, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		default:
			fmt.Fprintf(&sb, `\u%04x`, r)
		}
	}
	return sb.String()
}
