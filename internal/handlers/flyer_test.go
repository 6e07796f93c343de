// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"flyerly/internal/session"
)

func TestIndexRendersSeedFlyer(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := serve(env.flyer.Index, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"My Awesome Event", "Birthday Bash", `value="2024-07-04T18:00"`, "placehold.co"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestPreviewAndEditorFragments(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := serve(env.flyer.Preview, httptest.NewRequest(http.MethodGet, "/flyer/preview", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `id="preview"`) {
		t.Errorf("preview: status %d, body %q", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "<html") {
		t.Error("preview fragment must not include the layout")
	}

	rr = serve(env.flyer.Editor, httptest.NewRequest(http.MethodGet, "/flyer/editor", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `id="editor"`) {
		t.Errorf("editor: status %d", rr.Code)
	}
}

func TestUpdateField(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := serve(env.flyer.UpdateField, postForm("/flyer/fields", url.Values{"field": {"name"}, "value": {"Summer Gala"}}))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	tr := triggers(t, rr)
	if tr.Changed == nil || tr.Changed.Version != 2 {
		t.Errorf("flyer-changed = %+v, want version 2", tr.Changed)
	}
	if got := env.snapshot(t).Event.Name; got != "Summer Gala" {
		t.Errorf("name = %q", got)
	}
}

func TestUpdateFieldRejections(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		title string
	}{
		{"bad date", "date", "next tuesday-ish", "Invalid Date"},
		{"unknown field", "colour", "red", "Unknown Field"},
		{"too long", "name", strings.Repeat("x", maxNameLen+1), "Field Too Long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})

			rr := serve(env.flyer.UpdateField, postForm("/flyer/fields", url.Values{"field": {tt.field}, "value": {tt.value}}))
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rr.Code)
			}
			if tr := triggers(t, rr); !hasNotice(tr, tt.title) {
				t.Errorf("notices = %+v, want %q", tr.Notify, tt.title)
			}
			if v := env.snapshot(t).Version; v != 1 {
				t.Errorf("version = %d, a rejected edit must not change the flyer", v)
			}
		})
	}
}

func TestUpdateFieldJSONClient(t *testing.T) {
	env := newTestEnv(t, Options{})

	req := postForm("/flyer/fields", url.Values{"field": {"location"}, "value": {"Pier 39"}})
	req.Header.Set("Accept", "application/json")
	rr := serve(env.flyer.UpdateField, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var st flyerState
	if err := json.NewDecoder(rr.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Version != 2 || st.Event.Location != "Pier 39" {
		t.Errorf("state = %+v", st)
	}
}

func TestSetTagline(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := serve(env.flyer.SetTagline, postForm("/flyer/tagline", url.Values{"tagline": {"See you there"}}))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if got := env.snapshot(t).Tagline; got != "See you there" {
		t.Errorf("tagline = %q", got)
	}

	rr = serve(env.flyer.SetTagline, postForm("/flyer/tagline", url.Values{"tagline": {strings.Repeat("y", maxTaglineLen+1)}}))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("long tagline status = %d, want 422", rr.Code)
	}
}

func TestApplyTemplate(t *testing.T) {
	env := newTestEnv(t, Options{})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/flyer/templates/t1", nil), "id", "t1")
	rr := serve(env.flyer.ApplyTemplate, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	tr := triggers(t, rr)
	if tr.Reset == nil || !hasNotice(tr, "Template Selected!") {
		t.Errorf("triggers = %+v", tr)
	}
	snap := env.snapshot(t)
	if snap.Event.Name != "Birthday Bash" || snap.Tagline != "Let's make this year the best one yet!" {
		t.Errorf("template not applied: %+v", snap.Event)
	}
}

func TestApplyUnknownTemplate(t *testing.T) {
	env := newTestEnv(t, Options{})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/flyer/templates/t99", nil), "id", "t99")
	rr := serve(env.flyer.ApplyTemplate, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if !hasNotice(triggers(t, rr), "Template Not Found") {
		t.Error("expected a Template Not Found notice")
	}
	if v := env.snapshot(t).Version; v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
}

func TestReset(t *testing.T) {
	env := newTestEnv(t, Options{})

	serve(env.flyer.UpdateField, postForm("/flyer/fields", url.Values{"field": {"name"}, "value": {"Changed"}}))
	rr := serve(env.flyer.Reset, httptest.NewRequest(http.MethodPost, "/flyer/reset", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	tr := triggers(t, rr)
	if tr.Reset == nil || tr.Reset.Version != 3 {
		t.Errorf("flyer-reset = %+v, want version 3", tr.Reset)
	}
	if got := env.snapshot(t).Event.Name; got != "My Awesome Event" {
		t.Errorf("name after reset = %q", got)
	}
}

func TestStateAndTemplatesJSON(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := serve(env.flyer.State, httptest.NewRequest(http.MethodGet, "/api/flyer", nil))
	var st flyerState
	if err := json.NewDecoder(rr.Body).Decode(&st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.Image.Source != "none" || st.Busy == nil || len(st.Busy) != 0 {
		t.Errorf("state = %+v", st)
	}

	rr = serve(env.flyer.Templates, httptest.NewRequest(http.MethodGet, "/api/templates", nil))
	var out struct {
		Templates []struct {
			ID string `json:"id"`
		} `json:"templates"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode templates: %v", err)
	}
	if len(out.Templates) == 0 || out.Templates[0].ID != "t1" {
		t.Errorf("templates = %+v", out.Templates)
	}
}

func TestEndSession(t *testing.T) {
	env := newTestEnv(t, Options{})

	serve(env.flyer.UpdateField, postForm("/flyer/fields", url.Values{"field": {"name"}, "value": {"Gone Soon"}}))

	req := httptest.NewRequest(http.MethodDelete, "/flyer", nil)
	req.Header.Set("HX-Request", "true")
	rr := serve(env.flyer.End, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if rr.Header().Get("HX-Redirect") != "/" {
		t.Error("expected HX-Redirect to /")
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie was not cleared")
	}
	if got := env.snapshot(t).Event.Name; got != "My Awesome Event" {
		t.Errorf("ended session still has name %q", got)
	}
}

func TestHandlerWithoutSession(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := httptest.NewRecorder()
	env.flyer.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}
