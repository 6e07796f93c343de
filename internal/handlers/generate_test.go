// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"flyerly/internal/flyer"
)

func TestGenerateTagline(t *testing.T) {
	env := newTestEnv(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/flyer/generate/tagline", nil)
	req.Header.Set("HX-Request", "true")
	rr := serve(env.flyer.GenerateTagline, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Dance till dawn!") {
		t.Error("tagline fragment does not show the new tagline")
	}
	tr := triggers(t, rr)
	if !hasNotice(tr, "Tagline Generated!") || tr.Changed == nil {
		t.Errorf("triggers = %+v", tr)
	}
	if got := env.snapshot(t).Tagline; got != "Dance till dawn!" {
		t.Errorf("tagline = %q", got)
	}
	if busy := env.sessions.Busy(testSession); len(busy) != 0 {
		t.Errorf("busy after completion = %v", busy)
	}
}

func TestGenerateTaglineNeedsDescription(t *testing.T) {
	env := newTestEnv(t, Options{})
	serve(env.flyer.UpdateField, postForm("/flyer/fields", url.Values{"field": {"description"}, "value": {"   "}}))

	rr := serve(env.flyer.GenerateTagline, httptest.NewRequest(http.MethodPost, "/flyer/generate/tagline", nil))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if !hasNotice(triggers(t, rr), "Event Description Missing") {
		t.Error("expected Event Description Missing notice")
	}
	if env.text.Calls() != 0 {
		t.Error("model must not be called without a description")
	}
}

func TestGenerateTaglineProviderFailure(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.text.err = errors.New("upstream 500")
	before := env.snapshot(t).Tagline

	rr := serve(env.flyer.GenerateTagline, httptest.NewRequest(http.MethodPost, "/flyer/generate/tagline", nil))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if !hasNotice(triggers(t, rr), "Error Generating Tagline") {
		t.Error("expected Error Generating Tagline notice")
	}
	if got := env.snapshot(t).Tagline; got != before {
		t.Errorf("tagline changed to %q on failure", got)
	}
}

func TestGenerateTaglineBusy(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.text.release = make(chan struct{})
	env.text.started = make(chan struct{})

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = serve(env.flyer.GenerateTagline, httptest.NewRequest(http.MethodPost, "/flyer/generate/tagline", nil))
	}()
	<-env.text.started

	rr := serve(env.flyer.GenerateTagline, httptest.NewRequest(http.MethodPost, "/flyer/generate/tagline", nil))
	if rr.Code != http.StatusConflict {
		t.Errorf("second request status = %d, want 409", rr.Code)
	}
	if !hasNotice(triggers(t, rr), "Please Wait") {
		t.Error("expected Please Wait notice")
	}

	// The image generator is independent of the tagline generator.
	img := serve(env.flyer.GenerateImage, httptest.NewRequest(http.MethodPost, "/flyer/generate/image", nil))
	if img.Code != http.StatusNoContent {
		t.Errorf("image while tagline busy: status = %d, want 204", img.Code)
	}

	close(env.text.release)
	wg.Wait()
	if first.Code != http.StatusOK {
		t.Errorf("first request status = %d, want 200", first.Code)
	}
	if env.text.Calls() != 1 {
		t.Errorf("model calls = %d, want 1", env.text.Calls())
	}
}

func TestGenerateTaglineUnavailable(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.flyer.providers = nil

	rr := serve(env.flyer.GenerateTagline, httptest.NewRequest(http.MethodPost, "/flyer/generate/tagline", nil))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if !hasNotice(triggers(t, rr), "Tagline Generation Unavailable") {
		t.Error("expected Tagline Generation Unavailable notice")
	}
}

func TestGenerateImage(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := serve(env.flyer.GenerateImage, httptest.NewRequest(http.MethodPost, "/flyer/generate/image", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	tr := triggers(t, rr)
	if !hasNotice(tr, "AI Image Generated!") || !hasNotice(tr, "AI Image Set!") {
		t.Errorf("notices = %+v", tr.Notify)
	}
	if tr.Image == nil || tr.Changed == nil {
		t.Errorf("expected image and changed triggers, got %+v", tr)
	}
	snap := env.snapshot(t)
	if snap.Image.Source != flyer.ImageGenerated || snap.Image.ContentType != "image/png" {
		t.Errorf("image = %v %q", snap.Image.Source, snap.Image.ContentType)
	}
}

func TestGenerateImageFailureKeepsImage(t *testing.T) {
	env := newTestEnv(t, Options{})
	serve(env.flyer.GenerateImage, httptest.NewRequest(http.MethodPost, "/flyer/generate/image", nil))
	env.image.err = errors.New("quota exceeded")

	rr := serve(env.flyer.GenerateImage, httptest.NewRequest(http.MethodPost, "/flyer/generate/image", nil))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if !hasNotice(triggers(t, rr), "Error Generating Image") {
		t.Error("expected Error Generating Image notice")
	}
	if !env.snapshot(t).Image.IsSet() {
		t.Error("a failed generation must keep the previous image")
	}
}

func TestGenerateImageUnsupported(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.flyer.providers.(*mockProviders).canImage = false

	rr := serve(env.flyer.GenerateImage, httptest.NewRequest(http.MethodPost, "/flyer/generate/image", nil))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if env.image.calls != 0 {
		t.Error("model must not be called")
	}
}
