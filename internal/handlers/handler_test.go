// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the flyer
// handler tests: an in-memory session manager, the real renderer and
// exporter, and scripted AI models.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"flyerly/internal/ai"
	"flyerly/internal/catalog"
	"flyerly/internal/compose"
	"flyerly/internal/flyer"
	"flyerly/internal/generate"
	"flyerly/internal/middleware"
	"flyerly/internal/render"
	"flyerly/internal/session"
)

const testSession = "6f1c2b0e-2a4d-4d4e-9a55-1c2b3d4e5f60"

var testNow = time.Date(2024, 7, 4, 18, 0, 0, 0, time.UTC)

// mockTextModel scripts the tagline model.
type mockTextModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	release chan struct{} // when non-nil, Generate blocks until closed
	started chan struct{}
}

func (m *mockTextModel) Generate(ctx context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.release != nil {
		if m.started != nil {
			close(m.started)
		}
		<-m.release
	}
	return m.reply, m.err
}

func (m *mockTextModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockImageModel scripts the image model.
type mockImageModel struct {
	data  []byte
	err   error
	calls int
}

func (m *mockImageModel) GenerateImage(_ context.Context, _ ai.ImageRequest) (*ai.GeneratedImage, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &ai.GeneratedImage{Data: m.data, ContentType: "image/png"}, nil
}

var errProviderMissing = errors.New("provider not configured")

// mockProviders implements Providers.
type mockProviders struct {
	active    string
	image     string
	available []string
	canImage  bool
}

func (m *mockProviders) ActiveName() string  { return m.active }
func (m *mockProviders) Available() []string { return m.available }
func (m *mockProviders) HasProvider(name string) bool {
	for _, a := range m.available {
		if a == name {
			return true
		}
	}
	return false
}
func (m *mockProviders) SetActive(name string) error {
	if !m.HasProvider(name) {
		return errProviderMissing
	}
	m.active = name
	return nil
}
func (m *mockProviders) ImageProviderName() string {
	if m.image != "" {
		return m.image
	}
	return m.active
}
func (m *mockProviders) SetImageProvider(name string) error {
	if name != "" && !m.HasProvider(name) {
		return errProviderMissing
	}
	m.image = name
	return nil
}
func (m *mockProviders) SupportsImageGeneration() bool { return m.canImage }

// testEnv bundles a Flyer with its collaborators.
type testEnv struct {
	flyer    *Flyer
	sessions *session.Manager
	text     *mockTextModel
	image    *mockImageModel
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	rn, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	sessions := session.NewManager(session.NewMemoryStore(time.Hour), catalog.Default(), session.Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	exporter := compose.NewExporter(compose.Options{Location: time.UTC})

	text := &mockTextModel{reply: `{"tagline": "Dance till dawn!"}`}
	img := &mockImageModel{data: testPNG(t, 30, 40)}
	providers := &mockProviders{active: "gemini", available: []string{"gemini", "openai"}, canImage: true}

	f := NewFlyer(rn, sessions, catalog.Default(), exporter,
		generate.NewTagline(text, nil), generate.NewImage(img, nil), providers, opts)
	return &testEnv{flyer: f, sessions: sessions, text: text, image: img}
}

// serve runs handler for req inside the test session.
func serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	req = req.WithContext(middleware.WithSessionID(req.Context(), testSession))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// withURLParam attaches a chi URL parameter to req.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// triggers decodes the HX-Trigger header of rr.
func triggers(t *testing.T, rr *httptest.ResponseRecorder) render.Triggers {
	t.Helper()
	var tr render.Triggers
	raw := rr.Header().Get(render.TriggerHeader)
	if raw == "" {
		return tr
	}
	if err := json.Unmarshal([]byte(raw), &tr); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v (%q)", err, raw)
	}
	return tr
}

// hasNotice reports whether tr carries a notice with title.
func hasNotice(tr render.Triggers, title string) bool {
	for _, n := range tr.Notify {
		if n.Title == title {
			return true
		}
	}
	return false
}

func (e *testEnv) snapshot(t *testing.T) flyer.Snapshot {
	t.Helper()
	snap, err := e.sessions.Snapshot(context.Background(), testSession)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return snap
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: 120, B: uint8(y * 6), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
