// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"golang.org/x/image/bmp"

	"flyerly/internal/flyer"
)

// uploadRequest builds a multipart upload with one "file" part. An empty
// contentType leaves the file part out.
func uploadRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if contentType != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="poster.png"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(data)
	} else {
		mw.WriteField("note", "no file here")
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/flyer/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t, Options{})
	data := testPNG(t, 60, 80)

	rr := serve(env.flyer.UploadImage, uploadRequest(t, "image/png", data))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rr.Code, rr.Body.String())
	}
	tr := triggers(t, rr)
	if !hasNotice(tr, "Image Uploaded!") || tr.Image == nil {
		t.Errorf("triggers = %+v", tr)
	}

	snap := env.snapshot(t)
	if snap.Image.Source != flyer.ImageUploaded || snap.Image.ContentType != "image/png" {
		t.Errorf("image = %v %q", snap.Image.Source, snap.Image.ContentType)
	}
	if !bytes.Equal(snap.Image.Data, data) {
		t.Error("uploaded bytes must be stored untouched")
	}
}

func TestUploadImageRejections(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		data        []byte
		title       string
	}{
		{"no file", "", nil, "No File Selected"},
		{"declared text", "text/plain", []byte("hello"), "Invalid File Type"},
		{"not really an image", "image/png", []byte("definitely not a png"), "Invalid File Type"},
		{"svg", "image/svg+xml", []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"/>`), "Unsupported Image Format"},
		{"icon", "image/x-icon", []byte("\x00\x00\x01\x00\x01\x00\x10\x10\x00\x00"), "Unsupported Image Format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Options{})

			rr := serve(env.flyer.UploadImage, uploadRequest(t, tt.contentType, tt.data))
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rr.Code)
			}
			if !hasNotice(triggers(t, rr), tt.title) {
				t.Errorf("expected %q notice", tt.title)
			}
			if env.snapshot(t).Image.IsSet() {
				t.Error("rejected upload must not set an image")
			}
		})
	}
}

func TestUploadImageBMP(t *testing.T) {
	env := newTestEnv(t, Options{})
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, 30, 40))); err != nil {
		t.Fatalf("encode bmp: %v", err)
	}

	rr := serve(env.flyer.UploadImage, uploadRequest(t, "image/bmp", buf.Bytes()))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rr.Code, rr.Body.String())
	}
	if ct := env.snapshot(t).Image.ContentType; ct != "image/bmp" {
		t.Errorf("content type = %q, want image/bmp", ct)
	}
}

func TestUploadImageTooLarge(t *testing.T) {
	env := newTestEnv(t, Options{MaxUploadBytes: 1024})

	rr := serve(env.flyer.UploadImage, uploadRequest(t, "image/png", bytes.Repeat([]byte{0x89}, 8192)))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rr.Code)
	}
	if !hasNotice(triggers(t, rr), "File Too Large") {
		t.Error("expected File Too Large notice")
	}
}

func TestRemoveImage(t *testing.T) {
	env := newTestEnv(t, Options{})
	serve(env.flyer.UploadImage, uploadRequest(t, "image/png", testPNG(t, 10, 10)))

	rr := serve(env.flyer.RemoveImage, httptest.NewRequest(http.MethodDelete, "/flyer/image", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if !hasNotice(triggers(t, rr), "Image Removed") {
		t.Error("expected Image Removed notice")
	}
	if env.snapshot(t).Image.IsSet() {
		t.Error("image still set")
	}
}

func TestImageThumb(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := serve(env.flyer.ImageThumb, httptest.NewRequest(http.MethodGet, "/flyer/image/thumb", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("thumb without image: status = %d, want 404", rr.Code)
	}

	serve(env.flyer.UploadImage, uploadRequest(t, "image/png", testPNG(t, 300, 400)))
	rr = serve(env.flyer.ImageThumb, httptest.NewRequest(http.MethodGet, "/flyer/image/thumb?v=2", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestImageControlsFragment(t *testing.T) {
	env := newTestEnv(t, Options{})
	serve(env.flyer.UploadImage, uploadRequest(t, "image/png", testPNG(t, 10, 10)))

	rr := serve(env.flyer.ImageControls, httptest.NewRequest(http.MethodGet, "/flyer/image/controls", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("/flyer/image/thumb")) {
		t.Error("controls should show the thumbnail once an image is set")
	}
}
