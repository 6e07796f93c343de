// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"flyerly/internal/flyer"
	"flyerly/internal/imaging"
	"flyerly/internal/render"
)

// thumbMaxWidth is the width of the editor's image thumbnail.
const thumbMaxWidth = 160

const (
	invalidTypeMessage     = "Please select an image file (e.g., PNG, JPG, GIF)."
	unsupportedTypeMessage = "This image format cannot be used on a flyer. Please use PNG, JPEG, GIF, WebP or BMP."
)

// UploadImage accepts a multipart "file" and makes it the active image.
// The declared type must start with image/ and the bytes must decode as an
// image; the bytes are stored untouched.
func (h *Flyer) UploadImage(w http.ResponseWriter, r *http.Request) {
	limit := h.opts.MaxUploadBytes
	tooLarge := flyer.Invalid("File Too Large",
		fmt.Sprintf("Maximum size is %d MB.", limit>>20))

	r.Body = http.MaxBytesReader(w, r.Body, limit+1024)
	if err := r.ParseMultipartForm(limit); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.failStatus(w, r, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		h.fail(w, r, "", flyer.Invalid("File Read Error", "Could not read the selected file."), nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, "", flyer.Invalid("No File Selected", "Please choose an image file to upload."), nil)
		return
	}
	defer file.Close()

	if header.Size > limit {
		h.failStatus(w, r, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	if !imaging.DeclaredImage(header.Header.Get("Content-Type")) {
		h.fail(w, r, "", flyer.Invalid("Invalid File Type", invalidTypeMessage), nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, "", flyer.Invalid("File Read Error", "Could not read the selected file."), nil)
		return
	}

	info, err := imaging.Inspect(data)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		h.fail(w, r, "", flyer.Invalid("Image Too Large", "The image has too many pixels to be used on a flyer."), nil)
		return
	case errors.Is(err, imaging.ErrUnsupported),
		err != nil && !imaging.Supported(header.Header.Get("Content-Type")):
		slog.Debug("upload rejected", "error", err, "declared", header.Header.Get("Content-Type"))
		h.fail(w, r, "", flyer.Invalid("Unsupported Image Format", unsupportedTypeMessage), nil)
		return
	case err != nil:
		slog.Debug("upload rejected", "error", err, "declared", header.Header.Get("Content-Type"))
		h.fail(w, r, "", flyer.Invalid("Invalid File Type", invalidTypeMessage), nil)
		return
	}

	slog.Info("image uploaded", "type", info.ContentType, "width", info.Width, "height", info.Height, "bytes", len(data))
	h.setImage(w, r, flyer.NewImage(flyer.ImageUploaded, info.ContentType, data), nil)
}

// ImageControls renders the upload/remove fragment after the image changed.
func (h *Flyer) ImageControls(w http.ResponseWriter, r *http.Request) {
	id, snap, ok := h.current(w, r)
	if !ok {
		return
	}
	h.renderer.Fragment(w, http.StatusOK, "image_controls", h.pageData(r, id, snap))
}

// ImageThumb serves a small JPEG of the active image for the editor. The
// "w" query parameter picks the width, up to the image's own.
func (h *Flyer) ImageThumb(w http.ResponseWriter, r *http.Request) {
	_, snap, ok := h.current(w, r)
	if !ok {
		return
	}
	if !snap.Image.IsSet() {
		http.NotFound(w, r)
		return
	}

	width := thumbMaxWidth
	if v, err := strconv.Atoi(r.URL.Query().Get("w")); err == nil && v > 0 && v <= 4*thumbMaxWidth {
		width = v
	}

	thumb, err := imaging.Thumbnail(snap.Image.Data, width)
	if err != nil {
		slog.Warn("thumbnail failed", "error", err)
		http.Error(w, "cannot render thumbnail", http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(thumb)
}

// failStatus is fail with an explicit status code.
func (h *Flyer) failStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	title, msg := titleFor(err, ""), flyer.UserMessage(err)
	render.Notify(w, flyer.Failure(title, msg))
	if wantsJSON(r) {
		writeJSON(w, status, map[string]string{"error": title, "message": msg})
		return
	}
	http.Error(w, msg, status)
}
