// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging validates flyer images and converts them for export. It
// is pure Go: decoding uses the standard image codecs plus WebP and BMP from
// golang.org/x/image, resampling uses x/image/draw, and re-encoding uses
// disintegration/imaging.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"net/http"
	"strings"
	"time"

	dimg "github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// MaxPixels rejects decompression bombs before a full decode.
const MaxPixels = 50_000_000

const thumbQuality = 80

var (
	// ErrNotImage is returned for data that is not a decodable raster image.
	ErrNotImage = errors.New("imaging: not a supported image")

	// ErrUnsupported is returned for an image in a format no registered
	// decoder reads, such as SVG or ICO.
	ErrUnsupported = errors.New("imaging: unsupported image format")

	// ErrTooLarge is returned when the pixel count exceeds MaxPixels.
	ErrTooLarge = errors.New("imaging: image dimensions too large")

	// ErrDecodeTimeout is returned when decoding outlives its deadline.
	ErrDecodeTimeout = errors.New("imaging: decode timed out")
)

// Info describes a validated image.
type Info struct {
	ContentType string
	Format      string // "png", "jpeg", "gif", "webp", "bmp"
	Width       int
	Height      int
}

// AspectRatio returns width / height.
func (i Info) AspectRatio() float64 {
	if i.Height == 0 {
		return 0
	}
	return float64(i.Width) / float64(i.Height)
}

// DeclaredImage reports whether a client-declared media type is an image.
func DeclaredImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// supportedTypes are the media types a registered decoder reads.
var supportedTypes = map[string]bool{
	"image/png":      true,
	"image/jpeg":     true,
	"image/jpg":      true,
	"image/pjpeg":    true,
	"image/gif":      true,
	"image/webp":     true,
	"image/bmp":      true,
	"image/x-ms-bmp": true,
}

// Supported reports whether a declared media type is one Inspect can decode.
func Supported(contentType string) bool {
	mt := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return supportedTypes[mt]
}

// Inspect sniffs data, decodes only the header and checks the pixel budget.
func Inspect(data []byte) (Info, error) {
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return Info{}, fmt.Errorf("%w: detected %s", ErrNotImage, ct)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return Info{}, fmt.Errorf("%w: detected %s", ErrUnsupported, ct)
	}
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%w: empty dimensions", ErrNotImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Info{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}

	return Info{ContentType: ct, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// InspectWithin runs Inspect bounded by ctx and timeout. A zero timeout
// relies on ctx alone.
func InspectWithin(ctx context.Context, data []byte, timeout time.Duration) (Info, error) {
	return within(ctx, timeout, func() (Info, error) { return Inspect(data) })
}

// DecodeWithin fully decodes data, applying EXIF orientation, bounded by ctx
// and timeout.
func DecodeWithin(ctx context.Context, data []byte, timeout time.Duration) (image.Image, error) {
	return within(ctx, timeout, func() (image.Image, error) {
		if _, err := Inspect(data); err != nil {
			return nil, err
		}
		img, err := dimg.Decode(bytes.NewReader(data), dimg.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
		}
		return img, nil
	})
}

// within runs fn in its own goroutine so a stuck decoder cannot hold the
// caller past the deadline. The goroutine finishes on its own.
func within[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrDecodeTimeout
		}
		return zero, ctx.Err()
	}
}

// PNG encodes img as PNG.
func PNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := dimg.Encode(&buf, img, dimg.PNG); err != nil {
		return nil, fmt.Errorf("imaging: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FitPNG scales img down to fit within maxW×maxH, preserving aspect ratio,
// and encodes the result as PNG. Smaller images are not upscaled.
func FitPNG(img image.Image, maxW, maxH int) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > maxW || b.Dy() > maxH {
		img = dimg.Fit(img, maxW, maxH, dimg.Lanczos)
	}
	return PNG(img)
}

// Thumbnail returns a JPEG no wider than maxWidth. Images already narrow
// enough are scaled 1:1 so the result is always a JPEG.
func Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	info, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	w, h := info.Width, info.Height
	if w > maxWidth {
		h = int(float64(h) * float64(maxWidth) / float64(w))
		w = maxWidth
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension maps an image content type or format name to a file extension
// without the dot.
func Extension(contentType string) string {
	switch strings.TrimPrefix(strings.ToLower(contentType), "image/") {
	case "jpeg", "jpg":
		return "jpg"
	case "png":
		return "png"
	case "gif":
		return "gif"
	case "webp":
		return "webp"
	default:
		return ""
	}
}
