// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"fmt"
	"strings"

	"flyerly/internal/flyer"
	"flyerly/internal/imaging"
	"flyerly/internal/slug"
)

// ImageFormats are the extensions accepted by Exporter.Image.
var ImageFormats = []string{"png", "jpg", "jpeg", "webp", "gif"}

// Image returns the active image bytes untouched. format only picks the
// file extension; an empty format follows the image's own type.
func (x *Exporter) Image(s flyer.Snapshot, format string, n flyer.Notifier) (Artifact, error) {
	if !s.Image.IsSet() {
		const msg = "Please generate or upload an image for your flyer first."
		notify(n, flyer.Failure("No Image to Download", msg))
		return Artifact{}, flyer.Invalid("No Image to Download", msg)
	}

	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if ext == "" {
		ext = imaging.Extension(s.Image.ContentType)
		if ext == "" {
			ext = "png"
		}
	}
	if !validFormat(ext) {
		msg := fmt.Sprintf("Format %q is not supported. Use one of: %s.", format, strings.Join(ImageFormats, ", "))
		notify(n, flyer.Failure("Unsupported Format", msg))
		return Artifact{}, flyer.Invalid("Unsupported Format", msg)
	}

	filename := slug.WithExt(s.Event.Name, ext)
	notify(n, flyer.Success("Download Started", "Your flyer image is downloading as "+filename+"."))
	return Artifact{
		Filename:    filename,
		ContentType: s.Image.ContentType,
		Data:        s.Image.Data,
	}, nil
}

func validFormat(ext string) bool {
	for _, f := range ImageFormats {
		if f == ext {
			return true
		}
	}
	return false
}
