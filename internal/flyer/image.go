// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package flyer

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ImageSource tags where the active image came from.
type ImageSource int

const (
	ImageNone ImageSource = iota
	ImageUploaded
	ImageGenerated
)

func (s ImageSource) String() string {
	switch s {
	case ImageUploaded:
		return "uploaded"
	case ImageGenerated:
		return "generated"
	default:
		return "none"
	}
}

// Image is the single active flyer image. The zero value is "no image"; the
// preview then falls back to the placeholder asset.
type Image struct {
	Source      ImageSource `json:"source"`
	ContentType string      `json:"content_type,omitempty"`
	Data        []byte      `json:"data,omitempty"`
}

// NewImage builds an image of the given source. A source of ImageNone or
// empty data yields the zero Image.
func NewImage(src ImageSource, contentType string, data []byte) Image {
	if src == ImageNone || len(data) == 0 {
		return Image{}
	}
	return Image{Source: src, ContentType: contentType, Data: data}
}

// IsSet reports whether an uploaded or generated image is active.
func (i Image) IsSet() bool {
	return i.Source != ImageNone && len(i.Data) > 0
}

// DataURI encodes the image as a base64 data URI. Returns "" when unset.
func (i Image) DataURI() string {
	if !i.IsSet() {
		return ""
	}
	ct := i.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ParseDataURI decodes a base64 data URI into an image of the given source.
func ParseDataURI(src ImageSource, uri string) (Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Image{}, fmt.Errorf("flyer: not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("flyer: malformed data URI")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return Image{}, fmt.Errorf("flyer: data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("flyer: decode data URI: %w", err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("flyer: empty data URI")
	}
	return NewImage(src, contentType, data), nil
}
