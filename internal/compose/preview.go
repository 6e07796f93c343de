// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"html/template"
	"time"

	"flyerly/internal/flyer"
	"flyerly/internal/markdown"
)

// DefaultPlaceholderURL is shown while no image is active.
const DefaultPlaceholderURL = "https://placehold.co/600x800.png"

// Overlay fallbacks for the placeholder image.
const (
	OverlayNameFallback    = "Your Event Title"
	OverlayTaglineFallback = "Catchy Tagline Here"
)

// PreviewOptions configure Preview.
type PreviewOptions struct {
	PlaceholderURL string
	Location       *time.Location
}

// PreviewModel is everything the preview template needs.
type PreviewModel struct {
	Version uint64

	Title   string // event name or FallbackName
	Tagline string

	ImageSrc      template.URL
	ImageAlt      string
	ImageHint     string
	ImageSource   string
	IsPlaceholder bool

	// The overlay repeats the name and tagline over the placeholder so the
	// image area is never text-empty. Hidden once an image is active.
	ShowOverlay    bool
	OverlayName    string
	OverlayTagline string

	Date           string
	HasDate        bool
	Location       string
	Description    template.HTML
	HasDescription bool

	CanDownloadImage bool
	CanDownloadPDF   bool
	CanDownloadICS   bool
}

// Preview renders s for the on-screen preview.
func Preview(s flyer.Snapshot, opts PreviewOptions) PreviewModel {
	if opts.PlaceholderURL == "" {
		opts.PlaceholderURL = DefaultPlaceholderURL
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	m := PreviewModel{
		Version:          s.Version,
		Title:            orDefault(s.Event.Name, FallbackName),
		Tagline:          s.Tagline,
		ImageHint:        s.ImageHint,
		ImageSource:      s.Image.Source.String(),
		Location:         s.Event.Location,
		CanDownloadImage: s.Image.IsSet(),
		CanDownloadPDF:   s.HasContent(),
		CanDownloadICS:   s.Event.HasDate(),
	}

	if s.Image.IsSet() {
		// Data URIs from our own store; template.URL keeps html/template
		// from rewriting them to #ZgotmplZ.
		m.ImageSrc = template.URL(s.Image.DataURI())
		m.ImageAlt = "Event Flyer Image"
	} else {
		m.ImageSrc = template.URL(opts.PlaceholderURL)
		m.ImageAlt = "Flyer Preview Placeholder"
		m.IsPlaceholder = true
		m.ShowOverlay = true
		m.OverlayName = orDefault(s.Event.Name, OverlayNameFallback)
		m.OverlayTagline = orDefault(s.Tagline, OverlayTaglineFallback)
	}

	if s.Event.HasDate() {
		m.HasDate = true
		m.Date = flyer.FormatDate(s.Event.Date, opts.Location)
	}
	if s.Event.Description != "" {
		m.HasDescription = true
		m.Description = markdown.Safe(s.Event.Description)
	}
	return m
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
