// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package compose turns a flyer snapshot into its on-screen preview and its
// downloadable artifacts: the untouched raster image, a one-page 600×800
// PDF and an iCalendar file. It only reads snapshots.
package compose

import (
	"time"

	"flyerly/internal/flyer"
)

// DefaultDecodeTimeout bounds image decoding during document export.
const DefaultDecodeTimeout = 5 * time.Second

// Options configure an Exporter.
type Options struct {
	Page          Page
	Location      *time.Location // for formatting dates; nil means time.Local
	DecodeTimeout time.Duration
	CalendarQR    bool // stamp an "add to calendar" QR code on documents with a date
	Creator       string
}

// Exporter produces flyer artifacts. It is safe for concurrent use.
type Exporter struct {
	opts     Options
	compress bool
}

// NewExporter fills in defaults for zero Options fields.
func NewExporter(opts Options) *Exporter {
	if opts.Page == (Page{}) {
		opts.Page = DefaultPage
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DecodeTimeout <= 0 {
		opts.DecodeTimeout = DefaultDecodeTimeout
	}
	if opts.Creator == "" {
		opts.Creator = "flyerly"
	}
	return &Exporter{opts: opts, compress: true}
}

// Artifact is a file ready to download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

func notify(n flyer.Notifier, notice flyer.Notice) {
	if n != nil {
		n.Notify(notice)
	}
}
