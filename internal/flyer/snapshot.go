// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package flyer

import "time"

// Seed values used when a session starts.
const (
	DefaultTagline   = "Your Amazing Tagline Goes Here!"
	DefaultImageHint = "event poster"
	CustomImageHint  = "event flyer custom"

	seedName        = "My Awesome Event"
	seedDescription = "Join us for an unforgettable experience filled with fun, music, and networking opportunities. This event is perfect for professionals and enthusiasts alike. We will have guest speakers, workshops, and a grand finale party!"
	seedLocation    = "123 Main Street, Anytown, USA"
)

// Snapshot is one immutable version of a flyer session. Mutations produce a
// new Snapshot with a higher Version; a Snapshot is never edited in place.
type Snapshot struct {
	Version   uint64       `json:"version"`
	Event     EventDetails `json:"event"`
	Tagline   string       `json:"tagline"`
	Image     Image        `json:"image"`
	ImageHint string       `json:"image_hint"`
}

// NewSnapshot returns the seed state for a new session.
func NewSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Version: 1,
		Event: EventDetails{
			Name:        seedName,
			Description: seedDescription,
			Date:        now.Truncate(time.Minute),
			Location:    seedLocation,
		},
		Tagline:   DefaultTagline,
		ImageHint: DefaultImageHint,
	}
}

// HasContent reports whether there is anything at all to put in a document.
func (s Snapshot) HasContent() bool {
	return s.Image.IsSet() || s.Tagline != "" || !s.Event.IsEmpty()
}

// next returns a copy of s with the version bumped.
func (s Snapshot) next() Snapshot {
	s.Version++
	return s
}

// WithEvent returns the next snapshot with the event details replaced.
func (s Snapshot) WithEvent(e EventDetails) Snapshot {
	n := s.next()
	n.Event = e
	return n
}

// WithTagline returns the next snapshot with the tagline replaced wholesale.
func (s Snapshot) WithTagline(tagline string) Snapshot {
	n := s.next()
	n.Tagline = tagline
	return n
}

// WithImage returns the next snapshot with img as the only active image.
func (s Snapshot) WithImage(img Image) Snapshot {
	n := s.next()
	n.Image = img
	if img.IsSet() {
		n.ImageHint = CustomImageHint
	} else {
		n.ImageHint = DefaultImageHint
	}
	return n
}

// WithTemplate returns the next snapshot with t's defaults applied. Only
// fields for which t carries a default are overwritten; the active image is
// always reset so the placeholder shows t's image hint.
func (s Snapshot) WithTemplate(t Template) Snapshot {
	n := s.next()
	if t.DefaultEventName != "" {
		n.Event.Name = t.DefaultEventName
	}
	if t.DefaultEventDescription != "" {
		n.Event.Description = t.DefaultEventDescription
	}
	if t.DefaultTagline != "" {
		n.Tagline = t.DefaultTagline
	}
	n.Image = Image{}
	n.ImageHint = DefaultImageHint
	if t.DefaultImageHint != "" {
		n.ImageHint = t.DefaultImageHint
	}
	return n
}
