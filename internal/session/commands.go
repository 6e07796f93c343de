// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"fmt"
	"time"

	"flyerly/internal/flyer"
)

// Command is one mutation of a flyer session. The set is closed: every
// command is defined in this file.
type Command interface {
	// Name identifies the command in logs and change events.
	Name() string

	apply(env env, s flyer.Snapshot) (flyer.Snapshot, []flyer.Notice, error)
}

// env is what commands may read besides the snapshot.
type env struct {
	catalog  Catalog
	location *time.Location
	now      time.Time
}

// UpdateField patches exactly one event field. There is no cross-field
// validation; only a malformed date is rejected.
type UpdateField struct {
	Field flyer.Field
	Value string
}

func (UpdateField) Name() string { return "update_field" }

func (c UpdateField) apply(e env, s flyer.Snapshot) (flyer.Snapshot, []flyer.Notice, error) {
	event, err := s.Event.With(c.Field, c.Value, e.location)
	if err != nil {
		if c.Field == flyer.FieldDate {
			return s, nil, flyer.Invalid("Invalid Date", fmt.Sprintf("%q is not a date. Use the date picker or YYYY-MM-DDTHH:MM.", c.Value))
		}
		return s, nil, flyer.Invalid("Unknown Field", fmt.Sprintf("%q is not an event field.", c.Field))
	}
	return s.WithEvent(event), nil, nil
}

// SetTagline replaces the tagline unconditionally.
type SetTagline struct {
	Text string
}

func (SetTagline) Name() string { return "set_tagline" }

func (c SetTagline) apply(_ env, s flyer.Snapshot) (flyer.Snapshot, []flyer.Notice, error) {
	return s.WithTagline(c.Text), nil, nil
}

// SetImage replaces the active image; the previous one, whatever its
// source, is gone.
type SetImage struct {
	Image flyer.Image
}

func (SetImage) Name() string { return "set_image" }

func (c SetImage) apply(_ env, s flyer.Snapshot) (flyer.Snapshot, []flyer.Notice, error) {
	var notice flyer.Notice
	switch c.Image.Source {
	case flyer.ImageGenerated:
		notice = flyer.Success("AI Image Set!", "The AI generated image is now set as the flyer image.")
	case flyer.ImageUploaded:
		notice = flyer.Success("Image Uploaded!", "Your image has been set as the flyer image.")
	default:
		notice = flyer.Info("Image Removed", "The flyer is showing the placeholder image again.")
	}
	return s.WithImage(c.Image), []flyer.Notice{notice}, nil
}

// ApplyTemplate applies a catalog template's defaults. An unknown id is an
// error and leaves the snapshot untouched.
type ApplyTemplate struct {
	ID string
}

func (ApplyTemplate) Name() string { return "apply_template" }

func (c ApplyTemplate) apply(e env, s flyer.Snapshot) (flyer.Snapshot, []flyer.Notice, error) {
	t, ok := e.catalog.Lookup(c.ID)
	if !ok {
		return s, nil, fmt.Errorf("%w: %q", flyer.ErrUnknownTemplate, c.ID)
	}
	notice := flyer.Success("Template Selected!", fmt.Sprintf("The %q template has been applied.", t.Name))
	return s.WithTemplate(t), []flyer.Notice{notice}, nil
}

// Reset returns the session to the seed state. The version keeps counting
// so subscribers never see it go backwards.
type Reset struct{}

func (Reset) Name() string { return "reset" }

func (Reset) apply(e env, s flyer.Snapshot) (flyer.Snapshot, []flyer.Notice, error) {
	seed := flyer.NewSnapshot(e.now)
	seed.Version = s.Version + 1
	return seed, []flyer.Notice{flyer.Info("Flyer Reset", "The flyer has been reset to its starting values.")}, nil
}
