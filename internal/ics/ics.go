// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ics encodes a flyer's event as an iCalendar file.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"flyerly/internal/flyer"
)

// ProductID identifies the generator in PRODID.
const ProductID = "-//flyerly//EN"

// DefaultDuration is used for DTEND; a flyer only carries a start time.
const DefaultDuration = 2 * time.Hour

// ErrNoDate is returned for events without a date.
var ErrNoDate = errors.New("ics: event has no date")

// uidSpace namespaces the name-based event UIDs.
var uidSpace = uuid.MustParse("5f0c6a6e-9b1c-4c4e-8a53-0f1a7c3d2b61")

// Options tune the encoded event. The zero value is usable.
type Options struct {
	Tagline  string
	Duration time.Duration
	Now      time.Time // DTSTAMP; zero means time.Now
}

// Event encodes e as a VCALENDAR with a single VEVENT. The UID is derived
// from the name and start time so re-exports update the same calendar entry.
func Event(e flyer.EventDetails, opts Options) ([]byte, error) {
	if !e.HasDate() {
		return nil, ErrNoDate
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	summary := strings.TrimSpace(e.Name)
	if summary == "" {
		summary = "Event"
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, UID(e))
	ve.Props.SetText(ical.PropSummary, summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, opts.Now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.Date.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.Date.Add(opts.Duration).UTC())

	if desc := description(opts.Tagline, e.Description); desc != "" {
		ve.Props.SetText(ical.PropDescription, desc)
	}
	if e.Location != "" {
		ve.Props.SetText(ical.PropLocation, e.Location)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Children = append(cal.Children, ve)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("ics: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// UID returns the stable identifier used for e.
func UID(e flyer.EventDetails) string {
	key := e.Name + "\x00" + e.Date.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uidSpace, []byte(key)).String() + "@flyerly"
}

func description(tagline, body string) string {
	tagline, body = strings.TrimSpace(tagline), strings.TrimSpace(body)
	switch {
	case tagline == "":
		return body
	case body == "":
		return tagline
	default:
		return tagline + "\n\n" + body
	}
}
