// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package flyer defines the event flyer data model: the user-entered event
// details, the active image, the template catalog entry shape, and the
// immutable session snapshot the rest of the application reads from.
package flyer

import (
	"fmt"
	"strings"
	"time"
)

// Field identifies one editable attribute of EventDetails.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldDate        Field = "date"
	FieldLocation    Field = "location"
)

// ParseField maps a form field name onto a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldName, FieldDescription, FieldDate, FieldLocation:
		return f, nil
	}
	return "", fmt.Errorf("flyer: unknown field %q", s)
}

// EventDetails holds the user-entered event attributes. Empty strings and a
// zero Date mean "not provided"; no field is ever absent.
type EventDetails struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date,omitzero"`
	Location    string    `json:"location"`
}

// HasDate reports whether a date has been set.
func (e EventDetails) HasDate() bool {
	return !e.Date.IsZero()
}

// IsEmpty reports whether every field is empty.
func (e EventDetails) IsEmpty() bool {
	return e.Name == "" && e.Description == "" && e.Location == "" && !e.HasDate()
}

// dateLayout renders "Thursday, July 04, 2024 at 6:00 PM".
const dateLayout = "Monday, January 02, 2006 at 3:04 PM"

// inputLayouts are the accepted date input formats, tried in order.
var inputLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatDate renders t as full weekday, month, day, year and 12-hour time in
// loc. A nil loc keeps t's own location.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateLayout)
}

// DateInput renders t for an HTML datetime-local input in loc. The zero
// time renders as "".
func DateInput(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(inputLayouts[0])
}

// ParseDate parses a date entered in a form. Values without an offset are
// interpreted in loc. An empty value yields the zero time (date unset).
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("flyer: invalid date %q", value)
}

// With returns a copy of e with a single field replaced.
func (e EventDetails) With(field Field, value string, loc *time.Location) (EventDetails, error) {
	switch field {
	case FieldName:
		e.Name = value
	case FieldDescription:
		e.Description = value
	case FieldLocation:
		e.Location = value
	case FieldDate:
		t, err := ParseDate(value, loc)
		if err != nil {
			return e, err
		}
		e.Date = t
	default:
		return e, fmt.Errorf("flyer: unknown field %q", field)
	}
	return e, nil
}
