// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package flyer

// Template is an immutable catalog entry. Empty default fields are absent
// and leave the corresponding session value untouched when applied.
type Template struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`
	Icon        string `yaml:"icon" json:"icon"`

	DefaultEventName        string `yaml:"default_event_name,omitempty" json:"default_event_name,omitempty"`
	DefaultEventDescription string `yaml:"default_event_description,omitempty" json:"default_event_description,omitempty"`
	DefaultTagline          string `yaml:"default_tagline,omitempty" json:"default_tagline,omitempty"`
	DefaultImageHint        string `yaml:"default_image_hint,omitempty" json:"default_image_hint,omitempty"`
}
