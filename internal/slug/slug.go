// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives download filenames from event names.
package slug

import (
	"regexp"
	"strings"
)

// Fallback is used when a name has no letters or digits left.
const Fallback = "flyer"

var (
	// nonAlphanumeric matches a single character outside [a-z0-9].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)
	alphanumeric    = regexp.MustCompile(`[a-z0-9]`)
)

// Filename returns the base filename for an event name: lowercased, with
// every character other than a-z and 0-9 replaced by "_" (no collapsing).
// Example: "My Event! 2024" → "my_event__2024"
func Filename(name string) string {
	result := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "_")
	if !alphanumeric.MatchString(result) {
		return Fallback
	}
	return result
}

// WithExt joins Filename(name) and ext, e.g. "summer_fest.pdf".
func WithExt(name, ext string) string {
	return Filename(name) + "." + strings.TrimPrefix(ext, ".")
}
