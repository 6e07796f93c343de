package handlers

import (
	"fmt"
	"unicode/utf8"

	"flyerly/internal/flyer"
)

// Length limits for flyer text. The flyer itself has no cross-field rules;
// these only keep a session from growing without bound.
const (
	maxNameLen        = 200
	maxDescriptionLen = 5_000
	maxLocationLen    = 300
	maxTaglineLen     = 300
	maxDateLen        = 64
)

var fieldLimits = map[flyer.Field]int{
	flyer.FieldName:        maxNameLen,
	flyer.FieldDescription: maxDescriptionLen,
	flyer.FieldLocation:    maxLocationLen,
	flyer.FieldDate:        maxDateLen,
}

// validateField checks one event field value and returns the first error found.
func validateField(field flyer.Field, value string) string {
	limit, ok := fieldLimits[field]
	if !ok {
		return fmt.Sprintf("Unknown field %q.", field)
	}
	if utf8.RuneCountInString(value) > limit {
		return fmt.Sprintf("%s is too long (max %d characters).", fieldLabel(field), limit)
	}
	return ""
}

// validateTagline checks a manually entered tagline.
func validateTagline(tagline string) string {
	if utf8.RuneCountInString(tagline) > maxTaglineLen {
		return fmt.Sprintf("Tagline is too long (max %d characters).", maxTaglineLen)
	}
	return ""
}

func fieldLabel(field flyer.Field) string {
	switch field {
	case flyer.FieldName:
		return "Event name"
	case flyer.FieldDescription:
		return "Description"
	case flyer.FieldDate:
		return "Date"
	case flyer.FieldLocation:
		return "Location"
	}
	return string(field)
}
