package handlers

import (
	"strings"
	"testing"

	"flyerly/internal/flyer"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name      string
		field     flyer.Field
		value     string
		wantError bool
	}{
		{"valid name", flyer.FieldName, "Summer Fest", false},
		{"empty name allowed", flyer.FieldName, "", false},
		{"name too long", flyer.FieldName, strings.Repeat("a", 201), true},
		{"name at limit", flyer.FieldName, strings.Repeat("a", 200), false},
		{"description too long", flyer.FieldDescription, strings.Repeat("a", 5_001), true},
		{"location too long", flyer.FieldLocation, strings.Repeat("a", 301), true},
		{"multibyte counted as runes", flyer.FieldName, strings.Repeat("é", 200), false},
		{"unknown field", flyer.Field("tagline"), "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateField(tt.field, tt.value)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateTagline(t *testing.T) {
	if msg := validateTagline("Let's make this year the best one yet!"); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}
	if msg := validateTagline(strings.Repeat("a", 301)); msg == "" {
		t.Error("expected an error for a long tagline")
	}
}
