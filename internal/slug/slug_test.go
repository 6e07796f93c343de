package slug

import "testing"

// TestFilename covers typical event names, punctuation, unicode and the
// fallback for names that reduce to nothing.
func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal names ---
		{
			name:  "name with year and bang",
			input: "My Event! 2024",
			want:  "my_event__2024",
		},
		{
			name:  "two words",
			input: "Summer Fest",
			want:  "summer_fest",
		},
		{
			name:  "already clean",
			input: "meetup",
			want:  "meetup",
		},
		{
			name:  "digits only",
			input: "2024",
			want:  "2024",
		},

		// --- Characters are replaced one for one ---
		{
			name:  "leading and trailing spaces kept as underscores",
			input: " Gala ",
			want:  "_gala_",
		},
		{
			name:  "hyphen and dot",
			input: "Rock-n-Roll v2.0",
			want:  "rock_n_roll_v2_0",
		},
		{
			name:  "accented letters",
			input: "Café Night",
			want:  "caf__night",
		},

		// --- Fallback ---
		{
			name:  "empty string",
			input: "",
			want:  "flyer",
		},
		{
			name:  "all symbols",
			input: "!!! ???",
			want:  "flyer",
		},
		{
			name:  "only non-latin letters",
			input: "音楽祭",
			want:  "flyer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.input)
			if got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWithExt(t *testing.T) {
	tests := []struct {
		name, ext, want string
	}{
		{"Summer Fest", "pdf", "summer_fest.pdf"},
		{"Summer Fest", ".png", "summer_fest.png"},
		{"", "jpg", "flyer.jpg"},
	}
	for _, tt := range tests {
		if got := WithExt(tt.name, tt.ext); got != tt.want {
			t.Errorf("WithExt(%q, %q) = %q, want %q", tt.name, tt.ext, got, tt.want)
		}
	}
}
