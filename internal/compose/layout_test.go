// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monospace measures every rune as 10pt wide.
type monospace struct{}

func (monospace) StringWidth(_ Section, s string) float64 {
	return float64(utf8.RuneCountInString(s)) * 10
}

func sections(p Plan) []Section {
	var out []Section
	for _, b := range p.Blocks {
		out = append(out, b.Section)
	}
	return out
}

func TestLayout_SummerFestTextOnly(t *testing.T) {
	plan := Layout(DefaultPage, Content{
		Name:        "Summer Fest",
		Date:        "Thursday, July 04, 2024 at 6:00 PM",
		Location:    "Central Park",
		Description: "Music and food",
	}, monospace{})

	assert.Nil(t, plan.Image)
	assert.Equal(t, []Section{SectionName, SectionDate, SectionLocation, SectionDescription}, sections(plan))

	// margin 30 + 20 (no image) = 50 for the name.
	name := plan.Blocks[0]
	assert.Equal(t, 50.0, name.Y)
	assert.Equal(t, AlignCenter, name.Align)
	assert.Equal(t, 300.0, name.X)
	assert.Equal(t, []string{"Summer Fest"}, name.Lines)

	// 50 + 1*32 + 10 = 92 for the date, 112 for the location,
	// 112 + 14 + 10 + 5 = 141 for the description.
	assert.Equal(t, 92.0, plan.Blocks[1].Y)
	assert.Equal(t, AlignLeft, plan.Blocks[1].Align)
	assert.Equal(t, 30.0, plan.Blocks[1].X)
	assert.Equal(t, 112.0, plan.Blocks[2].Y)
	assert.Equal(t, 141.0, plan.Blocks[3].Y)
	assert.Equal(t, 153.0, plan.End)
}

func TestLayout_EmptyNameFallsBack(t *testing.T) {
	plan := Layout(DefaultPage, Content{}, monospace{})
	require.Len(t, plan.Blocks, 1)
	assert.Equal(t, []string{FallbackName}, plan.Blocks[0].Lines)
}

func TestLayout_TaglineIsNarrowerAndSkippedWhenEmpty(t *testing.T) {
	with := Layout(DefaultPage, Content{Name: "A", Tagline: "Be there"}, monospace{})
	require.Len(t, with.Blocks, 2)
	assert.Equal(t, SectionTagline, with.Blocks[1].Section)
	assert.Equal(t, DefaultPage.ContentWidth()-20, with.Blocks[1].Width)

	without := Layout(DefaultPage, Content{Name: "A"}, monospace{})
	assert.Len(t, without.Blocks, 1)
	assert.Less(t, without.End, with.End)
}

func TestLayout_WrappedLinesAdvanceCursor(t *testing.T) {
	// 540pt at 10pt per rune fits 54 runes per line.
	long := "aaaa bbbb cccc dddd eeee ffff gggg hhhh iiii jjjj kkkk llll mmmm nnnn"
	plan := Layout(DefaultPage, Content{Name: "N", Location: long}, monospace{})

	loc := plan.Blocks[1]
	require.Len(t, loc.Lines, 2)
	for _, l := range loc.Lines {
		assert.LessOrEqual(t, monospace{}.StringWidth(SectionLocation, l), DefaultPage.ContentWidth())
	}
	assert.Equal(t, loc.Y+2*14+10, plan.End)
}

func TestFitImage(t *testing.T) {
	t.Run("wide image fills content width", func(t *testing.T) {
		box := FitImage(DefaultPage, 1200, 600, 30)
		assert.Equal(t, 540.0, box.W)
		assert.Equal(t, 270.0, box.H)
		assert.Equal(t, 30.0, box.X)
		assert.Equal(t, 30.0, box.Y)
	})

	t.Run("tall image is clamped to half the page", func(t *testing.T) {
		box := FitImage(DefaultPage, 300, 1200, 30)
		assert.Equal(t, 400.0, box.H)
		assert.Equal(t, 100.0, box.W)
		assert.Equal(t, 250.0, box.X, "centered")
		assertRatio(t, 300.0/1200.0, box.W/box.H)
	})

	t.Run("portrait 3:4 is clamped and keeps its ratio", func(t *testing.T) {
		box := FitImage(DefaultPage, 768, 1024, 30)
		assert.Equal(t, 400.0, box.H)
		assertRatio(t, 0.75, box.W/box.H)
	})
}

func assertRatio(t *testing.T, want, got float64) {
	t.Helper()
	round3 := func(v float64) float64 {
		if v == 0 {
			return 0
		}
		p := math.Pow(10, 2-math.Floor(math.Log10(math.Abs(v))))
		return math.Round(v*p) / p
	}
	assert.Equal(t, round3(want), round3(got), "aspect ratio to 3 significant digits")
}

func TestLayout_ImageAdvancesCursor(t *testing.T) {
	plan := Layout(DefaultPage, Content{Name: "N", ImageWidth: 1080, ImageHeight: 540}, monospace{})
	require.NotNil(t, plan.Image)
	// 30 + 270 + 20
	assert.Equal(t, 320.0, plan.Blocks[0].Y)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits", "hello world", 200, []string{"hello world"}},
		{"breaks at spaces", "hello world", 60, []string{"hello", "world"}},
		{"keeps newlines", "one\n\ntwo", 200, []string{"one", "", "two"}},
		{"splits long word", "abcdefghij", 40, []string{"abcd", "efgh", "ij"}},
		{"collapses runs of spaces", "a   b", 200, []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(monospace{}, SectionDescription, tt.text, tt.width))
		})
	}
}
