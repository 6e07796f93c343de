// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"strings"
	"unicode/utf8"
)

// Page is the fixed document canvas, in points.
type Page struct {
	Width  float64
	Height float64
	Margin float64
}

// DefaultPage is the 600×800 portrait flyer page with a 30pt margin.
var DefaultPage = Page{Width: 600, Height: 800, Margin: 30}

// ContentWidth is the page width minus both margins.
func (p Page) ContentWidth() float64 { return p.Width - 2*p.Margin }

// maxImageShare caps the image height as a fraction of the page height.
const maxImageShare = 0.5

// Vertical gaps of the document flow.
const (
	gapNoImage         = 20
	gapAfterImage      = 20
	gapAfterName       = 10
	gapAfterTagline    = 15
	gapAfterLocation   = 10
	gapBeforeBody      = 5
	taglineIndentTotal = 20 // tagline wraps 20pt narrower than the body
)

// FallbackName is drawn when the event has no name.
const FallbackName = "Event Name"

// Section names a block of the document, in flow order.
type Section string

const (
	SectionName        Section = "name"
	SectionTagline     Section = "tagline"
	SectionDate        Section = "date"
	SectionLocation    Section = "location"
	SectionDescription Section = "description"
)

// Align is the horizontal alignment of a text block.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Measurer reports the rendered width of s in the font of section.
type Measurer interface {
	StringWidth(section Section, s string) float64
}

// Content is the text and image metrics laid out on the page. Date is the
// already formatted date line; empty fields are skipped.
type Content struct {
	Name        string
	Tagline     string
	Date        string
	Location    string
	Description string

	// ImageWidth and ImageHeight are the intrinsic pixel size of an image
	// that will be embedded. Zero means no image (or one that failed to
	// decode).
	ImageWidth  int
	ImageHeight int
}

// Box is a placed rectangle.
type Box struct {
	X, Y, W, H float64
}

// Block is a wrapped text section. Line i sits on the baseline
// Y + i*LineHeight; X is the left edge for AlignLeft and the center for
// AlignCenter.
type Block struct {
	Section    Section
	Align      Align
	X, Y       float64
	Width      float64
	LineHeight float64
	Lines      []string
}

// Plan is a complete, font-independent placement of a document page.
type Plan struct {
	Page   Page
	Image  *Box
	Blocks []Block
	End    float64 // cursor after the last block; may exceed Page.Height
}

// LineHeights per section.
var lineHeights = map[Section]float64{
	SectionName:        32,
	SectionTagline:     18,
	SectionDate:        20,
	SectionLocation:    14,
	SectionDescription: 12,
}

// FitImage scales a w×h image to the content width and, when that is taller
// than half the page, shrinks it to that height keeping the aspect ratio.
// The result is centered horizontally at y.
func FitImage(page Page, w, h int, y float64) Box {
	ratio := float64(w) / float64(h)
	bw := page.ContentWidth()
	bh := bw / ratio
	if maxH := page.Height * maxImageShare; bh > maxH {
		bh = maxH
		bw = bh * ratio
	}
	return Box{X: (page.Width - bw) / 2, Y: y, W: bw, H: bh}
}

// Layout runs the top-to-bottom flow: image, name, tagline, date, location,
// description. Content past the bottom of the page is kept as is; there is
// no second page.
func Layout(page Page, c Content, m Measurer) Plan {
	plan := Plan{Page: page}
	y := page.Margin
	width := page.ContentWidth()

	if c.ImageWidth > 0 && c.ImageHeight > 0 {
		box := FitImage(page, c.ImageWidth, c.ImageHeight, y)
		plan.Image = &box
		y += box.H + gapAfterImage
	} else {
		y += gapNoImage
	}

	add := func(s Section, align Align, text string, wrapWidth float64) int {
		x := page.Margin
		if align == AlignCenter {
			x = page.Width / 2
		}
		lines := Wrap(m, s, text, wrapWidth)
		plan.Blocks = append(plan.Blocks, Block{
			Section: s, Align: align, X: x, Y: y, Width: wrapWidth,
			LineHeight: lineHeights[s], Lines: lines,
		})
		return len(lines)
	}

	name := c.Name
	if name == "" {
		name = FallbackName
	}
	n := add(SectionName, AlignCenter, name, width)
	y += float64(n)*lineHeights[SectionName] + gapAfterName

	if c.Tagline != "" {
		n = add(SectionTagline, AlignCenter, c.Tagline, width-taglineIndentTotal)
		y += float64(n)*lineHeights[SectionTagline] + gapAfterTagline
	}

	if c.Date != "" {
		plan.Blocks = append(plan.Blocks, Block{
			Section: SectionDate, Align: AlignLeft, X: page.Margin, Y: y, Width: width,
			LineHeight: lineHeights[SectionDate], Lines: []string{c.Date},
		})
		y += lineHeights[SectionDate]
	}

	if c.Location != "" {
		n = add(SectionLocation, AlignLeft, c.Location, width)
		y += float64(n)*lineHeights[SectionLocation] + gapAfterLocation
	}

	if c.Description != "" {
		y += gapBeforeBody
		n = add(SectionDescription, AlignLeft, c.Description, width)
		y += float64(n) * lineHeights[SectionDescription]
	}

	plan.End = y
	return plan
}

// Wrap breaks text into lines no wider than width. Explicit newlines are
// kept, words are never split unless a single word is wider than width.
func Wrap(m Measurer, s Section, text string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if m.StringWidth(s, candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			// Break words that cannot fit on a line of their own.
			for m.StringWidth(s, word) > width && utf8.RuneCountInString(word) > 1 {
				head, rest := splitToWidth(m, s, word, width)
				lines = append(lines, head)
				word = rest
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// splitToWidth returns the longest prefix of word (at least one rune) that
// fits in width, and the remainder.
func splitToWidth(m Measurer, s Section, word string, width float64) (string, string) {
	cut := 0
	for i, r := range word {
		next := i + utf8.RuneLen(r)
		if cut > 0 && m.StringWidth(s, word[:next]) > width {
			break
		}
		cut = next
	}
	return word[:cut], word[cut:]
}
