// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"flyerly/internal/flyer"
)

const taglineSystemPrompt = `You are a marketing expert specializing in creating catchy taglines for events.
Reply with a JSON object of the form {"tagline": "..."} containing exactly one tagline and nothing else.`

// TaglineOutput is the result of a successful tagline generation.
type TaglineOutput struct {
	Tagline string `json:"tagline"`
}

// Tagline writes one creative tagline per call.
type Tagline struct {
	model     TextModel
	moderator Moderator
}

// NewTagline creates a tagline generator. mod may be nil.
func NewTagline(model TextModel, mod Moderator) *Tagline {
	return &Tagline{model: model, moderator: mod}
}

// Generate asks the model for a tagline for in.EventDescription.
func (g *Tagline) Generate(ctx context.Context, in Input) (TaglineOutput, error) {
	if err := requireDescription(in, "a tagline"); err != nil {
		return TaglineOutput{}, err
	}
	if err := screen(ctx, g.moderator, in.EventDescription); err != nil {
		return TaglineOutput{}, err
	}

	user := fmt.Sprintf("Generate a single, creative, and engaging tagline for the following event:\n\nEvent Description: %s", in.EventDescription)
	raw, err := g.model.Generate(ctx, taglineSystemPrompt, user)
	if err != nil {
		return TaglineOutput{}, flyer.GenerationFailed("The AI provider could not generate a tagline.", err)
	}

	tagline := parseTagline(raw)
	if tagline == "" {
		return TaglineOutput{}, flyer.GenerationFailed("Tagline generation failed or no tagline was returned by the model.", nil)
	}
	return TaglineOutput{Tagline: tagline}, nil
}

// parseTagline extracts the tagline from a model reply. Markdown code fences
// around the JSON are tolerated; a reply that is not JSON is used as-is
// after trimming surrounding whitespace and quotes.
func parseTagline(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	var out TaglineOutput
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out.Tagline
	}
	return strings.Trim(s, "\"“” \n\t")
}
