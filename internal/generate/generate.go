// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generate holds the two flyer content generators: a tagline writer
// and an image maker. Both take the event description, reject it when empty
// before any model call, and normalize every model failure into a
// *flyer.GenerationError. Neither retries nor caches.
package generate

import (
	"context"
	"log/slog"
	"strings"

	"flyerly/internal/ai"
	"flyerly/internal/flyer"
)

// TextModel produces text from a system and a user prompt.
type TextModel interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ImageModel produces a single image.
type ImageModel interface {
	GenerateImage(ctx context.Context, req ai.ImageRequest) (*ai.GeneratedImage, error)
}

// Moderator screens prompts before they reach a model. *ai.Registry
// satisfies it.
type Moderator interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// Input is shared by both generators.
type Input struct {
	EventDescription string `json:"eventDescription"`
}

// requireDescription rejects an empty or blank description.
func requireDescription(in Input, what string) error {
	if strings.TrimSpace(in.EventDescription) == "" {
		return flyer.Invalid("Event Description Missing",
			"Please provide an event description before generating "+what+".")
	}
	return nil
}

// screen runs moderation when a moderator is configured. A flagged prompt
// is a validation error; a moderation outage is logged and the prompt is let
// through, the provider's own filters still apply.
func screen(ctx context.Context, mod Moderator, prompt string) error {
	if mod == nil {
		return nil
	}
	res, err := mod.CheckPrompt(ctx, prompt)
	if err != nil {
		slog.Warn("prompt moderation unavailable", "error", err)
		return nil
	}
	if res.Safe {
		return nil
	}
	msg := "The event description was flagged by content moderation."
	if len(res.Categories) > 0 {
		msg += " Flagged: " + strings.Join(res.Categories, ", ") + "."
	}
	return flyer.Invalid("Description Rejected", msg)
}
