// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"flyerly/internal/ai"
	"flyerly/internal/flyer"
)

// FlyerAspectRatio is the portrait composition requested for flyer images.
const FlyerAspectRatio = "3:4"

// ImageOutput is the result of a successful image generation.
type ImageOutput struct {
	ImageDataURI string      `json:"imageDataUri"`
	Image        flyer.Image `json:"-"`
}

// Image asks an image-capable model for a flyer picture.
type Image struct {
	model     ImageModel
	moderator Moderator
}

// NewImage creates an image generator. mod may be nil.
func NewImage(model ImageModel, mod Moderator) *Image {
	return &Image{model: model, moderator: mod}
}

// ImagePrompt returns the prompt sent to the image model.
func ImagePrompt(description string) string {
	return fmt.Sprintf("Generate a visually appealing and relevant flyer image for an event with the following description: '%s'. "+
		"The image should be suitable for an event flyer: captivating, high quality, and with a clear subject. "+
		"Avoid adding text to the image unless it's naturally part of a scene (e.g., a sign). "+
		"The style should be modern and engaging, photographic or illustrative. "+
		"A portrait orientation (3:4 aspect ratio) is required.", description)
}

// Generate produces one image for in.EventDescription.
func (g *Image) Generate(ctx context.Context, in Input) (ImageOutput, error) {
	if err := requireDescription(in, "an image"); err != nil {
		return ImageOutput{}, err
	}
	if err := screen(ctx, g.moderator, in.EventDescription); err != nil {
		return ImageOutput{}, err
	}

	res, err := g.model.GenerateImage(ctx, ai.ImageRequest{
		Prompt:      ImagePrompt(in.EventDescription),
		AspectRatio: FlyerAspectRatio,
	})
	if err != nil {
		return ImageOutput{}, flyer.GenerationFailed("The AI provider could not generate an image.", err)
	}
	if res == nil || len(res.Data) == 0 {
		return ImageOutput{}, flyer.GenerationFailed("Image generation failed or no image was returned by the model.", nil)
	}

	ct := res.ContentType
	if !strings.HasPrefix(ct, "image/") {
		ct = http.DetectContentType(res.Data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return ImageOutput{}, flyer.GenerationFailed("The model returned data that is not an image.", nil)
	}

	img := flyer.NewImage(flyer.ImageGenerated, ct, res.Data)
	return ImageOutput{ImageDataURI: img.DataURI(), Image: img}, nil
}
