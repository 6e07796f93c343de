// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
)

// ImageRequest describes a single image generation.
type ImageRequest struct {
	Prompt      string
	AspectRatio string // "3:4", "1:1", ...; empty lets the provider decide
}

// GeneratedImage is the raw image returned by a provider.
type GeneratedImage struct {
	Data        []byte
	ContentType string
}

// ImageGenerator is implemented by providers that can produce images.
// Claude and Mistral are text-only.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error)
}

// SetImageProvider selects the provider used for images, independently of
// the active text provider. An empty name follows the text provider.
func (r *Registry) SetImageProvider(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name != "" {
		p, ok := r.providers[name]
		if !ok {
			return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
		}
		if _, ok := p.(ImageGenerator); !ok {
			return fmt.Errorf("ai: provider %q does not support image generation", name)
		}
	}
	r.imageActive = name
	return nil
}

// ImageProviderName returns the name of the provider used for images.
func (r *Registry) ImageProviderName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.imageActive != "" {
		return r.imageActive
	}
	return r.active
}

// GenerateImage calls the image provider.
func (r *Registry) GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	ig, err := r.imageGenerator()
	if err != nil {
		return nil, err
	}
	return ig.GenerateImage(ctx, req)
}

// SupportsImageGeneration reports whether an image provider is usable.
func (r *Registry) SupportsImageGeneration() bool {
	_, err := r.imageGenerator()
	return err == nil
}

func (r *Registry) imageGenerator() (ImageGenerator, error) {
	name := r.ImageProviderName()

	r.mu.RLock()
	p, err := r.lookup(name)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	ig, ok := p.(ImageGenerator)
	if !ok {
		return nil, fmt.Errorf("ai: provider %q does not support image generation", p.Name())
	}
	if c, ok := p.(interface{ hasImageModel() bool }); ok && !c.hasImageModel() {
		return nil, fmt.Errorf("ai: provider %q has no image model configured", p.Name())
	}
	return ig, nil
}
