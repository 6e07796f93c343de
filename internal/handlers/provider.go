// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"flyerly/internal/flyer"
	"flyerly/internal/render"
)

// providerStatus is the JSON shape of the AI provider registry.
type providerStatus struct {
	Active          string   `json:"active"`
	Image           string   `json:"image"`
	Available       []string `json:"available"`
	TextGeneration  bool     `json:"text_generation"`
	ImageGeneration bool     `json:"image_generation"`
}

// AIStatus reports the configured providers and which one is active.
func (h *Flyer) AIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.providerStatus())
}

// SetProvider switches the active AI provider for the whole process. The
// "provider" form value selects the text provider and "image_provider" the
// image provider; either may be omitted. It is mounted only on the operator
// routes.
func (h *Flyer) SetProvider(w http.ResponseWriter, r *http.Request) {
	if h.providers == nil {
		h.fail(w, r, "", flyer.Invalid("No AI Providers", "No AI provider is configured."), nil)
		return
	}

	name := strings.TrimSpace(r.FormValue("provider"))
	imageName, setImage := r.Form["image_provider"]
	if name == "" && !setImage {
		h.fail(w, r, "", flyer.Invalid("No Provider Specified", "Choose a provider to switch to."), nil)
		return
	}

	if name != "" {
		if err := h.providers.SetActive(name); err != nil {
			slog.Warn("failed to switch AI provider", "provider", name, "error", err)
			h.fail(w, r, "", flyer.Invalid("Provider Unavailable",
				fmt.Sprintf("Cannot switch to %q: provider not available (no API key configured).", name)), nil)
			return
		}
		slog.Info("ai provider switched", "provider", name)
	}
	if setImage {
		img := strings.TrimSpace(imageName[0])
		if err := h.providers.SetImageProvider(img); err != nil {
			slog.Warn("failed to switch AI image provider", "provider", img, "error", err)
			h.fail(w, r, "", flyer.Invalid("Provider Unavailable",
				fmt.Sprintf("Cannot use %q for images: no image model configured.", img)), nil)
			return
		}
		slog.Info("ai image provider switched", "provider", h.providers.ImageProviderName())
	}

	render.Notify(w, flyer.Success("Provider Switched", "Now using "+h.providers.ActiveName()+"."))
	writeJSON(w, http.StatusOK, h.providerStatus())
}

func (h *Flyer) providerStatus() providerStatus {
	if h.providers == nil {
		return providerStatus{Available: []string{}}
	}
	st := h.aiStatus()
	return providerStatus{
		Active:          h.providers.ActiveName(),
		Image:           h.providers.ImageProviderName(),
		Available:       h.providers.Available(),
		TextGeneration:  st.Text,
		ImageGeneration: st.Image,
	}
}
