package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// openAIProvider uses the OpenAI chat completions API for text and the
// images API for pictures. Mistral reuses the chat half.
type openAIProvider struct {
	name        string
	config      ProviderConfig
	client      *http.Client
	imageClient *http.Client
}

func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &openAIProvider{
		name:        "openai",
		config:      cfg,
		client:      &http.Client{Timeout: 60 * time.Second},
		imageClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *openAIProvider) Name() string { return p.name }

func (p *openAIProvider) hasImageModel() bool { return p.config.ModelImage != "" }

func (p *openAIProvider) auth() map[string]string {
	return map[string]string{"Authorization": "Bearer " + p.config.APIKey}
}

// Generate returns the assistant message of the first choice.
func (p *openAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := openAIRequest{
		Model: p.config.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	var result openAIResponse
	if err := postJSON(ctx, p.client, p.name, p.config.BaseURL+"/chat/completions", p.auth(), body, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", p.name)
	}
	return result.Choices[0].Message.Content, nil
}

// GenerateImage creates one image and returns the decoded bytes.
func (p *openAIProvider) GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	if p.config.ModelImage == "" {
		return nil, fmt.Errorf("openai: image generation requires OPENAI_MODEL_IMAGE to be set")
	}

	body := openAIImageRequest{
		Model:  p.config.ModelImage,
		Prompt: req.Prompt,
		N:      1,
		Size:   openAIImageSize(p.config.ModelImage, req.AspectRatio),
	}
	// gpt-image models always answer with base64 and reject response_format.
	if strings.HasPrefix(p.config.ModelImage, "dall-e") {
		body.ResponseFormat = "b64_json"
	}

	var result openAIImageResponse
	if err := postJSON(ctx, p.imageClient, "openai image", p.config.BaseURL+"/images/generations", p.auth(), body, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 || result.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("openai image: no image data in response")
	}

	data, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai image decode base64: %w", err)
	}
	return &GeneratedImage{Data: data, ContentType: http.DetectContentType(data)}, nil
}

// openAIImageSize maps an aspect ratio onto the sizes the images API accepts.
func openAIImageSize(model, aspect string) string {
	portrait, landscape := "1024x1536", "1536x1024"
	if strings.HasPrefix(model, "dall-e") {
		portrait, landscape = "1024x1792", "1792x1024"
	}
	w, h, ok := parseAspect(aspect)
	switch {
	case !ok || w == h:
		return "1024x1024"
	case w < h:
		return portrait
	default:
		return landscape
	}
}

func parseAspect(s string) (w, h int, ok bool) {
	if _, err := fmt.Sscanf(s, "%d:%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// --- OpenAI-compatible request/response types ---

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type openAIImageData struct {
	B64JSON string `json:"b64_json"`
}

type openAIImageResponse struct {
	Data []openAIImageData `json:"data"`
}
