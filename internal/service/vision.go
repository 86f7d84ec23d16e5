package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/homeyum/homeyum/internal/config"
)

// sceneMaxTokens caps the per-scene summary length.
const sceneMaxTokens = 300

// VisionService sends scene frames to a multimodal model for analysis.
type VisionService struct {
	client   *resty.Client
	model    string
	endpoint string
}

// NewVisionService creates a new vision client.
// Parameters:
//   - cfg: vision model configuration including model name and API key.
//
// Returns:
//   - *VisionService: initialized client wrapper.
func NewVisionService(cfg *config.VisionConfig) *VisionService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &VisionService{
		client:   client,
		model:    cfg.Model,
		endpoint: strings.TrimSuffix(baseURL, "/") + "/chat/completions",
	}
}

// AnalyzeImage runs the given prompt against raw image bytes.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - imageData: raw image bytes (jpg or png).
//   - format: image format extension (jpg, png).
//   - prompt: analysis prompt to accompany the image.
//
// Returns:
//   - string: model's analysis text.
//   - error: non-nil if the API request fails.
func (s *VisionService) AnalyzeImage(ctx context.Context, imageData []byte, format, prompt string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		imageMIMEType(format),
		base64.StdEncoding.EncodeToString(imageData))
	return s.analyze(ctx, dataURL, prompt)
}

// AnalyzeImageFromURL runs the given prompt against a hosted image.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - imageURL: publicly accessible image URL.
//   - prompt: analysis prompt to accompany the image.
//
// Returns:
//   - string: model's analysis text.
//   - error: non-nil if the API request fails.
func (s *VisionService) AnalyzeImageFromURL(ctx context.Context, imageURL, prompt string) (string, error) {
	return s.analyze(ctx, imageURL, prompt)
}

func (s *VisionService) analyze(ctx context.Context, imageRef, prompt string) (string, error) {
	req := &chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []interface{}{
					chatTextContent{Type: "text", Text: prompt},
					chatImageContent{
						Type:     "image_url",
						ImageURL: chatImageURL{URL: imageRef, Detail: "auto"},
					},
				},
			},
		},
		MaxTokens: sceneMaxTokens,
	}
	return postChat(ctx, s.client, s.endpoint, req)
}

func imageMIMEType(format string) string {
	switch format {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
