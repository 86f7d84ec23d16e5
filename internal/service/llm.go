package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/homeyum/homeyum/internal/config"
)

// LLMService is the text-generation client for an OpenAI-compatible chat
// completions endpoint.
type LLMService struct {
	client      *resty.Client
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
}

// NewLLMService creates a new LLM client.
// Parameters:
//   - cfg: model, API key, base URL and generation parameters.
//
// Returns:
//   - *LLMService: initialized client wrapper.
func NewLLMService(cfg *config.LLMConfig) *LLMService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Prevent hanging requests
	client.SetTimeout(120 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	return &LLMService{
		client:      client,
		model:       cfg.Model,
		endpoint:    strings.TrimSuffix(baseURL, "/") + "/chat/completions",
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}
}

// OpenAI-compatible Chat Completion API request/response structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string, or []interface{} for user messages with images
}

type chatTextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type chatImageContent struct {
	Type     string       `json:"type"`
	ImageURL chatImageURL `json:"image_url"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// postChat sends one chat-completions request and returns the first choice.
// Shared by the text and vision clients.
func postChat(ctx context.Context, client *resty.Client, endpoint string, req *chatRequest) (string, error) {
	var resp chatResponse
	httpResp, err := client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(endpoint)

	if err != nil {
		return "", fmt.Errorf("failed to call chat API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return "", fmt.Errorf("chat API returned error: %s", errorMsg)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("chat API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat API response (status: %d)", httpResp.StatusCode())
	}

	return resp.Choices[0].Message.Content, nil
}

// Complete sends a single user prompt and returns the model's reply.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - prompt: full prompt text.
//
// Returns:
//   - string: model output.
//   - error: non-nil if the API request fails.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	req := &chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}
	return postChat(ctx, s.client, s.endpoint, req)
}

// CompleteDeterministic is Complete with temperature pinned to zero, used for
// structured JSON outputs (nutrition analysis, recipe structuring).
func (s *LLMService) CompleteDeterministic(ctx context.Context, prompt string) (string, error) {
	req := &chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: 0,
	}
	return postChat(ctx, s.client, s.endpoint, req)
}

// CleanJSONResponse strips markdown code fences the model may wrap around a
// JSON object.
func CleanJSONResponse(content string) string {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```") {
		parts := strings.SplitN(cleaned, "```", 3)
		if len(parts) >= 2 {
			cleaned = parts[1]
		}
		cleaned = strings.TrimPrefix(cleaned, "json")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
