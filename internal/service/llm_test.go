package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/homeyum/homeyum/internal/config"
)

// newChatServer returns an httptest server answering every chat completion
// with the given content, plus an LLM client pointed at it.
func newChatServer(t *testing.T, content string) (*httptest.Server, *LLMService) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	llm := NewLLMService(&config.LLMConfig{Model: "gpt-4o", APIKey: "test", BaseURL: srv.URL})
	return srv, llm
}

func TestComplete(t *testing.T) {
	srv, llm := newChatServer(t, "hello from the model")
	defer srv.Close()

	got, err := llm.Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if got != "hello from the model" {
		t.Errorf("Complete = %q, want %q", got, "hello from the model")
	}
}

func TestCompleteSendsModelAndPrompt(t *testing.T) {
	var received chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	llm := NewLLMService(&config.LLMConfig{Model: "gpt-4o", BaseURL: srv.URL, Temperature: 0.7})
	if _, err := llm.Complete(context.Background(), "the prompt"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if received.Model != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", received.Model)
	}
	if len(received.Messages) != 1 || received.Messages[0].Content != "the prompt" {
		t.Errorf("unexpected messages: %+v", received.Messages)
	}
	if received.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", received.Temperature)
	}
}

func TestCompleteDeterministicPinsTemperature(t *testing.T) {
	var received chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "{}"}},
			},
		})
	}))
	defer srv.Close()

	llm := NewLLMService(&config.LLMConfig{Model: "gpt-4o", BaseURL: srv.URL, Temperature: 0.9})
	if _, err := llm.CompleteDeterministic(context.Background(), "structured"); err != nil {
		t.Fatalf("CompleteDeterministic returned error: %v", err)
	}
	if received.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", received.Temperature)
	}
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	llm := NewLLMService(&config.LLMConfig{Model: "gpt-4o", BaseURL: srv.URL})
	if _, err := llm.Complete(context.Background(), "oops"); err == nil {
		t.Fatal("expected error on HTTP 429, got nil")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	llm := NewLLMService(&config.LLMConfig{Model: "gpt-4o", BaseURL: srv.URL})
	if _, err := llm.Complete(context.Background(), "empty"); err == nil {
		t.Fatal("expected error on empty choices, got nil")
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain json untouched",
			input: `{"title": "Soup"}`,
			want:  `{"title": "Soup"}`,
		},
		{
			name:  "json fence stripped",
			input: "```json\n{\"title\": \"Soup\"}\n```",
			want:  `{"title": "Soup"}`,
		},
		{
			name:  "bare fence stripped",
			input: "```\n{\"title\": \"Soup\"}\n```",
			want:  `{"title": "Soup"}`,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  \n{\"a\": 1}\n  ",
			want:  `{"a": 1}`,
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("CleanJSONResponse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
