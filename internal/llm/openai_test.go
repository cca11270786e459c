package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func openaiReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var got map[string]any
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		openaiReply(`{"text":"Walk outside"}`, "stop")(w, r)
	})

	req := UserPrompt("You write checklist items.", "One more item.")
	req.Schema = itemSchema()
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.OutputTokens != 25 {
		t.Fatalf("output tokens = %d, want 25", resp.Usage.OutputTokens)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("stop reason = %q", resp.StopReason)
	}

	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(msgs))
	}
	if _, ok := got["response_format"]; !ok {
		t.Fatal("expected response_format for schema request")
	}
}

func TestOpenAIProvider_InvalidContent(t *testing.T) {
	p := newTestOpenAIProvider(t, openaiReply(`{"nope":1}`, "stop"))

	req := UserPrompt("", "item")
	req.Schema = itemSchema()
	_, err := p.Generate(context.Background(), req)
	var inv *InvalidResponseError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidResponseError, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "model": "gpt-4o-mini", "choices": []any{}})
	})
	_, err := p.Generate(context.Background(), UserPrompt("", "item"))
	var inv *InvalidResponseError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidResponseError, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "slow down", "type": "rate_limit_error"},
		})
	})
	_, err := p.Generate(context.Background(), UserPrompt("", "item"))
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %T (%v)", err, err)
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "meta-llama/llama-3-8b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "meta-llama/llama-3-8b" {
		t.Fatalf("model = %q", p.ModelID())
	}
}
