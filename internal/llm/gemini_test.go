package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":  map[string]any{"type": "string", "description": "task"},
			"mins":  map[string]any{"type": "integer"},
			"level": map[string]any{"type": "string", "enum": []any{"easy", "hard"}},
			"tags": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 3,
			},
			"odd": map[string]any{"type": "null"},
		},
		"required": []string{"text"},
	}

	s := geminiSchema(def)

	if s.Type != genai.TypeObject {
		t.Fatalf("type = %s, want OBJECT", s.Type)
	}
	if len(s.Properties) != 5 {
		t.Fatalf("expected 5 properties, got %d", len(s.Properties))
	}
	if s.Properties["text"].Description != "task" {
		t.Errorf("description not carried over")
	}
	if s.Properties["mins"].Type != genai.TypeInteger {
		t.Errorf("mins type = %s", s.Properties["mins"].Type)
	}
	if len(s.Properties["level"].Enum) != 2 {
		t.Errorf("enum = %v", s.Properties["level"].Enum)
	}
	tags := s.Properties["tags"]
	if tags.Items == nil || tags.Items.Type != genai.TypeString {
		t.Errorf("array items not converted")
	}
	if tags.MaxItems == nil || *tags.MaxItems != 3 {
		t.Errorf("maxItems not converted")
	}
	if s.Properties["odd"].Type != genai.TypeString {
		t.Errorf("unknown type should fall back to STRING, got %s", s.Properties["odd"].Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "text" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
