package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func itemSchema() *Schema {
	return &Schema{
		Name:        "test-item",
		Description: "A checklist item",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":      map[string]any{"type": "string", "minLength": 1},
				"minutes":   map[string]any{"type": "integer", "minimum": 0},
				"rationale": map[string]any{"type": "string"},
			},
			"required":             []string{"text"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"text":"Stretch","minutes":5}`, false},
		{"optional omitted", `{"text":"Stretch"}`, false},
		{"missing required", `{"minutes":5}`, true},
		{"wrong type", `{"text":"Stretch","minutes":"five"}`, true},
		{"extra field", `{"text":"Stretch","bonus":true}`, true},
		{"not json", `Sure! Here is your item`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(itemSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *InvalidResponseError
			if !errors.As(err, &inv) {
				t.Fatalf("expected InvalidResponseError, got %T (%v)", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("content not preserved: %s", inv.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}

func TestValidateSchema_Broken(t *testing.T) {
	s := &Schema{Name: "broken-schema", Definition: map[string]any{"type": 42}}
	if err := ValidateSchema(s); err == nil {
		t.Fatal("expected compile error")
	}
}
