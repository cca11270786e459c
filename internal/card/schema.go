package card

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache holds compiled document schemas keyed by kind.
var schemaCache sync.Map // map[Kind]*jsonschema.Schema

var faceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"hint":        map[string]any{"type": "string"},
	},
}

func documentSchema(kind Kind) map[string]any {
	base := map[string]any{
		"id":       map[string]any{"type": "string"},
		"type":     map[string]any{"const": string(kind)},
		"title":    map[string]any{"type": "string"},
		"subtitle": map[string]any{"type": "string"},
	}

	var itemsKey string
	var item map[string]any
	switch kind {
	case KindFlashcards:
		itemsKey = "cards"
		item = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":    map[string]any{"type": "string"},
				"front": faceSchema,
				"back":  faceSchema,
				"styles": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"gradient":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"textColor": map[string]any{"type": "string"},
					},
				},
				"category": map[string]any{"type": "string"},
			},
			"required": []any{"front", "back"},
		}
	case KindChecklist:
		itemsKey = "items"
		item = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":            map[string]any{"type": "string"},
				"text":          map[string]any{"type": "string", "minLength": 1},
				"estimatedTime": map[string]any{"type": "string"},
				"rationale":     map[string]any{"type": "string"},
				"statistic":     map[string]any{"type": "string"},
				"completed":     map[string]any{"type": "boolean"},
			},
			"required": []any{"text"},
		}
	case KindQuiz:
		itemsKey = "questions"
		item = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":       map[string]any{"type": "string"},
				"question": map[string]any{"type": "string", "minLength": 1},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string", "minLength": 1},
					"minItems": 2,
					"maxItems": 4,
				},
			},
			"required": []any{"question", "options"},
		}
	}

	base[itemsKey] = map[string]any{
		"type":     "array",
		"items":    item,
		"minItems": 1,
	}

	return map[string]any{
		"type":       "object",
		"properties": base,
		"required":   []any{"type", itemsKey},
	}
}

func compiledSchema(kind Kind) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(kind); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON values, not Go literals.
	raw, err := json.Marshal(documentSchema(kind))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var def any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://card-%s.json", kind)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(kind, compiled)
	return compiled, nil
}
