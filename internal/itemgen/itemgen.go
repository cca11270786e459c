// Package itemgen asks a language model for one more checklist item.
package itemgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/llm"
	"github.com/abhisek/nudge/internal/widget"
)

// ErrEmptyItem is returned when the model answers with blank text.
var ErrEmptyItem = errors.New("generated item has no text")

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxExisting caps how many existing items are quoted in the prompt.
	MaxExisting int

	// Timeout bounds one GenerateItem call, retries included. Zero leaves
	// the caller's deadline alone.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.7,
		MaxExisting: 20,
		Timeout:     30 * time.Second,
	}
}

// Generator implements widget.ItemGenerator over an llm.Provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

var _ widget.ItemGenerator = (*Generator)(nil)

func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// itemOutput is the raw model response.
type itemOutput struct {
	Text          string `json:"text"`
	EstimatedTime string `json:"estimated_time"`
	Rationale     string `json:"rationale"`
	Statistic     string `json:"statistic"`
}

// GenerateItem returns a new unchecked item with a fresh ID.
func (g *Generator) GenerateItem(ctx context.Context, req widget.ItemRequest) (card.ChecklistItem, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeChecklistItem)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	r := llm.UserPrompt(systemPrompt, buildUserMessage(req, g.config.MaxExisting))
	r.Schema = ItemSchema
	r.MaxTokens = g.config.MaxTokens
	r.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, r)
	if err != nil {
		return card.ChecklistItem{}, fmt.Errorf("generate item: %w", err)
	}

	var out itemOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return card.ChecklistItem{}, fmt.Errorf("parse generated item: %w", err)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return card.ChecklistItem{}, ErrEmptyItem
	}

	return card.ChecklistItem{
		ID:            "gen-" + uuid.NewString(),
		Description:   text,
		EstimatedTime: strings.TrimSpace(out.EstimatedTime),
		Rationale:     strings.TrimSpace(out.Rationale),
		Statistic:     strings.TrimSpace(out.Statistic),
	}, nil
}
