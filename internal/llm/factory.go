package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/store"
)

// NewProvider builds the configured provider. Calls flow
// caller -> retry -> logging -> provider, so every attempt is logged.
// events may be nil.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, cfg.Provider, logger, events), cfg.Retry), nil
}
