package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/store"
)

// LoggingProvider logs every request and, when an event repo is set,
// records it for later accounting.
type LoggingProvider struct {
	inner    Provider
	provider string
	logger   *zap.Logger
	events   store.EventRepo
}

// WithLogging wraps p. events may be nil.
func WithLogging(p Provider, provider string, logger *zap.Logger, events store.EventRepo) *LoggingProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, provider: provider, logger: logger, events: events}
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	ev := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	fields := []zap.Field{
		zap.String("provider", l.provider),
		zap.String("purpose", ev.Purpose),
		zap.Duration("latency", latency),
	}
	if req.Schema != nil {
		fields = append(fields, zap.String("schema", req.Schema.Name))
	}

	if err != nil {
		ev.ErrorMessage = err.Error()
		l.logger.Warn("llm request failed", append(fields, zap.String("model", ev.Model), zap.Error(err))...)
	} else {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		l.logger.Info("llm request",
			append(fields,
				zap.String("model", resp.Model),
				zap.Int("input_tokens", resp.Usage.InputTokens),
				zap.Int("output_tokens", resp.Usage.OutputTokens))...)
	}

	if l.events != nil {
		if rerr := l.events.AppendLLMRequest(ctx, ev); rerr != nil {
			l.logger.Warn("record llm request", zap.Error(rerr))
		}
	}
	return resp, err
}
