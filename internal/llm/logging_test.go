package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/nudge/internal/store"
)

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	core, logs := observer.New(zap.DebugLevel)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"text":"Stretch"}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: &UnavailableError{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "mock", zap.New(core), s.EventRepo())

	ctx := WithPurpose(context.Background(), PurposeChecklistItem)
	if _, err := p.Generate(ctx, Request{Schema: itemSchema()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}

	n, err := s.EventRepo().CountLLMRequests(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("recorded %d events, want 2", n)
	}

	ok := logs.FilterMessage("llm request").All()
	if len(ok) != 1 {
		t.Fatalf("expected one success log, got %d", len(ok))
	}
	fields := ok[0].ContextMap()
	if fields["purpose"] != PurposeChecklistItem || fields["input_tokens"] != int64(12) {
		t.Errorf("unexpected fields %v", fields)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Error("expected one failure log")
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

func TestPurposeFrom_Default(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != PurposeUnknown {
		t.Fatalf("purpose = %q, want %q", got, PurposeUnknown)
	}
}
