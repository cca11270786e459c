// Package llm wraps the hosted model SDKs behind a single structured-output
// interface used to generate card content.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured completion.
type Provider interface {
	// Generate sends req and returns its output. When req.Schema is set the
	// content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model this provider is configured to use.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64 // 0 leaves the provider default
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a request with a system prompt and one user message.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Schema is a named JSON Schema the response must satisfy.
type Schema struct {
	// Name is sent as the tool or schema name, kebab-case.
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is why generation ended, normalized across providers.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is the provider output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage is the token consumption of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// finish validates raw content against the request schema and assembles the
// response. Truncated output that fails validation is reported as
// *TruncatedError so callers can tell it apart from a malformed answer.
func finish(req Request, content json.RawMessage, model string, stop StopReason, usage Usage) (*Response, error) {
	if err := validateResponse(req.Schema, content); err != nil {
		if stop == StopMaxTokens {
			return nil, &TruncatedError{Content: content}
		}
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// resolveModel maps a short alias to a provider model ID. Unknown names pass
// through so full model IDs can be configured directly.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
