package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Card is a stored card document in its wire form.
type Card struct {
	InteractionID string
	Kind          string
	Title         string
	Body          []byte
	CreatedAt     time.Time
}

// CardRepo stores card documents.
type CardRepo interface {
	// Put inserts or replaces a card.
	Put(ctx context.Context, c *Card) error

	// Get returns the card for interactionID or ErrNotFound.
	Get(ctx context.Context, interactionID string) (*Card, error)

	// List returns every card ordered by interaction ID.
	List(ctx context.Context) ([]*Card, error)
}

// Progress is the last known state of one interaction for one user.
type Progress struct {
	UserID        string
	AppID         string
	InteractionID string
	Kind          string
	State         []byte
	Completed     bool
	Revision      int64
	UpdatedAt     time.Time
}

// ProgressRepo stores progress snapshots with last-write-wins semantics.
type ProgressRepo interface {
	// Upsert replaces the stored snapshot and assigns it a new revision.
	Upsert(ctx context.Context, p *Progress) error

	// List returns every snapshot for the user and app, newest first.
	List(ctx context.Context, userID, appID string) ([]*Progress, error)

	// Delete removes one snapshot.
	Delete(ctx context.Context, userID, appID, interactionID string) error
}

// Notification is a nudge pointing at a card. Empty UserID or AppID means
// it applies to everyone.
type Notification struct {
	ID        string
	UserID    string
	AppID     string
	Type      string
	Title     string
	ActionID  string
	CreatedAt time.Time
}

// NotificationRepo stores notifications.
type NotificationRepo interface {
	// Add stores a notification.
	Add(ctx context.Context, n *Notification) error

	// ForUser returns notifications addressed to the user and app, oldest
	// first.
	ForUser(ctx context.Context, userID, appID string) ([]*Notification, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// CountLLMRequests returns the number of recorded events.
	CountLLMRequests(ctx context.Context) (int, error)

	// RecentLLMRequests returns up to limit events, newest first.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per request purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	Sequence  int64
	CreatedAt time.Time
	LLMRequestEventData
}

// LLMUsage is the aggregate for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}
