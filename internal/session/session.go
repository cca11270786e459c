// Package session carries the identity a widget acts on behalf of.
package session

import (
	"context"
	"errors"
)

// Session identifies the user and host application for progress sync. It is
// passed explicitly to widgets and the gateway; nothing reads it from
// process-wide state.
type Session struct {
	UserID string
	AppID  string

	// HistoryMode makes newly selected widgets resume from prior progress.
	HistoryMode bool
}

var (
	ErrMissingUser = errors.New("session: user id is required")
	ErrMissingApp  = errors.New("session: app id is required")
)

// Validate checks that the identity is complete.
func (s Session) Validate() error {
	if s.UserID == "" {
		return ErrMissingUser
	}
	if s.AppID == "" {
		return ErrMissingApp
	}
	return nil
}

// Key identifies one interaction's progress for this session.
func (s Session) Key(interactionID string) Key {
	return Key{UserID: s.UserID, AppID: s.AppID, InteractionID: interactionID}
}

// Key is the coalescing and storage key for progress snapshots.
type Key struct {
	UserID        string
	AppID         string
	InteractionID string
}

type contextKey string

const sessionKey contextKey = "nudge_session"

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// From extracts the session from ctx.
func From(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}
