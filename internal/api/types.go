package api

import (
	"encoding/json"
	"time"

	"github.com/abhisek/nudge/internal/card"
)

// Notification is a pending nudge pointing at one interaction.
type Notification struct {
	ID       string    `json:"id"`
	Type     card.Kind `json:"type"`
	Title    string    `json:"title"`
	ActionID string    `json:"actionId"`
}

// ProgressRecord is the last mirrored state of one interaction.
type ProgressRecord struct {
	InteractionID string          `json:"interactionId"`
	Kind          card.Kind       `json:"kind"`
	Title         string          `json:"title,omitempty"`
	Activity      json.RawMessage `json:"activity"`
	Completed     bool            `json:"completed"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ActionRequest reports something the user did in the host app so the
// backend can answer with a fresh nudge.
type ActionRequest struct {
	UserID  string            `json:"userId"`
	AppID   string            `json:"appId"`
	Action  string            `json:"action"`
	Details map[string]string `json:"details,omitempty"`
}

// ActionResponse describes the nudge created for an action.
type ActionResponse struct {
	Message      string       `json:"message"`
	Notification Notification `json:"notification"`
}

// ListResponse wraps list endpoints.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	PathCards         = "/v1/cards"
	PathProgress      = "/v1/progress"
	PathNotifications = "/v1/notifications"
	PathActions       = "/v1/actions"
	PathHealth        = "/health"

	HeaderRequestID = "X-Request-ID"
)
