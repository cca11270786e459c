package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/ledger"
	"github.com/abhisek/nudge/internal/session"
)

// Payload is the full progress snapshot mirrored for one interaction.
type Payload struct {
	UserID        string          `json:"userId"`
	AppID         string          `json:"appId"`
	InteractionID string          `json:"interactionId"`
	Kind          card.Kind       `json:"kind"`
	State         json.RawMessage `json:"state"`
	Completed     bool            `json:"completed"`
}

// NewPayload serializes st for the interaction identified by sess and
// interactionID.
func NewPayload(sess session.Session, interactionID string, kind card.Kind, st ledger.State) (Payload, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return Payload{}, fmt.Errorf("marshal %s state: %w", kind, err)
	}
	return Payload{
		UserID:        sess.UserID,
		AppID:         sess.AppID,
		InteractionID: interactionID,
		Kind:          kind,
		State:         raw,
		Completed:     st.IsCompleted(),
	}, nil
}

// Key returns the coalescing key for p.
func (p Payload) Key() session.Key {
	return session.Key{UserID: p.UserID, AppID: p.AppID, InteractionID: p.InteractionID}
}
