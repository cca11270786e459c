package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Impression is the wire name of a sequential outcome.
type Impression string

const (
	Right Impression = "right"
	Left  Impression = "left"
)

// ErrStateMismatch is returned when a snapshot does not fit the ledger mode.
var ErrStateMismatch = errors.New("progress state does not match ledger mode")

// State is a persisted progress snapshot. The concrete type is either
// SequenceState or ChecklistState.
type State interface {
	IsCompleted() bool
	state()
}

// ItemImpression is one sequential outcome on the wire.
type ItemImpression struct {
	ItemID     string     `json:"item_id"`
	Impression Impression `json:"impression"`
}

// SequenceState is the persisted form of a deck or quiz ledger.
type SequenceState struct {
	Progress     []ItemImpression `json:"progress"`
	CurrentIndex int              `json:"current_index"`
	Completed    bool             `json:"completed"`
}

func (s *SequenceState) IsCompleted() bool { return s.Completed }
func (*SequenceState) state()              {}

// ItemState is one checklist item on the wire.
type ItemState struct {
	ItemID  string `json:"item_id"`
	Checked bool   `json:"checked"`
}

// ChecklistState is the persisted form of a checklist ledger.
type ChecklistState struct {
	Items     []ItemState `json:"items"`
	Completed bool        `json:"completed"`
}

func (s *ChecklistState) IsCompleted() bool { return s.Completed }
func (*ChecklistState) state()              {}

// ParseState decodes a persisted snapshot for the given mode.
func ParseState(mode Mode, raw json.RawMessage) (State, error) {
	switch mode {
	case Sequential:
		var s SequenceState
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode sequence state: %w", err)
		}
		if s.Progress == nil {
			s.Progress = []ItemImpression{}
		}
		return &s, nil
	case Toggle:
		var s ChecklistState
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode checklist state: %w", err)
		}
		if s.Items == nil {
			s.Items = []ItemState{}
		}
		return &s, nil
	}
	return nil, fmt.Errorf("unknown ledger mode %d", mode)
}

func impressionOf(o Outcome) Impression {
	if o == Accepted {
		return Right
	}
	return Left
}

// OutcomeOf maps a wire impression to an outcome.
func OutcomeOf(i Impression) (Outcome, bool) {
	switch i {
	case Right:
		return Accepted, true
	case Left:
		return Rejected, true
	}
	return 0, false
}

// SequenceSnapshot captures a sequential ledger with an explicit current
// index, for widgets whose view position differs from the cursor.
func (l *Ledger) SequenceSnapshot(currentIndex int) *SequenceState {
	s := &SequenceState{
		Progress:     make([]ItemImpression, 0, len(l.history)),
		CurrentIndex: currentIndex,
		Completed:    l.IsComplete(),
	}
	for _, e := range l.history {
		s.Progress = append(s.Progress, ItemImpression{
			ItemID:     e.ItemID,
			Impression: impressionOf(e.Outcome),
		})
	}
	return s
}

// Snapshot captures the ledger in its persisted form.
func (l *Ledger) Snapshot() State {
	if l.mode == Toggle {
		s := &ChecklistState{
			Items:     make([]ItemState, 0, len(l.items)),
			Completed: l.IsComplete(),
		}
		for _, id := range l.items {
			s.Items = append(s.Items, ItemState{ItemID: id, Checked: l.IsChecked(id)})
		}
		return s
	}
	return l.SequenceSnapshot(len(l.history))
}

// Restore replaces the ledger contents with a snapshot. Entries are replayed
// through Record, so unknown and duplicate items are dropped and the cursor
// is derived from what was accepted.
func (l *Ledger) Restore(st State) error {
	switch s := st.(type) {
	case *SequenceState:
		if l.mode != Sequential {
			return ErrStateMismatch
		}
		l.Reset()
		for _, p := range s.Progress {
			outcome, ok := OutcomeOf(p.Impression)
			if !ok {
				continue
			}
			l.Record(p.ItemID, outcome)
		}
	case *ChecklistState:
		if l.mode != Toggle {
			return ErrStateMismatch
		}
		l.Reset()
		for _, it := range s.Items {
			if it.Checked && !l.IsChecked(it.ItemID) {
				l.Record(it.ItemID, Checked)
			}
		}
	default:
		return ErrStateMismatch
	}
	return nil
}
