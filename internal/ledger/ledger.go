// Package ledger records per-item outcomes for a single widget and derives
// its progress counters.
package ledger

import (
	"math"
	"time"
)

// Mode selects how outcomes are recorded.
type Mode int

const (
	Sequential Mode = iota // Ordered history with a cursor (decks, quizzes)
	Toggle                 // Unordered checked set (checklists)
)

// Outcome is the result recorded for one item.
type Outcome int

const (
	Accepted Outcome = iota // "right": known / answered correctly
	Rejected                // "left": still learning / answered wrong
	Checked                 // toggle mode membership
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Checked:
		return "checked"
	}
	return "unknown"
}

// Entry is one recorded outcome.
type Entry struct {
	ItemID   string
	Outcome  Outcome
	Selected string // chosen option for quiz answers
	At       time.Time
}

// Ledger is the progress record owned by one widget. It is not safe for
// concurrent use; the owning widget serializes access.
type Ledger struct {
	mode  Mode
	items []string
	index map[string]int

	history  []Entry
	recorded map[string]int // item ID -> position in history

	checked map[string]time.Time

	now func() time.Time
}

// New creates an empty ledger over the given ordered item IDs.
func New(mode Mode, itemIDs []string) *Ledger {
	l := &Ledger{
		mode:     mode,
		index:    make(map[string]int, len(itemIDs)),
		recorded: make(map[string]int),
		checked:  make(map[string]time.Time),
		now:      time.Now,
	}
	for _, id := range itemIDs {
		l.Add(id)
	}
	return l
}

// SetClock overrides the timestamp source.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

// Mode returns the ledger's recording mode.
func (l *Ledger) Mode() Mode { return l.mode }

// Items returns the ordered item IDs tracked by the ledger.
func (l *Ledger) Items() []string {
	return append([]string(nil), l.items...)
}

// Add extends the tracked item set. Existing IDs are ignored.
func (l *Ledger) Add(itemID string) bool {
	if _, ok := l.index[itemID]; ok {
		return false
	}
	l.index[itemID] = len(l.items)
	l.items = append(l.items, itemID)
	return true
}

// Has reports whether itemID is tracked.
func (l *Ledger) Has(itemID string) bool {
	_, ok := l.index[itemID]
	return ok
}

// Total is the number of tracked items.
func (l *Ledger) Total() int { return len(l.items) }

// Cursor is the number of recorded entries in sequential mode.
func (l *Ledger) Cursor() int { return len(l.history) }

// Record stores an outcome for itemID. In sequential mode it is a no-op when
// the item already has an outcome, the cursor is at the end, or the item is
// unknown. In toggle mode it flips membership. It reports whether the ledger
// changed.
func (l *Ledger) Record(itemID string, outcome Outcome) bool {
	return l.record(Entry{ItemID: itemID, Outcome: outcome})
}

// RecordAnswer records a sequential outcome together with the chosen option.
func (l *Ledger) RecordAnswer(itemID, selected string, correct bool) bool {
	outcome := Rejected
	if correct {
		outcome = Accepted
	}
	return l.record(Entry{ItemID: itemID, Outcome: outcome, Selected: selected})
}

func (l *Ledger) record(e Entry) bool {
	if !l.Has(e.ItemID) {
		return false
	}

	if l.mode == Toggle {
		if _, ok := l.checked[e.ItemID]; ok {
			delete(l.checked, e.ItemID)
		} else {
			l.checked[e.ItemID] = l.now()
		}
		return true
	}

	if e.Outcome == Checked {
		return false
	}
	if _, ok := l.recorded[e.ItemID]; ok {
		return false
	}
	if len(l.history) >= len(l.items) {
		return false
	}
	e.At = l.now()
	l.recorded[e.ItemID] = len(l.history)
	l.history = append(l.history, e)
	return true
}

// UndoLast removes the newest sequential entry. It is a no-op on an empty
// history or in toggle mode.
func (l *Ledger) UndoLast() (Entry, bool) {
	if l.mode != Sequential || len(l.history) == 0 {
		return Entry{}, false
	}
	last := l.history[len(l.history)-1]
	l.history = l.history[:len(l.history)-1]
	delete(l.recorded, last.ItemID)
	return last, true
}

// Lookup returns the recorded entry for itemID.
func (l *Ledger) Lookup(itemID string) (Entry, bool) {
	if l.mode == Toggle {
		at, ok := l.checked[itemID]
		if !ok {
			return Entry{}, false
		}
		return Entry{ItemID: itemID, Outcome: Checked, At: at}, true
	}
	pos, ok := l.recorded[itemID]
	if !ok {
		return Entry{}, false
	}
	return l.history[pos], true
}

// IsChecked reports toggle membership.
func (l *Ledger) IsChecked(itemID string) bool {
	_, ok := l.checked[itemID]
	return ok
}

// CheckedAt returns when itemID was checked, or the zero time.
func (l *Ledger) CheckedAt(itemID string) time.Time {
	return l.checked[itemID]
}

// History returns a copy of the ordered sequential entries.
func (l *Ledger) History() []Entry {
	return append([]Entry(nil), l.history...)
}

// Done counts accepted outcomes, or checked items in toggle mode.
func (l *Ledger) Done() int {
	if l.mode == Toggle {
		return len(l.checked)
	}
	n := 0
	for _, e := range l.history {
		if e.Outcome == Accepted {
			n++
		}
	}
	return n
}

// NotDone counts rejected outcomes. Always zero in toggle mode.
func (l *Ledger) NotDone() int {
	if l.mode == Toggle {
		return 0
	}
	return len(l.history) - l.Done()
}

// Remaining is Total minus Done.
func (l *Ledger) Remaining() int {
	return l.Total() - l.Done()
}

// Percent is Done as a share of Total, 0..100.
func (l *Ledger) Percent() float64 {
	if l.Total() == 0 {
		return 0
	}
	return float64(l.Done()) / float64(l.Total()) * 100
}

// IsComplete reports whether every item has an outcome (sequential) or is
// checked (toggle). An empty ledger is never complete.
func (l *Ledger) IsComplete() bool {
	if l.Total() == 0 {
		return false
	}
	if l.mode == Toggle {
		return len(l.checked) == l.Total()
	}
	return len(l.history) == l.Total()
}

// Reset clears all outcomes. Tracked items are kept.
func (l *Ledger) Reset() {
	l.history = nil
	l.recorded = make(map[string]int)
	l.checked = make(map[string]time.Time)
}

// Percentage rounds a part/total ratio to a whole percent. Zero total yields 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
