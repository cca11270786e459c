package widget

import (
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/ledger"
)

// DeckPhase is the state of a deck.
type DeckPhase int

const (
	DeckActive   DeckPhase = iota // Cards left in the current pass
	DeckComplete                  // Every card in the pass has an outcome
)

// AdvanceResult reports what an Advance did.
type AdvanceResult struct {
	Recorded    bool
	Card        card.Flashcard
	Outcome     ledger.Outcome
	Streak      int
	Celebrate   bool
	Celebration string
	Completed   bool
}

// Deck is a flashcard deck worked through one card at a time. A card is
// marked known (Accepted) or still learning (Rejected); the last advance can
// be recalled; a finished deck can be replayed in full or for the cards
// still being learned.
type Deck struct {
	base

	original []card.Flashcard
	cards    []card.Flashcard // current pass, history order first
	ledger   *ledger.Ledger

	// known holds cards accepted in earlier review passes.
	known map[string]bool
	pass  int

	auto autoState
}

// NewDeck creates a deck over doc.Cards.
func NewDeck(doc *card.Document, opts Options) *Deck {
	d := &Deck{original: doc.Cards}
	d.init(doc, opts)
	d.startPass(doc.Cards)
	return d
}

func (d *Deck) startPass(cards []card.Flashcard) {
	d.cards = cards
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	d.ledger = ledger.New(ledger.Sequential, ids)
	d.ledger.SetClock(d.opts.Clock)
}

// Phase returns the current deck state.
func (d *Deck) Phase() DeckPhase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phaseLocked()
}

func (d *Deck) phaseLocked() DeckPhase {
	if d.ledger.IsComplete() {
		return DeckComplete
	}
	return DeckActive
}

// Cursor is the index of the current card within the pass.
func (d *Deck) Cursor() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ledger.Cursor()
}

// Current returns the card at the cursor. ok is false once the pass is done.
func (d *Deck) Current() (card.Flashcard, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := d.ledger.Cursor()
	if cur >= len(d.cards) {
		return card.Flashcard{}, false
	}
	return d.cards[cur], true
}

// PassSize is the number of cards in the current pass.
func (d *Deck) PassSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards)
}

// Pass is zero for the full deck and counts review passes after that.
func (d *Deck) Pass() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pass
}

// Streak is the number of consecutive known cards ending at the cursor.
func (d *Deck) Streak() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streakLocked()
}

func (d *Deck) streakLocked() int {
	h := d.ledger.History()
	n := 0
	for i := len(h) - 1; i >= 0 && h[i].Outcome == ledger.Accepted; i-- {
		n++
	}
	return n
}

// Advance records outcome for the current card and moves to the next one.
// It stops auto-advance and does nothing once the pass is complete.
func (d *Deck) Advance(outcome ledger.Outcome) AdvanceResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return AdvanceResult{}
	}
	d.auto.stop()
	return d.advanceLocked(outcome)
}

func (d *Deck) advanceLocked(outcome ledger.Outcome) AdvanceResult {
	if outcome != ledger.Accepted && outcome != ledger.Rejected {
		return AdvanceResult{}
	}
	cur := d.ledger.Cursor()
	if cur >= len(d.cards) {
		return AdvanceResult{}
	}
	c := d.cards[cur]
	if !d.ledger.Record(c.ID, outcome) {
		return AdvanceResult{}
	}

	res := AdvanceResult{
		Recorded: true,
		Card:     c,
		Outcome:  outcome,
		Streak:   d.streakLocked(),
	}
	if outcome == ledger.Accepted && IsCelebration(res.Streak) {
		res.Celebrate = true
		res.Celebration = CelebrationMessage(res.Streak)
	}
	if d.ledger.IsComplete() {
		res.Completed = true
		d.auto.stop()
		d.logger.Debug("deck pass complete")
	}

	d.push(d.stateLocked())
	return res
}

// Recall undoes the most recent advance, restoring the card, the outcome
// counts, and the streak. It also leaves Complete for the last card.
func (d *Deck) Recall() (ledger.Entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ledger.Entry{}, false
	}
	d.auto.stop()

	e, ok := d.ledger.UndoLast()
	if !ok {
		return ledger.Entry{}, false
	}
	d.push(d.stateLocked())
	return e, true
}

// CanRecall reports whether there is an advance to undo.
func (d *Deck) CanRecall() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && d.ledger.Cursor() > 0
}

// Restart returns to the full original deck with no outcomes.
func (d *Deck) Restart() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.auto.stop()
	d.known = nil
	d.pass = 0
	d.startPass(d.original)
	d.push(d.stateLocked())
}

// Reset is Restart.
func (d *Deck) Reset() { d.Restart() }

// ReviewIncorrect starts a pass over the cards still being learned, in their
// original order. It only applies to a complete pass with at least one such
// card. Cards known so far stay counted toward accuracy; the streak starts
// over.
func (d *Deck) ReviewIncorrect() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || !d.ledger.IsComplete() || d.ledger.NotDone() == 0 {
		return false
	}
	d.auto.stop()

	rejected := make(map[string]bool)
	if d.known == nil {
		d.known = make(map[string]bool)
	}
	for _, e := range d.ledger.History() {
		if e.Outcome == ledger.Accepted {
			d.known[e.ItemID] = true
		} else {
			rejected[e.ItemID] = true
		}
	}

	review := make([]card.Flashcard, 0, len(rejected))
	for _, c := range d.original {
		if rejected[c.ID] {
			review = append(review, c)
		}
	}

	d.pass++
	d.startPass(review)
	d.push(d.stateLocked())
	return true
}

// Progress reports the current pass.
func (d *Deck) Progress() Progress {
	d.mu.Lock()
	defer d.mu.Unlock()
	return progressOf(d.ledger)
}

// IsComplete reports whether the current pass is finished.
func (d *Deck) IsComplete() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ledger.IsComplete()
}

// Results summarizes the deck against its original size.
func (d *Deck) Results() DeckResults {
	d.mu.Lock()
	defer d.mu.Unlock()
	known := len(d.known) + d.ledger.Done()
	return newDeckResults(known, d.ledger.NotDone(), len(d.original))
}

// State returns the persisted snapshot: cards known in earlier passes first,
// then the current pass in recorded order.
func (d *Deck) State() ledger.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stateLocked()
}

func (d *Deck) stateLocked() ledger.State {
	s := d.ledger.SequenceSnapshot(0)
	if len(d.known) > 0 {
		prior := make([]ledger.ItemImpression, 0, len(d.known)+len(s.Progress))
		for _, c := range d.original {
			if d.known[c.ID] {
				prior = append(prior, ledger.ItemImpression{ItemID: c.ID, Impression: ledger.Right})
			}
		}
		s.Progress = append(prior, s.Progress...)
	}
	s.CurrentIndex = len(s.Progress)
	return s
}

// ApplyProgress replaces the deck state with a persisted snapshot. Recorded
// cards move to the front of the deck in recorded order so the cursor always
// points at the first card without an outcome.
func (d *Deck) ApplyProgress(st ledger.State) error {
	s, ok := st.(*ledger.SequenceState)
	if !ok {
		return ledger.ErrStateMismatch
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.auto.stop()

	byID := make(map[string]card.Flashcard, len(d.original))
	for _, c := range d.original {
		byID[c.ID] = c
	}

	seen := make(map[string]bool)
	ordered := make([]card.Flashcard, 0, len(d.original))
	for _, p := range s.Progress {
		c, ok := byID[p.ItemID]
		if !ok || seen[p.ItemID] {
			continue
		}
		if _, valid := ledger.OutcomeOf(p.Impression); !valid {
			continue
		}
		seen[p.ItemID] = true
		ordered = append(ordered, c)
	}
	for _, c := range d.original {
		if !seen[c.ID] {
			ordered = append(ordered, c)
		}
	}

	d.known = nil
	d.pass = 0
	d.startPass(ordered)
	if err := d.ledger.Restore(s); err != nil {
		return err
	}
	d.logger.Debug("deck progress applied", zap.Int("cursor", d.ledger.Cursor()))
	return nil
}

// Close stops auto-advance and turns every later transition into a no-op.
func (d *Deck) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.auto.stop()
	d.closeLocked()
}
