package widget

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/nudge/internal/ledger"
)

// DefaultAutoAdvanceInterval is one flip-and-hold plus the pause before the
// next card.
const DefaultAutoAdvanceInterval = 2400 * time.Millisecond

// ErrAutoAdvanceUnavailable is returned when auto-advance cannot start.
var ErrAutoAdvanceUnavailable = errors.New("widget: auto-advance unavailable")

// AutoToken identifies one auto-advance run. Steps carrying an old token are
// ignored.
type AutoToken uint64

type autoState struct {
	token  uint64
	active bool
}

// stop invalidates any outstanding token.
func (a *autoState) stop() {
	if a.active {
		a.active = false
		a.token++
	}
}

// StartAutoAdvance begins a run and returns its token. Starting again
// invalidates the previous token.
func (d *Deck) StartAutoAdvance() (AutoToken, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.ledger.IsComplete() {
		return 0, false
	}
	d.auto.token++
	d.auto.active = true
	return AutoToken(d.auto.token), true
}

// AutoStep marks the current card as still learning when tok is the live
// run. more is false when the run has ended, either because it was stopped
// or because the pass completed.
func (d *Deck) AutoStep(tok AutoToken) (res AdvanceResult, more bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || !d.auto.active || AutoToken(d.auto.token) != tok {
		return AdvanceResult{}, false
	}
	res = d.advanceLocked(ledger.Rejected)
	return res, d.auto.active
}

// StopAutoAdvance ends the live run, if any.
func (d *Deck) StopAutoAdvance() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.auto.stop()
}

// AutoAdvancing reports whether a run is live.
func (d *Deck) AutoAdvancing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.auto.active
}

func (d *Deck) stopToken(tok AutoToken) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if AutoToken(d.auto.token) == tok {
		d.auto.stop()
	}
}

// RunAutoAdvance drives a run from a ticker until it ends or ctx is done.
// onStep, if set, sees every recorded step.
func (d *Deck) RunAutoAdvance(ctx context.Context, interval time.Duration, onStep func(AdvanceResult)) error {
	tok, ok := d.StartAutoAdvance()
	if !ok {
		return ErrAutoAdvanceUnavailable
	}
	if interval <= 0 {
		interval = DefaultAutoAdvanceInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.stopToken(tok)
			return ctx.Err()
		case <-ticker.C:
			res, more := d.AutoStep(tok)
			if res.Recorded && onStep != nil {
				onStep(res)
			}
			if !more {
				return nil
			}
		}
	}
}
