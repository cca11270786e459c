package widget

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/ledger"
)

// ToggleResult reports what a Toggle did.
type ToggleResult struct {
	Toggled bool
	Checked bool
	AllDone bool
}

// Checklist is a set of tasks checked off in any order. It never locks: any
// item can be unchecked again.
type Checklist struct {
	base

	items  []card.ChecklistItem
	ledger *ledger.Ledger
}

// NewChecklist creates a checklist over doc.Tasks. Items flagged Completed
// in the document start checked.
func NewChecklist(doc *card.Document, opts Options) *Checklist {
	c := &Checklist{items: append([]card.ChecklistItem(nil), doc.Tasks...)}
	c.init(doc, opts)
	c.ledger = ledger.New(ledger.Toggle, doc.ItemIDs())
	c.ledger.SetClock(c.opts.Clock)
	for _, it := range doc.Tasks {
		if it.Completed {
			c.ledger.Record(it.ID, ledger.Checked)
		}
	}
	return c
}

// Items returns the live item list, including added items.
func (c *Checklist) Items() []card.ChecklistItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]card.ChecklistItem(nil), c.items...)
}

// IsChecked reports whether itemID is checked.
func (c *Checklist) IsChecked(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.IsChecked(itemID)
}

// CheckedAt returns when itemID was checked, or the zero time.
func (c *Checklist) CheckedAt(itemID string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.CheckedAt(itemID)
}

// Toggle flips itemID between checked and unchecked.
func (c *Checklist) Toggle(itemID string) ToggleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.ledger.Record(itemID, ledger.Checked) {
		return ToggleResult{}
	}

	res := ToggleResult{
		Toggled: true,
		Checked: c.ledger.IsChecked(itemID),
		AllDone: c.ledger.IsComplete(),
	}
	if res.AllDone {
		c.logger.Debug("checklist complete")
	}
	c.push(c.ledger.Snapshot())
	return res
}

// Reset unchecks every item. Confirmation is the caller's job.
func (c *Checklist) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.ledger.Reset()
	c.push(c.ledger.Snapshot())
}

// AddItem appends an unchecked item.
func (c *Checklist) AddItem(item card.ChecklistItem) error {
	item.Description = strings.TrimSpace(item.Description)
	if item.ID == "" {
		item.ID = item.Description
	}
	if item.ID == "" {
		return fmt.Errorf("add checklist item: empty description")
	}
	item.Completed = false

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.ledger.Add(item.ID) {
		return fmt.Errorf("%w: %q", ErrDuplicateItem, item.ID)
	}
	c.items = append(c.items, item)
	c.push(c.ledger.Snapshot())
	return nil
}

// RequestItem asks the generator for one more item based on prompt and adds
// it. Generator failures leave the checklist untouched.
func (c *Checklist) RequestItem(ctx context.Context, prompt string) (card.ChecklistItem, error) {
	c.mu.Lock()
	gen := c.opts.Generator
	req := ItemRequest{ChecklistTitle: c.doc.Title, Prompt: prompt}
	for _, it := range c.items {
		req.Existing = append(req.Existing, it.Description)
	}
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return card.ChecklistItem{}, ErrClosed
	}
	if gen == nil {
		return card.ChecklistItem{}, ErrNoGenerator
	}

	item, err := gen.GenerateItem(ctx, req)
	if err != nil {
		c.logger.Warn("generate checklist item", zap.Error(err))
		return card.ChecklistItem{}, fmt.Errorf("generate checklist item: %w", err)
	}
	if err := c.AddItem(item); err != nil {
		return card.ChecklistItem{}, err
	}
	return item, nil
}

// Progress reports checked items against the live total.
func (c *Checklist) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progressOf(c.ledger)
}

// IsComplete reports whether every item is checked.
func (c *Checklist) IsComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.IsComplete()
}

// State returns the persisted snapshot.
func (c *Checklist) State() ledger.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Snapshot()
}

// ApplyProgress replaces the checked set with a persisted snapshot.
func (c *Checklist) ApplyProgress(st ledger.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.ledger.Restore(st)
}

// Close turns every later transition into a no-op.
func (c *Checklist) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}
