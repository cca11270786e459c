// Package widget implements the interactive card state machines: flashcard
// decks, checklists, and quizzes. Each widget owns one progress ledger and
// mirrors it through a Pusher after every transition.
package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/gateway"
	"github.com/abhisek/nudge/internal/ledger"
	"github.com/abhisek/nudge/internal/session"
)

// Pusher receives full-state snapshots. Push must not block.
type Pusher interface {
	Push(p gateway.Payload)
}

// ItemGenerator produces a new checklist item for a prompt.
type ItemGenerator interface {
	GenerateItem(ctx context.Context, req ItemRequest) (card.ChecklistItem, error)
}

// ItemRequest is the input for generating a checklist item.
type ItemRequest struct {
	ChecklistTitle string
	Prompt         string
	Existing       []string
}

// Options configures a widget.
type Options struct {
	Session   session.Session
	Pusher    Pusher
	Generator ItemGenerator
	Logger    *zap.Logger
	Clock     func() time.Time
}

// Progress is the derived progress of a widget's ledger.
type Progress struct {
	Done      int
	NotDone   int
	Total     int
	Remaining int
	Percent   float64
}

// Widget is the common capability set of every card kind.
type Widget interface {
	Kind() card.Kind
	Document() *card.Document
	InteractionID() string
	Progress() Progress
	IsComplete() bool
	State() ledger.State
	ApplyProgress(st ledger.State) error
	Reset()
	Close()
}

var (
	ErrNilDocument     = errors.New("widget: nil document")
	ErrUnsupportedKind = errors.New("widget: unsupported card kind")
	ErrClosed          = errors.New("widget: closed")
	ErrDuplicateItem   = errors.New("widget: duplicate checklist item")
	ErrNoGenerator     = errors.New("widget: no item generator configured")
)

// New builds the widget matching doc.Kind.
func New(doc *card.Document, opts Options) (Widget, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	switch doc.Kind {
	case card.KindFlashcards:
		return NewDeck(doc, opts), nil
	case card.KindChecklist:
		return NewChecklist(doc, opts), nil
	case card.KindQuiz:
		return NewQuiz(doc, opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, doc.Kind)
}

// ModeFor returns the ledger mode a card kind records with.
func ModeFor(kind card.Kind) ledger.Mode {
	if kind == card.KindChecklist {
		return ledger.Toggle
	}
	return ledger.Sequential
}

// base holds what every widget shares. Transitions take mu for their whole
// duration so no partially applied ledger update is ever visible.
type base struct {
	mu     sync.Mutex
	doc    *card.Document
	opts   Options
	logger *zap.Logger
	closed bool
}

func (b *base) init(doc *card.Document, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	b.doc = doc
	b.opts = opts
	b.logger = logger.With(
		zap.String("interaction_id", doc.ID),
		zap.String("kind", string(doc.Kind)),
	)
}

func (b *base) Kind() card.Kind          { return b.doc.Kind }
func (b *base) Document() *card.Document { return b.doc }
func (b *base) InteractionID() string    { return b.doc.ID }

// closeLocked marks the widget closed. b.mu must be held.
func (b *base) closeLocked() {
	b.closed = true
}

// push hands st to the pusher. b.mu must be held so snapshots leave in
// transition order.
func (b *base) push(st ledger.State) {
	if b.opts.Pusher == nil {
		return
	}
	p, err := gateway.NewPayload(b.opts.Session, b.doc.ID, b.doc.Kind, st)
	if err != nil {
		b.logger.Error("build progress payload", zap.Error(err))
		return
	}
	b.opts.Pusher.Push(p)
}

func progressOf(l *ledger.Ledger) Progress {
	return Progress{
		Done:      l.Done(),
		NotDone:   l.NotDone(),
		Total:     l.Total(),
		Remaining: l.Remaining(),
		Percent:   l.Percent(),
	}
}
