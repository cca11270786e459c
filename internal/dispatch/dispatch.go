// Package dispatch turns a selected notification into a live widget.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/api"
	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/ledger"
	"github.com/abhisek/nudge/internal/session"
	"github.com/abhisek/nudge/internal/widget"
)

var (
	// ErrCardUnavailable means no widget could be built for the selection.
	ErrCardUnavailable = errors.New("could not load card data")

	// ErrSuperseded means a newer selection replaced this one mid-flight.
	ErrSuperseded = errors.New("selection superseded")
)

// Source is the remote side of dispatch.
type Source interface {
	FetchCardDocument(ctx context.Context, sess session.Session, interactionID string) (*card.Document, error)
	FetchPriorProgress(ctx context.Context, sess session.Session) ([]api.ProgressRecord, error)
	FetchNotifications(ctx context.Context, sess session.Session) ([]api.Notification, error)
}

// Selection is the user's choice of one notification or history entry.
type Selection struct {
	InteractionID string
	Kind          card.Kind
	Title         string
}

// Dispatcher owns the single active widget. Selecting a new interaction
// closes the previous widget before anything else happens.
type Dispatcher struct {
	source Source
	opts   widget.Options
	logger *zap.Logger

	mu      sync.Mutex
	gen     uint64
	current widget.Widget
}

// New creates a dispatcher. opts.Session identifies the user for every
// fetch and every widget it builds.
func New(source Source, opts widget.Options, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Dispatcher{
		source: source,
		opts:   opts,
		logger: logger.Named("dispatch"),
	}
}

// Session returns the identity the dispatcher acts for.
func (d *Dispatcher) Session() session.Session {
	return d.opts.Session
}

// Current returns the active widget, or nil.
func (d *Dispatcher) Current() widget.Widget {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Select replaces the active widget with one built for sel. In history mode
// the widget resumes from the stored progress for the interaction.
func (d *Dispatcher) Select(ctx context.Context, sel Selection) (widget.Widget, error) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	if d.current != nil {
		d.current.Close()
		d.current = nil
	}
	d.mu.Unlock()

	log := d.logger.With(zap.String("interaction_id", sel.InteractionID))
	sess := d.opts.Session

	doc, err := d.source.FetchCardDocument(ctx, sess, sel.InteractionID)
	if err != nil {
		if d.superseded(gen) {
			return nil, ErrSuperseded
		}
		log.Warn("card fetch failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCardUnavailable, err)
	}
	if sel.Kind != "" && sel.Kind != doc.Kind {
		log.Warn("notification kind differs from document",
			zap.String("notified", string(sel.Kind)),
			zap.String("document", string(doc.Kind)))
	}

	w, err := widget.New(doc, d.opts)
	if err != nil {
		log.Warn("widget build failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCardUnavailable, err)
	}

	if sess.HistoryMode {
		d.rehydrate(ctx, w, log)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen {
		w.Close()
		return nil, ErrSuperseded
	}
	d.current = w
	return w, nil
}

// rehydrate applies the stored snapshot for w, if any. Failures leave the
// widget fresh.
func (d *Dispatcher) rehydrate(ctx context.Context, w widget.Widget, log *zap.Logger) {
	recs, err := d.source.FetchPriorProgress(ctx, d.opts.Session)
	if err != nil {
		log.Warn("prior progress unavailable", zap.Error(err))
		return
	}
	for _, rec := range recs {
		if rec.InteractionID != w.InteractionID() {
			continue
		}
		st, err := ledger.ParseState(widget.ModeFor(w.Kind()), rec.Activity)
		if err != nil {
			log.Warn("prior progress unreadable", zap.Error(err))
			return
		}
		if err := w.ApplyProgress(st); err != nil {
			log.Warn("prior progress not applied", zap.Error(err))
			return
		}
		log.Debug("prior progress applied", zap.Bool("completed", rec.Completed))
		return
	}
}

func (d *Dispatcher) superseded(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen != gen
}

// Close closes the active widget.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.current != nil {
		d.current.Close()
		d.current = nil
	}
}
