package dispatch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/card"
)

// Origin says where an inbox entry came from.
type Origin string

const (
	FromNotification Origin = "notification"
	FromHistory      Origin = "history"
)

// Entry is one selectable row in the inbox.
type Entry struct {
	Selection
	Origin    Origin
	Completed bool
	UpdatedAt time.Time
}

// Inbox lists pending notifications followed by interactions with stored
// progress that no notification already covers. It fails only when both
// lists are unavailable.
func (d *Dispatcher) Inbox(ctx context.Context) ([]Entry, error) {
	sess := d.opts.Session
	var entries []Entry
	seen := make(map[string]bool)

	notes, nerr := d.source.FetchNotifications(ctx, sess)
	if nerr != nil {
		d.logger.Warn("notifications unavailable", zap.Error(nerr))
	}
	for _, n := range notes {
		if n.ActionID == "" || seen[n.ActionID] {
			continue
		}
		seen[n.ActionID] = true
		entries = append(entries, Entry{
			Selection: Selection{InteractionID: n.ActionID, Kind: n.Type, Title: n.Title},
			Origin:    FromNotification,
		})
	}

	recs, rerr := d.source.FetchPriorProgress(ctx, sess)
	if rerr != nil {
		d.logger.Warn("history unavailable", zap.Error(rerr))
	}
	for _, r := range recs {
		if seen[r.InteractionID] {
			for i := range entries {
				if entries[i].InteractionID == r.InteractionID {
					entries[i].Completed = r.Completed
					entries[i].UpdatedAt = r.UpdatedAt
				}
			}
			continue
		}
		seen[r.InteractionID] = true
		title := r.Title
		if title == "" {
			title = r.InteractionID
		}
		entries = append(entries, Entry{
			Selection: Selection{InteractionID: r.InteractionID, Kind: r.Kind, Title: title},
			Origin:    FromHistory,
			Completed: r.Completed,
			UpdatedAt: r.UpdatedAt,
		})
	}

	if nerr != nil && rerr != nil {
		return nil, errors.Join(nerr, rerr)
	}
	return entries, nil
}

// KindLabel is the human label for a card kind.
func KindLabel(k card.Kind) string {
	switch k {
	case card.KindFlashcards:
		return "Flashcards"
	case card.KindChecklist:
		return "Checklist"
	case card.KindQuiz:
		return "Quiz"
	}
	return "Card"
}
