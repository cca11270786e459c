// Package inbox is the root screen: pending notifications and earlier
// interactions, each opening its widget.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nudge/internal/dispatch"
	"github.com/abhisek/nudge/internal/router"
	"github.com/abhisek/nudge/internal/screen"
	"github.com/abhisek/nudge/internal/screens/checklist"
	"github.com/abhisek/nudge/internal/screens/deck"
	"github.com/abhisek/nudge/internal/screens/quiz"
	"github.com/abhisek/nudge/internal/screens/unavailable"
	"github.com/abhisek/nudge/internal/ui/components"
	"github.com/abhisek/nudge/internal/ui/layout"
	"github.com/abhisek/nudge/internal/widget"
)

// Dispatcher is the part of dispatch.Dispatcher the inbox drives.
type Dispatcher interface {
	Inbox(ctx context.Context) ([]dispatch.Entry, error)
	Select(ctx context.Context, sel dispatch.Selection) (widget.Widget, error)
}

// LoadTimeout bounds one inbox refresh or card selection.
const LoadTimeout = 15 * time.Second

type inboxLoadedMsg struct {
	entries []dispatch.Entry
	err     error
}

type selectedMsg struct {
	sel    dispatch.Selection
	widget widget.Widget
	err    error
}

// Screen lists inbox entries.
type Screen struct {
	ctx  context.Context
	disp Dispatcher

	loading bool
	opening string
	entries []dispatch.Entry
	menu    components.Menu
	err     error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the inbox. ctx bounds every fetch it starts.
func New(ctx context.Context, disp Dispatcher) *Screen {
	return &Screen{ctx: ctx, disp: disp}
}

func (s *Screen) Init() tea.Cmd {
	return s.refresh()
}

func (s *Screen) Title() string { return "Inbox" }

func (s *Screen) refresh() tea.Cmd {
	s.loading = true
	ctx, disp := s.ctx, s.disp
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
		defer cancel()
		entries, err := disp.Inbox(ctx)
		return inboxLoadedMsg{entries: entries, err: err}
	}
}

func (s *Screen) open(sel dispatch.Selection) tea.Cmd {
	s.opening = sel.Title
	ctx, disp := s.ctx, s.disp
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
		defer cancel()
		w, err := disp.Select(ctx, sel)
		return selectedMsg{sel: sel, widget: w, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case inboxLoadedMsg:
		s.loading = false
		s.err = msg.err
		s.entries = msg.entries
		s.buildMenu()
		return s, nil

	case selectedMsg:
		s.opening = ""
		if errors.Is(msg.err, dispatch.ErrSuperseded) {
			return s, nil
		}
		next := s.screenFor(msg)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.opening != "" {
			return s, nil
		}
		if msg.String() == "r" && !s.loading {
			return s, s.refresh()
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) buildMenu() {
	items := make([]components.MenuItem, 0, len(s.entries))
	for _, e := range s.entries {
		sel := e.Selection
		items = append(items, components.MenuItem{
			Label:  sel.Title,
			Detail: entryDetail(e),
			Action: func() tea.Cmd { return s.open(sel) },
		})
	}
	s.menu = components.NewMenu(items)
}

func entryDetail(e dispatch.Entry) string {
	d := dispatch.KindLabel(e.Kind)
	switch {
	case e.Completed:
		d += " · done"
	case e.Origin == dispatch.FromHistory:
		d += " · in progress"
	default:
		d += " · new"
	}
	return d
}

// screenFor picks the screen for a selected widget.
func (s *Screen) screenFor(msg selectedMsg) screen.Screen {
	if msg.err != nil {
		return unavailable.New(msg.sel.Title, "")
	}
	switch w := msg.widget.(type) {
	case *widget.Deck:
		return deck.New(w, 0)
	case *widget.Checklist:
		return checklist.New(s.ctx, w)
	case *widget.Quiz:
		return quiz.New(w)
	}
	return unavailable.New(msg.sel.Title, fmt.Sprintf("unsupported card type %q", msg.sel.Kind))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "r", Description: "Refresh"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
