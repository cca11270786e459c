// Package checklist is the checklist screen.
package checklist

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/screen"
	"github.com/abhisek/nudge/internal/ui/components"
	"github.com/abhisek/nudge/internal/ui/layout"
	"github.com/abhisek/nudge/internal/widget"
)

// GenerateTimeout bounds one item generation request.
const GenerateTimeout = 45 * time.Second

type mode int

const (
	modeList mode = iota
	modeConfirmReset
	modePrompt
	modeGenerating
)

// itemGeneratedMsg carries the result of RequestItem.
type itemGeneratedMsg struct {
	item card.ChecklistItem
	err  error
}

// Screen lists the checklist items with a cursor.
type Screen struct {
	ctx  context.Context
	list *widget.Checklist

	cursor  int
	mode    mode
	confirm components.Confirm
	prompt  components.TextInput
	status  string
	failed  bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.Closer          = (*Screen)(nil)
)

// New creates the screen. ctx bounds generation requests.
func New(ctx context.Context, c *widget.Checklist) *Screen {
	return &Screen{ctx: ctx, list: c}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return s.list.Document().Title }

func (s *Screen) Close() { s.list.Close() }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case itemGeneratedMsg:
		s.mode = modeList
		if msg.err != nil {
			s.failed = true
			s.status = generateError(msg.err)
			return s, nil
		}
		s.failed = false
		s.status = "Added: " + msg.item.Description
		s.cursor = len(s.list.Items()) - 1
		return s, nil

	case tea.KeyMsg:
		switch s.mode {
		case modeConfirmReset:
			return s, s.handleConfirm(msg.String())
		case modePrompt:
			return s, s.handlePrompt(msg)
		case modeGenerating:
			return s, nil
		}
		return s, s.handleListKey(msg.String())
	}

	if s.mode == modePrompt {
		var cmd tea.Cmd
		s.prompt, cmd = s.prompt.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleListKey(key string) tea.Cmd {
	items := s.list.Items()
	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(items)-1 {
			s.cursor++
		}
	case "space", " ", "enter":
		if s.cursor < len(items) {
			res := s.list.Toggle(items[s.cursor].ID)
			s.status = ""
			if res.AllDone {
				s.failed = false
				s.status = "All done!"
			}
		}
	case "R":
		s.mode = modeConfirmReset
		s.confirm = components.NewConfirm("Uncheck every item?")
	case "g":
		s.mode = modePrompt
		s.prompt = components.NewTextInput("What should the next item help with?", 200)
		s.status = ""
	}
	return nil
}

func (s *Screen) handleConfirm(key string) tea.Cmd {
	var done, yes bool
	s.confirm, done, yes = s.confirm.Key(key)
	if !done {
		return nil
	}
	s.mode = modeList
	if yes {
		s.list.Reset()
		s.failed = false
		s.status = "Checklist reset"
	}
	return nil
}

func (s *Screen) handlePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.mode = modeList
		return nil
	case "enter":
		prompt := s.prompt.Value()
		if prompt == "" {
			return nil
		}
		s.mode = modeGenerating
		s.status = "Thinking…"
		return s.generate(prompt)
	}
	var cmd tea.Cmd
	s.prompt, cmd = s.prompt.Update(msg)
	return cmd
}

func (s *Screen) generate(prompt string) tea.Cmd {
	ctx, list := s.ctx, s.list
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, GenerateTimeout)
		defer cancel()
		item, err := list.RequestItem(ctx, prompt)
		return itemGeneratedMsg{item: item, err: err}
	}
}

func generateError(err error) string {
	switch {
	case errors.Is(err, widget.ErrNoGenerator):
		return "Item generation is not configured"
	case errors.Is(err, widget.ErrDuplicateItem):
		return "That item is already on the list"
	case errors.Is(err, context.DeadlineExceeded):
		return "Generation timed out"
	}
	return "Could not generate an item"
}

// Capturing reports whether the screen is reading text, so the host must
// not treat esc as "back".
func (s *Screen) Capturing() bool {
	return s.mode == modePrompt || s.mode == modeConfirmReset
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeConfirmReset:
		return []layout.KeyHint{{Key: "y", Description: "Reset"}, {Key: "n", Description: "Cancel"}}
	case modePrompt:
		return []layout.KeyHint{{Key: "Enter", Description: "Generate"}, {Key: "Esc", Description: "Cancel"}}
	case modeGenerating:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Toggle"},
		{Key: "R", Description: "Reset"},
		{Key: "g", Description: "Suggest item"},
		{Key: "Esc", Description: "Back"},
	}
}
