package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nudge/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	closed  bool
	seen    []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) Close()               { s.closed = true }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "inbox"})

	deck := &stubScreen{title: "deck"}
	r.Push(deck)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "deck" {
		t.Errorf("expected active 'deck', got %q", r.Active().Title())
	}
	if !deck.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPopClosesScreen(t *testing.T) {
	r := New(&stubScreen{title: "inbox"})
	deck := &stubScreen{title: "deck"}
	r.Push(deck)
	r.Pop()

	if r.Depth() != 1 || r.Active().Title() != "inbox" {
		t.Fatalf("unexpected stack: depth %d, active %q", r.Depth(), r.Active().Title())
	}
	if !deck.closed {
		t.Error("popped screen was not closed")
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	root := &stubScreen{title: "inbox"}
	r := New(root)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if root.closed {
		t.Error("root screen must not be closed by Pop")
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "inbox"})
	first := &stubScreen{title: "deck"}
	r.Push(first)

	second := &stubScreen{title: "quiz"}
	r.Update(ReplaceScreenMsg{Screen: second})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active() != second || !second.initRan {
		t.Error("replacement not active or not initialised")
	}
	if !first.closed {
		t.Error("replaced screen was not closed")
	}
}

func TestReplaceKeepsRoot(t *testing.T) {
	root := &stubScreen{title: "inbox"}
	r := New(root)
	r.Replace(&stubScreen{title: "deck"})

	if r.Depth() != 2 || root.closed {
		t.Errorf("root should survive Replace: depth %d, closed %v", r.Depth(), root.closed)
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	root := &stubScreen{title: "inbox"}
	top := &stubScreen{title: "deck"}
	r := New(root)
	r.Update(PushScreenMsg{Screen: top})

	type ping struct{}
	r.Update(ping{})

	if len(top.seen) != 1 || len(root.seen) != 0 {
		t.Errorf("message routed wrong: top %d, root %d", len(top.seen), len(root.seen))
	}
}

func TestCloseAll(t *testing.T) {
	root := &stubScreen{title: "inbox"}
	top := &stubScreen{title: "deck"}
	r := New(root)
	r.Push(top)
	r.CloseAll()

	if !root.closed || !top.closed {
		t.Error("CloseAll must close every screen")
	}
}
