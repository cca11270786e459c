// Package deck is the flashcard screen.
package deck

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nudge/internal/ledger"
	"github.com/abhisek/nudge/internal/screen"
	"github.com/abhisek/nudge/internal/ui/layout"
	"github.com/abhisek/nudge/internal/widget"
)

// autoTickMsg drives one auto-advance step. The first tick for a card flips
// it; the second marks it still learning.
type autoTickMsg struct {
	token widget.AutoToken
	flip  bool
}

// Screen shows one card at a time, then the results.
type Screen struct {
	deck     *widget.Deck
	interval time.Duration

	flipped bool
	banner  string
	token   widget.AutoToken
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.Closer          = (*Screen)(nil)
)

// New creates the screen. interval <= 0 uses the widget default.
func New(d *widget.Deck, interval time.Duration) *Screen {
	if interval <= 0 {
		interval = widget.DefaultAutoAdvanceInterval
	}
	return &Screen{deck: d, interval: interval}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return s.deck.Document().Title }

// Close stops auto-advance and closes the widget.
func (s *Screen) Close() {
	s.deck.StopAutoAdvance()
	s.deck.Close()
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case autoTickMsg:
		return s, s.handleAuto(msg)
	case tea.KeyMsg:
		if s.deck.IsComplete() {
			return s, s.handleResultsKey(msg.String())
		}
		return s, s.handleCardKey(msg.String())
	}
	return s, nil
}

func (s *Screen) handleCardKey(key string) tea.Cmd {
	switch key {
	case "space", " ", "enter":
		s.flipped = !s.flipped
	case "right", "l":
		s.advance(ledger.Accepted)
	case "left", "h":
		s.advance(ledger.Rejected)
	case "u":
		if _, ok := s.deck.Recall(); ok {
			s.flipped = false
			s.banner = widget.StreakMessage(s.deck.Streak())
		}
	case "a":
		if s.deck.AutoAdvancing() {
			s.deck.StopAutoAdvance()
			return nil
		}
		return s.startAuto()
	}
	return nil
}

func (s *Screen) handleResultsKey(key string) tea.Cmd {
	switch key {
	case "r":
		s.deck.Restart()
		s.reset()
	case "v":
		if s.deck.ReviewIncorrect() {
			s.reset()
		}
	case "u":
		if _, ok := s.deck.Recall(); ok {
			s.flipped = false
		}
	}
	return nil
}

func (s *Screen) advance(o ledger.Outcome) {
	res := s.deck.Advance(o)
	if !res.Recorded {
		return
	}
	s.flipped = false
	s.setBanner(res)
}

func (s *Screen) setBanner(res widget.AdvanceResult) {
	if res.Celebrate {
		s.banner = res.Celebration
		return
	}
	s.banner = widget.StreakMessage(res.Streak)
}

func (s *Screen) reset() {
	s.flipped = false
	s.banner = ""
}

func (s *Screen) startAuto() tea.Cmd {
	tok, ok := s.deck.StartAutoAdvance()
	if !ok {
		return nil
	}
	s.token = tok
	s.flipped = false
	return s.tick(autoTickMsg{token: tok, flip: true})
}

func (s *Screen) tick(next autoTickMsg) tea.Cmd {
	return tea.Tick(s.interval/2, func(time.Time) tea.Msg { return next })
}

func (s *Screen) handleAuto(msg autoTickMsg) tea.Cmd {
	if msg.token != s.token || !s.deck.AutoAdvancing() {
		return nil
	}
	if msg.flip {
		s.flipped = true
		return s.tick(autoTickMsg{token: msg.token})
	}
	res, more := s.deck.AutoStep(msg.token)
	if res.Recorded {
		s.flipped = false
		s.setBanner(res)
	}
	if !more {
		return nil
	}
	return s.tick(autoTickMsg{token: msg.token, flip: true})
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.deck.IsComplete() {
		hints := []layout.KeyHint{{Key: "r", Description: "Restart"}}
		if s.deck.Results().Learning > 0 {
			hints = append(hints, layout.KeyHint{Key: "v", Description: "Review"})
		}
		if s.deck.CanRecall() {
			hints = append(hints, layout.KeyHint{Key: "u", Description: "Recall"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	auto := "Auto"
	if s.deck.AutoAdvancing() {
		auto = "Stop"
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "→", Description: "Know"},
		{Key: "←", Description: "Learning"},
		{Key: "u", Description: "Recall"},
		{Key: "a", Description: auto},
		{Key: "Esc", Description: "Back"},
	}
}
