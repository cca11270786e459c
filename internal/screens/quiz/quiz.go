// Package quiz is the multiple-choice quiz screen.
package quiz

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nudge/internal/screen"
	"github.com/abhisek/nudge/internal/ui/components"
	"github.com/abhisek/nudge/internal/ui/layout"
	"github.com/abhisek/nudge/internal/widget"
)

// Screen shows the current question and, once past the last one, the score.
type Screen struct {
	quiz    *widget.Quiz
	choices components.Choices
	shown   int // question index choices was built for
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.Closer          = (*Screen)(nil)
)

func New(q *widget.Quiz) *Screen {
	s := &Screen{quiz: q}
	s.sync()
	return s
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return s.quiz.Document().Title }

func (s *Screen) Close() { s.quiz.Close() }

// sync rebuilds the option list for the current question, locked when the
// question was already answered.
func (s *Screen) sync() {
	s.shown = s.quiz.Index()
	q, ok := s.quiz.Current()
	if !ok {
		return
	}
	s.choices = components.NewChoices(q.Text, q.Options)
	if a := s.quiz.AnswerAt(s.shown); a.Answered {
		s.choices = s.choices.Lock(q.IndexOf(a.Selected), q.CorrectOptionIndex)
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.quiz.IsComplete() {
		switch key {
		case "r":
			s.quiz.Restart()
			s.sync()
		case "left", "p":
			if s.quiz.Previous() {
				s.sync()
			}
		}
		return s, nil
	}

	switch key {
	case "right", "n":
		if s.quiz.Next() {
			s.sync()
		}
		return s, nil
	case "left", "p":
		if s.quiz.Previous() {
			s.sync()
		}
		return s, nil
	}

	var picked int
	s.choices, picked = s.choices.Update(msg)
	if picked >= 0 {
		if res := s.quiz.AnswerIndex(picked); res.Recorded {
			s.sync()
		}
	}
	return s, nil
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.quiz.IsComplete() {
		return []layout.KeyHint{
			{Key: "r", Description: "Try again"},
			{Key: "←", Description: "Review"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{{Key: "1-4", Description: "Answer"}}
	if s.quiz.CanPrevious() {
		hints = append(hints, layout.KeyHint{Key: "←", Description: "Previous"})
	}
	if s.quiz.CanNext() {
		hints = append(hints, layout.KeyHint{Key: "→", Description: "Next"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}
