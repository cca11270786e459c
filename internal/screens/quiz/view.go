package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/nudge/internal/ui/components"
	"github.com/abhisek/nudge/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	var body string
	if s.quiz.IsComplete() {
		body = s.resultsView(width)
	} else {
		body = s.questionView(width)
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (s *Screen) questionView(width int) string {
	inner := min(width-8, 64)

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", s.shown+1, s.quiz.Len())) + "\n\n")
	b.WriteString(theme.Card.Width(inner).Render(s.choices.View()) + "\n")

	if a := s.quiz.AnswerAt(s.shown); a.Answered {
		if a.Correct {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite."))
		}
		b.WriteString("   ")
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Score %d", s.quiz.Score())))
	return b.String()
}

func (s *Screen) resultsView(width int) string {
	score, total, acc := s.quiz.Score(), s.quiz.Len(), s.quiz.Accuracy()

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete") + "\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("You scored %d out of %d", score, total)) + "\n\n")
	b.WriteString(components.NewProgressBar("Accuracy", float64(acc), true, min(width-8, 50)).View())
	return b.String()
}
