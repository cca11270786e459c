package deck

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/ui/components"
	"github.com/abhisek/nudge/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	var body string
	if s.deck.IsComplete() {
		body = s.resultsView(width)
	} else {
		body = s.cardView(width)
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (s *Screen) cardView(width int) string {
	c, ok := s.deck.Current()
	if !ok {
		return ""
	}
	cardWidth := min(width-8, 60)

	var b strings.Builder
	counter := fmt.Sprintf("Card %d of %d", s.deck.Cursor()+1, s.deck.PassSize())
	if s.deck.Pass() > 0 {
		counter += "  (review)"
	}
	b.WriteString(theme.Subtitle.Render(counter) + "\n\n")
	b.WriteString(faceView(c, s.flipped, cardWidth) + "\n\n")

	p := s.deck.Progress()
	b.WriteString(components.NewProgressBar("", p.Percent, false, cardWidth).View() + "\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d known · %d learning", p.Done, p.NotDone)))

	if s.banner != "" {
		b.WriteString("\n\n" + theme.Warning.Bold(true).Render(s.banner))
	}
	if s.deck.AutoAdvancing() {
		b.WriteString("\n" + theme.Hint.Render("auto-advancing"))
	}
	return b.String()
}

func faceView(c card.Flashcard, flipped bool, width int) string {
	face := c.Front
	side := "front"
	if flipped {
		face = c.Back
		side = "back"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(face.Title))
	if face.Description != "" {
		b.WriteString("\n\n" + theme.Body.Render(face.Description))
	}
	if face.Hint != "" {
		b.WriteString("\n\n" + theme.Hint.Render(face.Hint))
	}

	var meta []string
	for _, m := range []string{c.Category, c.Step, c.Duration} {
		if m != "" {
			meta = append(meta, m)
		}
	}
	meta = append(meta, side)
	b.WriteString("\n\n" + theme.Hint.Render(strings.Join(meta, " · ")))

	style := theme.Card.Width(width)
	if len(c.Style.Gradient) > 0 {
		style = style.BorderForeground(lipgloss.Color(c.Style.Gradient[0]))
	}
	return style.Render(b.String())
}

func (s *Screen) resultsView(width int) string {
	r := s.deck.Results()

	var b strings.Builder
	b.WriteString(theme.Title.Render(r.Headline) + "\n\n")
	b.WriteString(theme.Subtitle.Render(r.Message) + "\n\n")
	b.WriteString(components.NewProgressBar("Accuracy", float64(r.Accuracy), true, min(width-8, 50)).View() + "\n\n")
	b.WriteString(theme.Correct.Render(fmt.Sprintf("%d known", r.Known)) + "   " +
		theme.Incorrect.Render(fmt.Sprintf("%d still learning", r.Learning)) + "   " +
		theme.Hint.Render(fmt.Sprintf("of %d", r.Total)))
	return b.String()
}
