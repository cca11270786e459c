package inbox

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/nudge/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	var b strings.Builder
	switch {
	case s.loading:
		b.WriteString(theme.Hint.Render("Loading…"))
	case s.err != nil:
		b.WriteString(theme.Incorrect.Render("Could not reach the server.") + "\n\n")
		b.WriteString(theme.Hint.Render("Press r to try again."))
	case len(s.entries) == 0:
		b.WriteString(theme.Hint.Render("Nothing to do right now."))
	default:
		b.WriteString(s.menu.View())
	}
	if s.opening != "" {
		b.WriteString("\n" + theme.Hint.Render("Opening "+s.opening+"…"))
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(b.String())
}
