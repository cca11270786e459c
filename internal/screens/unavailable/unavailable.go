package unavailable

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nudge/internal/screen"
	"github.com/abhisek/nudge/internal/ui/theme"
)

// Message is shown whenever a selection cannot produce a widget.
const Message = "Could not load card data"

// Screen stands in for a widget that failed to load.
type Screen struct {
	title  string
	detail string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the placeholder. detail is an optional second line.
func New(title, detail string) *Screen {
	return &Screen{title: title, detail: detail}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func (s *Screen) View(width, height int) string {
	body := theme.Incorrect.Render(Message)
	if s.detail != "" {
		body += "\n\n" + theme.Hint.Render(s.detail)
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (s *Screen) Title() string {
	if s.title == "" {
		return "Unavailable"
	}
	return s.title
}
