package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nudge/internal/ui/layout"
)

// Screen is one page of the terminal host.
type Screen interface {
	Init() tea.Cmd

	// Update handles a message and returns the screen to keep on the stack.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that own a widget. The router calls
// Close when the screen leaves the stack so late async results are dropped.
type Closer interface {
	Close()
}

// Capturer is implemented by screens that sometimes read free text or a
// confirmation. While Capturing is true the host leaves esc to the screen.
type Capturer interface {
	Capturing() bool
}
