package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nudge/internal/ui/theme"
)

// Button is a labelled button; the focused one is highlighted.
type Button struct {
	Label  string
	Active bool
}

func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render(b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

// Confirm is a yes/no prompt. y and n answer directly; left/right and enter
// work on the focused button.
type Confirm struct {
	Question string
	Yes      bool
}

// NewConfirm focuses "No" so a stray enter does not confirm.
func NewConfirm(question string) Confirm {
	return Confirm{Question: question}
}

// Key handles one key. done is true once the user answered.
func (c Confirm) Key(key string) (next Confirm, done, yes bool) {
	switch key {
	case "y", "Y":
		return c, true, true
	case "n", "N", "esc":
		return c, true, false
	case "left", "right", "h", "l", "tab":
		c.Yes = !c.Yes
	case "enter":
		return c, true, c.Yes
	}
	return c, false, false
}

func (c Confirm) View() string {
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		Button{Label: "Yes", Active: c.Yes}.View(),
		"  ",
		Button{Label: "No", Active: !c.Yes}.View(),
	)
	return theme.Warning.Render(c.Question) + "\n\n" + buttons
}
