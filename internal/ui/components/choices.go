package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nudge/internal/ui/theme"
)

// Choices renders the options of one quiz question. Options are picked by
// number or by moving the cursor and pressing enter; once Answered is set
// the correct option and the chosen one are coloured and input is ignored.
type Choices struct {
	Question string
	Options  []string
	Cursor   int

	Answered bool
	Chosen   int
	Correct  int
}

// NewChoices creates an unanswered option list.
func NewChoices(question string, options []string) Choices {
	return Choices{Question: question, Options: options, Chosen: -1, Correct: -1}
}

// Lock shows the question as answered with chosen against correct.
func (c Choices) Lock(chosen, correct int) Choices {
	c.Answered = true
	c.Chosen = chosen
	c.Correct = correct
	return c
}

// Update moves the cursor. It returns the picked option index, or -1.
func (c Choices) Update(msg tea.Msg) (Choices, int) {
	if c.Answered {
		return c, -1
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "enter":
		return c, c.Cursor
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(c.Options) {
				c.Cursor = i
				return c, i
			}
		}
	}
	return c, -1
}

func (c Choices) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Question))
	b.WriteString("\n\n")

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.Answered {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case c.Answered && i == c.Correct:
			line = theme.Correct.Render(line + "  ✓")
		case c.Answered && i == c.Chosen:
			line = theme.Incorrect.Render(line + "  ✗")
		case c.Answered:
			line = dim.Render(line)
		case i == c.Cursor:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
