package checklist

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/nudge/internal/ui/components"
	"github.com/abhisek/nudge/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	inner := min(width-4, 72)
	doc := s.list.Document()

	var b strings.Builder
	if doc.Subtitle != "" {
		b.WriteString(theme.Subtitle.Render(doc.Subtitle) + "\n\n")
	}

	p := s.list.Progress()
	b.WriteString(components.NewProgressBar(
		fmt.Sprintf("%d/%d", p.Done, p.Total), p.Percent, true, inner).View() + "\n\n")

	for i, it := range s.list.Items() {
		box := "[ ]"
		text := theme.Unselected.Render(it.Description)
		if s.list.IsChecked(it.ID) {
			box = "[x]"
			text = theme.Done.Render(it.Description)
		}
		prefix := "  "
		if i == s.cursor && s.mode == modeList {
			prefix = theme.Selected.Render("▸ ")
		}
		line := prefix + box + " " + text
		if it.EstimatedTime != "" {
			line += "  " + theme.Hint.Render(it.EstimatedTime)
		}
		b.WriteString(line + "\n")
		if i == s.cursor && it.Rationale != "" {
			b.WriteString("      " + theme.Hint.Render(it.Rationale) + "\n")
		}
	}

	switch s.mode {
	case modeConfirmReset:
		b.WriteString("\n" + s.confirm.View() + "\n")
	case modePrompt:
		b.WriteString("\n" + s.prompt.View() + "\n")
	}

	if s.status != "" {
		style := theme.Correct
		if s.failed {
			style = theme.Incorrect
		}
		b.WriteString("\n" + style.Render(s.status))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(b.String())
}
