// Package app is the bubbletea host for the inbox and widget screens.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nudge/internal/router"
	"github.com/abhisek/nudge/internal/screen"
	"github.com/abhisek/nudge/internal/screens/inbox"
	"github.com/abhisek/nudge/internal/ui/layout"
)

// Deps is what the host needs from the rest of the program.
type Deps struct {
	Dispatcher inbox.Dispatcher

	// Status renders the right side of the header, e.g. user and sync
	// counters. Optional.
	Status func() string
}

// AppModel is the root bubbletea model.
type AppModel struct {
	router *router.Router
	status func() string
	width  int
	height int
}

func newAppModel(ctx context.Context, deps Deps) AppModel {
	status := deps.Status
	if status == nil {
		status = func() string { return "" }
	}
	return AppModel{
		router: router.New(inbox.New(ctx, deps.Dispatcher)),
		status: status,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.CloseAll()
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.Capturer); ok && c.Capturing() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders header, active screen and footer for the current size.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.status(), m.width)

	hints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	w, h := layout.ContentSize(header, footer, m.width, m.height)
	return layout.RenderFrame(header, m.router.View(w, h), footer, m.width, m.height)
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, deps Deps) error {
	if deps.Dispatcher == nil {
		return fmt.Errorf("app: dispatcher is required")
	}
	p := tea.NewProgram(newAppModel(ctx, deps), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
