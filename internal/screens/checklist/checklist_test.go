package checklist

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/widget"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

type fakeGenerator struct {
	item card.ChecklistItem
	err  error
	got  widget.ItemRequest
}

func (f *fakeGenerator) GenerateItem(_ context.Context, req widget.ItemRequest) (card.ChecklistItem, error) {
	f.got = req
	return f.item, f.err
}

func newTestScreen(t *testing.T, n int, gen widget.ItemGenerator) (*Screen, *widget.Checklist) {
	t.Helper()
	doc := &card.Document{ID: "evening", Kind: card.KindChecklist, Title: "Evening"}
	for i := range n {
		doc.Tasks = append(doc.Tasks, card.ChecklistItem{
			ID:          fmt.Sprintf("t%d", i),
			Description: fmt.Sprintf("task %d", i),
		})
	}
	c := widget.NewChecklist(doc, widget.Options{Generator: gen})
	return New(t.Context(), c), c
}

// run executes cmd and feeds its message back, like the runtime would.
func run(s *Screen, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	s.Update(cmd())
}

func TestChecklistScreen_Toggle(t *testing.T) {
	s, c := newTestScreen(t, 5, nil)

	s.Update(keyPress(' '))
	s.Update(specialKey(tea.KeyDown))
	s.Update(keyPress(' '))
	s.Update(keyPress('j'))
	s.Update(keyPress(' '))
	assert.Equal(t, 60.0, c.Progress().Percent)

	s.Update(keyPress('k'))
	s.Update(keyPress(' '))
	assert.Equal(t, 40.0, c.Progress().Percent)
	assert.False(t, c.IsChecked("t1"))
}

func TestChecklistScreen_ResetNeedsConfirm(t *testing.T) {
	s, c := newTestScreen(t, 2, nil)
	s.Update(keyPress(' '))

	s.Update(keyPress('R'))
	assert.True(t, s.Capturing())
	s.Update(keyPress('n'))
	assert.True(t, c.IsChecked("t0"), "declined reset keeps items")

	s.Update(keyPress('R'))
	s.Update(keyPress('y'))
	assert.False(t, c.IsChecked("t0"))
	assert.False(t, s.Capturing())
}

func TestChecklistScreen_Generate(t *testing.T) {
	gen := &fakeGenerator{item: card.ChecklistItem{ID: "gen-1", Description: "Stretch for five minutes"}}
	s, c := newTestScreen(t, 1, gen)

	s.Update(keyPress('g'))
	for _, r := range "relax" {
		s.Update(keyPress(r))
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, modeGenerating, s.mode)

	run(s, cmd)
	assert.Equal(t, "relax", gen.got.Prompt)
	assert.Equal(t, []string{"task 0"}, gen.got.Existing)
	require.Len(t, c.Items(), 2)
	assert.Equal(t, 1, s.cursor)
	assert.Contains(t, s.View(80, 30), "Stretch for five minutes")
}

func TestChecklistScreen_GenerateFailure(t *testing.T) {
	s, c := newTestScreen(t, 1, &fakeGenerator{err: errors.New("boom")})

	s.Update(keyPress('g'))
	s.Update(keyPress('x'))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(s, cmd)

	assert.Len(t, c.Items(), 1)
	assert.True(t, s.failed)
	assert.Equal(t, modeList, s.mode)
}

func TestChecklistScreen_NoGenerator(t *testing.T) {
	s, _ := newTestScreen(t, 1, nil)
	s.Update(keyPress('g'))
	s.Update(keyPress('x'))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(s, cmd)
	assert.Equal(t, "Item generation is not configured", s.status)
}
