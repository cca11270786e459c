package deck

import (
	"fmt"
	"testing"
	"time"

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

func newTestScreen(t *testing.T, n int) (*Screen, *widget.Deck) {
	t.Helper()
	doc := &card.Document{ID: "deck", Kind: card.KindFlashcards, Title: "Breathing"}
	for i := range n {
		doc.Cards = append(doc.Cards, card.Flashcard{
			ID:    fmt.Sprintf("c%d", i),
			Front: card.Face{Title: fmt.Sprintf("front %d", i)},
			Back:  card.Face{Title: fmt.Sprintf("back %d", i)},
		})
	}
	d := widget.NewDeck(doc, widget.Options{})
	return New(d, time.Millisecond), d
}

func TestDeckScreen_FlipAndAdvance(t *testing.T) {
	s, d := newTestScreen(t, 3)

	s.Update(keyPress(' '))
	assert.True(t, s.flipped)
	assert.Contains(t, s.View(80, 30), "back 0")

	s.Update(specialKey(tea.KeyRight))
	assert.False(t, s.flipped, "advancing shows the next card face up")
	s.Update(keyPress('h'))
	s.Update(keyPress('l'))

	require.True(t, d.IsComplete())
	r := d.Results()
	assert.Equal(t, 2, r.Known)
	assert.Equal(t, 67, r.Accuracy)
	assert.Contains(t, s.View(80, 30), r.Headline)
}

func TestDeckScreen_RecallAndReview(t *testing.T) {
	s, d := newTestScreen(t, 2)

	s.Update(keyPress('l'))
	s.Update(keyPress('u'))
	assert.Equal(t, 0, d.Cursor())

	s.Update(keyPress('l'))
	s.Update(keyPress('h'))
	require.True(t, d.IsComplete())
	assert.Contains(t, hintKeys(s), "v")

	s.Update(keyPress('v'))
	assert.False(t, d.IsComplete())
	assert.Equal(t, 1, d.PassSize())

	s.Update(keyPress('l'))
	s.Update(keyPress('r'))
	assert.Equal(t, 2, d.PassSize())
	assert.Equal(t, 0, d.Cursor())
}

func TestDeckScreen_ResultsOfferRecall(t *testing.T) {
	s, d := newTestScreen(t, 1)

	s.Update(keyPress('l'))
	require.True(t, d.IsComplete())
	assert.Contains(t, hintKeys(s), "u")

	s.Update(keyPress('u'))
	assert.False(t, d.IsComplete())
	assert.NotContains(t, hintKeys(s), "r", "active deck shows play hints")
}

func TestDeckScreen_AutoAdvance(t *testing.T) {
	s, d := newTestScreen(t, 2)

	cmd := s.handleCardKey("a")
	require.NotNil(t, cmd)
	require.True(t, d.AutoAdvancing())

	s.Update(autoTickMsg{token: s.token, flip: true})
	assert.True(t, s.flipped)
	s.Update(autoTickMsg{token: s.token})
	assert.Equal(t, 1, d.Cursor())
	assert.Equal(t, 0, d.Progress().Done, "auto-advance records still learning")

	// A manual answer stops the run; its pending tick is ignored.
	tok := s.token
	s.Update(keyPress('l'))
	_, cmd = s.Update(autoTickMsg{token: tok})
	assert.Nil(t, cmd)
	assert.True(t, d.IsComplete())
}

func TestDeckScreen_CloseStopsWidget(t *testing.T) {
	s, d := newTestScreen(t, 2)
	s.Close()
	s.Update(keyPress('l'))
	assert.Equal(t, 0, d.Cursor())
}

func hintKeys(s *Screen) []string {
	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	return keys
}
