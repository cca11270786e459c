package quiz

import (
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

func newTestScreen(t *testing.T) (*Screen, *widget.Quiz) {
	t.Helper()
	opts := []string{"a", "b", "c", "d"}
	doc := &card.Document{
		ID: "quiz", Kind: card.KindQuiz, Title: "Sleep",
		Questions: []card.Question{
			{ID: "q1", Text: "One?", Options: opts, CorrectOptionIndex: 0},
			{ID: "q2", Text: "Two?", Options: opts, CorrectOptionIndex: 1},
			{ID: "q3", Text: "Three?", Options: opts, CorrectOptionIndex: 2},
		},
	}
	q := widget.NewQuiz(doc, widget.Options{})
	return New(q), q
}

func TestQuizScreen_ScoreSurvivesNavigation(t *testing.T) {
	s, q := newTestScreen(t)

	s.Update(keyPress('1')) // correct
	s.Update(keyPress('n'))
	s.Update(keyPress('1')) // wrong
	s.Update(specialKey(tea.KeyRight))
	s.Update(keyPress('3')) // correct
	assert.Equal(t, 2, q.Score())

	s.Update(keyPress('p'))
	s.Update(specialKey(tea.KeyLeft))
	assert.Equal(t, 0, q.Index())
	assert.True(t, s.choices.Answered, "revisited questions stay locked")

	s.Update(keyPress('2')) // ignored
	s.Update(keyPress('n'))
	s.Update(keyPress('n'))
	assert.Equal(t, 2, q.Score())
	assert.Equal(t, 2, s.shown)
}

func TestQuizScreen_NextNeedsAnswer(t *testing.T) {
	s, q := newTestScreen(t)
	s.Update(keyPress('n'))
	assert.Equal(t, 0, q.Index())
	assert.Equal(t, []string{"1-4", "Esc"}, hintKeys(s))
}

func TestQuizScreen_ResultsAndRetry(t *testing.T) {
	s, q := newTestScreen(t)
	for _, k := range []rune{'1', 'n', '2', 'n', '4', 'n'} {
		s.Update(keyPress(k))
	}
	require.True(t, q.IsComplete())
	assert.Contains(t, s.View(80, 30), "You scored 2 out of 3")
	assert.Equal(t, 67, q.Accuracy())

	s.Update(keyPress('r'))
	assert.False(t, q.IsComplete())
	assert.Equal(t, 0, q.Score())
	assert.False(t, s.choices.Answered)
}

func TestQuizScreen_EnterAnswersCursor(t *testing.T) {
	s, q := newTestScreen(t)
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, "b", q.AnswerAt(0).Selected)
}

func hintKeys(s *Screen) []string {
	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	return keys
}
