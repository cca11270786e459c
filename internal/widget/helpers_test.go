package widget

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/gateway"
	"github.com/abhisek/nudge/internal/ledger"
	"github.com/abhisek/nudge/internal/session"
)

type recordingPusher struct {
	mu  sync.Mutex
	got []gateway.Payload
}

func (r *recordingPusher) Push(p gateway.Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, p)
}

func (r *recordingPusher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func (r *recordingPusher) last(t *testing.T) gateway.Payload {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.got, "no payload pushed")
	return r.got[len(r.got)-1]
}

func (r *recordingPusher) lastSequence(t *testing.T) ledger.SequenceState {
	t.Helper()
	var s ledger.SequenceState
	require.NoError(t, json.Unmarshal(r.last(t).State, &s))
	return s
}

var testSession = session.Session{UserID: "user-1", AppID: "wellness"}

func testOptions(p *recordingPusher) Options {
	return Options{Session: testSession, Pusher: p}
}

func deckDoc(n int) *card.Document {
	doc := &card.Document{ID: "deck_hydration", Kind: card.KindFlashcards, Title: "Hydration"}
	for i := 0; i < n; i++ {
		doc.Cards = append(doc.Cards, card.Flashcard{
			ID:    fmt.Sprintf("fc_%d", i),
			Front: card.Face{Title: fmt.Sprintf("Tip %d", i)},
			Back:  card.Face{Title: "Reflection"},
		})
	}
	return doc
}

func checklistDoc(n int) *card.Document {
	doc := &card.Document{ID: "cl_morning", Kind: card.KindChecklist, Title: "Morning"}
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("task %d", i)
		doc.Tasks = append(doc.Tasks, card.ChecklistItem{ID: name, Description: name})
	}
	return doc
}

func quizDoc() *card.Document {
	return &card.Document{
		ID:    "quiz_sleep",
		Kind:  card.KindQuiz,
		Title: "Sleep",
		Questions: []card.Question{
			{ID: "q1", Text: "Hours?", Options: []string{"4", "8", "12", "2"}, CorrectOptionIndex: 1},
			{ID: "q2", Text: "Screens before bed?", Options: []string{"Yes", "No"}, CorrectOptionIndex: 1},
			{ID: "q3", Text: "Room temperature?", Options: []string{"Cool", "Hot", "Warm"}, CorrectOptionIndex: 0},
		},
	}
}
