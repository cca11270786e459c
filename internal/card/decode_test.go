package card

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizJSON = `{
	"id": "quiz_sleep",
	"type": "quiz",
	"title": "Sleep basics",
	"questions": [
		{"question": "Ideal adult sleep?", "options": ["4h", "*7-9h", "12h", "2h"]},
		{"id": "caffeine", "question": "Caffeine half-life?", "options": ["*5h", "30m"]}
	]
}`

func TestDecode_QuizStripsMarker(t *testing.T) {
	doc, err := Decode([]byte(quizJSON))
	require.NoError(t, err)

	assert.Equal(t, KindQuiz, doc.Kind)
	require.Len(t, doc.Questions, 2)

	q1 := doc.Questions[0]
	assert.Equal(t, "q1", q1.ID)
	assert.Equal(t, []string{"4h", "7-9h", "12h", "2h"}, q1.Options)
	assert.Equal(t, 1, q1.CorrectOptionIndex)
	assert.Equal(t, "7-9h", q1.CorrectAnswer())

	q2 := doc.Questions[1]
	assert.Equal(t, "caffeine", q2.ID)
	assert.Equal(t, "5h", q2.CorrectAnswer())

	for _, q := range doc.Questions {
		for _, o := range q.Options {
			assert.NotContains(t, o, CorrectMarker)
		}
	}
}

func TestDecode_Flashcards(t *testing.T) {
	raw := `{"id":"deck","type":"flashcards","title":"Hydration","cards":[
		{"front":{"title":"Drink water"},"back":{"title":"Why?"}},
		{"id":"b","front":{"title":"Eat fruit"},"back":{"title":"Fiber"}}
	]}`
	doc, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"card_0", "b"}, doc.ItemIDs())
	assert.Equal(t, 2, doc.Len())
}

func TestDecode_ChecklistUsesTaskNameAsID(t *testing.T) {
	raw := `{"id":"cl","type":"checklist","title":"Morning","items":[
		{"text":" Stretch "},
		{"id":"walk","text":"Walk","completed":true}
	]}`
	doc, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"Stretch", "walk"}, doc.ItemIDs())
	assert.True(t, doc.Tasks[1].Completed)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"id":`},
		{"unknown type", `{"id":"x","type":"poll","title":"t"}`},
		{"no items", `{"id":"x","type":"flashcards","title":"t","cards":[]}`},
		{"no marker", `{"id":"x","type":"quiz","questions":[{"question":"q","options":["a","b"]}]}`},
		{"two markers", `{"id":"x","type":"quiz","questions":[{"question":"q","options":["*a","*b"]}]}`},
		{"too many options", `{"id":"x","type":"quiz","questions":[{"question":"q","options":["*a","b","c","d","e"]}]}`},
		{"duplicate ids", `{"id":"x","type":"checklist","items":[{"text":"a"},{"text":"a"}]}`},
		{"missing text", `{"id":"x","type":"checklist","items":[{"id":"a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestEncode_RoundTripsMarker(t *testing.T) {
	doc, err := Decode([]byte(quizJSON))
	require.NoError(t, err)

	raw, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"*7-9h"`)

	again, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestNormalizeOptions(t *testing.T) {
	clean, idx, err := NormalizeOptions([]string{"a", "*b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, clean)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"a", "*b", "c"}, MarkOptions(clean, idx))
}
