package widget

import (
	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/ledger"
)

// QuizPhase is the state of a quiz.
type QuizPhase int

const (
	QuizActive   QuizPhase = iota // Showing a question
	QuizComplete                  // Moved past the last question
)

// Answer is the locked-in answer to one question.
type Answer struct {
	Answered bool
	Selected string
	Correct  bool
}

// AnswerResult reports what an Answer call did.
type AnswerResult struct {
	Recorded bool
	Correct  bool
	Score    int
}

// Quiz is a sequence of multiple-choice questions. Each question can be
// answered once; navigation moves freely back and forward over answered
// questions.
type Quiz struct {
	base

	questions []card.Question
	ledger    *ledger.Ledger
	index     int
	score     int
}

// NewQuiz creates a quiz over doc.Questions.
func NewQuiz(doc *card.Document, opts Options) *Quiz {
	q := &Quiz{}
	q.init(doc, opts)
	q.restartLocked()
	return q
}

// restartLocked rebuilds the question bank from the document. Markers were
// stripped when the document was decoded, so the bank is already clean.
func (q *Quiz) restartLocked() {
	q.questions = append([]card.Question(nil), q.doc.Questions...)
	q.ledger = ledger.New(ledger.Sequential, q.doc.ItemIDs())
	q.ledger.SetClock(q.opts.Clock)
	q.index = 0
	q.score = 0
}

// Phase returns the current quiz state.
func (q *Quiz) Phase() QuizPhase {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.index >= len(q.questions) {
		return QuizComplete
	}
	return QuizActive
}

// Index is the current question position. It equals Len when complete.
func (q *Quiz) Index() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.index
}

// Len is the number of questions.
func (q *Quiz) Len() int {
	return len(q.doc.Questions)
}

// Current returns the question at the current position.
func (q *Quiz) Current() (card.Question, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.index >= len(q.questions) {
		return card.Question{}, false
	}
	return q.questions[q.index], true
}

// Score is the number of questions answered correctly.
func (q *Quiz) Score() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.score
}

// Accuracy is Score as a whole percent of all questions.
func (q *Quiz) Accuracy() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return ledger.Percentage(q.score, len(q.questions))
}

// AnswerAt returns the answer recorded for question i.
func (q *Quiz) AnswerAt(i int) Answer {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.answerLocked(i)
}

func (q *Quiz) answerLocked(i int) Answer {
	if i < 0 || i >= len(q.questions) {
		return Answer{}
	}
	e, ok := q.ledger.Lookup(q.questions[i].ID)
	if !ok {
		return Answer{}
	}
	return Answer{Answered: true, Selected: e.Selected, Correct: e.Outcome == ledger.Accepted}
}

// Answer locks in selected for the current question. Repeated answers and
// options not on the question are ignored.
func (q *Quiz) Answer(selected string) AnswerResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.index >= len(q.questions) {
		return AnswerResult{Score: q.score}
	}
	cur := q.questions[q.index]
	if cur.IndexOf(selected) < 0 {
		return AnswerResult{Score: q.score}
	}

	correct := selected == cur.CorrectAnswer()
	if !q.ledger.RecordAnswer(cur.ID, selected, correct) {
		return AnswerResult{Score: q.score}
	}
	if correct {
		q.score++
	}
	q.push(q.stateLocked())
	return AnswerResult{Recorded: true, Correct: correct, Score: q.score}
}

// AnswerIndex answers with the option at position i.
func (q *Quiz) AnswerIndex(i int) AnswerResult {
	q.mu.Lock()
	var selected string
	if q.index < len(q.questions) {
		opts := q.questions[q.index].Options
		if i >= 0 && i < len(opts) {
			selected = opts[i]
		}
	}
	q.mu.Unlock()

	if selected == "" {
		return AnswerResult{Score: q.Score()}
	}
	return q.Answer(selected)
}

// CanNext reports whether Next would move.
func (q *Quiz) CanNext() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.closed && q.index < len(q.questions) && q.answerLocked(q.index).Answered
}

// Next moves forward once the current question is answered. Moving past
// the last question completes the quiz.
func (q *Quiz) Next() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.index >= len(q.questions) || !q.answerLocked(q.index).Answered {
		return false
	}
	q.index++
	q.push(q.stateLocked())
	return true
}

// CanPrevious reports whether Previous would move.
func (q *Quiz) CanPrevious() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.closed && q.index > 0
}

// Previous moves back one question. Answers stay locked.
func (q *Quiz) Previous() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.index == 0 {
		return false
	}
	q.index--
	q.push(q.stateLocked())
	return true
}

// Restart clears every answer and returns to the first question.
func (q *Quiz) Restart() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.restartLocked()
	q.push(q.stateLocked())
}

// Reset is Restart.
func (q *Quiz) Reset() { q.Restart() }

// Progress counts answered questions, correct ones as Done.
func (q *Quiz) Progress() Progress {
	q.mu.Lock()
	defer q.mu.Unlock()
	return progressOf(q.ledger)
}

// IsComplete reports whether the quiz has moved past its last question.
func (q *Quiz) IsComplete() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.index >= len(q.questions)
}

// State returns the persisted snapshot.
func (q *Quiz) State() ledger.State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stateLocked()
}

func (q *Quiz) stateLocked() ledger.State {
	s := q.ledger.SequenceSnapshot(q.index)
	s.Completed = q.index >= len(q.questions)
	return s
}

// ApplyProgress replaces the quiz state with a persisted snapshot. Right
// answers come back as the correct option; the option behind a wrong answer
// is not persisted. The position is clamped to the answered prefix.
func (q *Quiz) ApplyProgress(st ledger.State) error {
	s, ok := st.(*ledger.SequenceState)
	if !ok {
		return ledger.ErrStateMismatch
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.restartLocked()

	byID := make(map[string]card.Question, len(q.questions))
	for _, qu := range q.questions {
		byID[qu.ID] = qu
	}
	for _, p := range s.Progress {
		qu, ok := byID[p.ItemID]
		if !ok {
			continue
		}
		switch p.Impression {
		case ledger.Right:
			if q.ledger.RecordAnswer(qu.ID, qu.CorrectAnswer(), true) {
				q.score++
			}
		case ledger.Left:
			q.ledger.RecordAnswer(qu.ID, "", false)
		}
	}

	answered := 0
	for answered < len(q.questions) && q.answerLocked(answered).Answered {
		answered++
	}
	idx := s.CurrentIndex
	if idx < 0 {
		idx = 0
	}
	if idx > answered {
		idx = answered
	}
	q.index = idx
	return nil
}

// Close turns every later transition into a no-op.
func (q *Quiz) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closeLocked()
}
