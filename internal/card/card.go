// Package card defines the immutable card documents rendered by widgets and
// decodes them from the remote wire format.
package card

// Kind identifies which widget renders a document.
type Kind string

const (
	KindFlashcards Kind = "flashcards"
	KindChecklist  Kind = "checklist"
	KindQuiz       Kind = "quiz"
)

// Valid reports whether k is one of the supported card kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFlashcards, KindChecklist, KindQuiz:
		return true
	}
	return false
}

// Document is the read-only content of a single interaction. Exactly one of
// Cards, Tasks, or Questions is populated, selected by Kind.
type Document struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"type"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle,omitempty"`
	Cards     []Flashcard     `json:"cards,omitempty"`
	Tasks     []ChecklistItem `json:"items,omitempty"`
	Questions []Question      `json:"questions,omitempty"`
}

// Len returns the number of items for the document's kind.
func (d *Document) Len() int {
	switch d.Kind {
	case KindFlashcards:
		return len(d.Cards)
	case KindChecklist:
		return len(d.Tasks)
	case KindQuiz:
		return len(d.Questions)
	}
	return 0
}

// ItemIDs returns the ordered item IDs for the document's kind.
func (d *Document) ItemIDs() []string {
	ids := make([]string, 0, d.Len())
	switch d.Kind {
	case KindFlashcards:
		for _, c := range d.Cards {
			ids = append(ids, c.ID)
		}
	case KindChecklist:
		for _, t := range d.Tasks {
			ids = append(ids, t.ID)
		}
	case KindQuiz:
		for _, q := range d.Questions {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Face is one side of a flashcard.
type Face struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Hint        string `json:"hint,omitempty"`
}

// Style carries presentation hints passed through to the renderer.
type Style struct {
	Gradient  []string `json:"gradient,omitempty"`
	TextColor string   `json:"textColor,omitempty"`
}

// Flashcard is a two-sided card in a deck.
type Flashcard struct {
	ID       string `json:"id"`
	Front    Face   `json:"front"`
	Back     Face   `json:"back"`
	Style    Style  `json:"styles,omitempty"`
	Category string `json:"category,omitempty"`
	Step     string `json:"step,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// ChecklistItem is a task in a checklist. The ID is the task name.
type ChecklistItem struct {
	ID            string `json:"id"`
	Description   string `json:"text"`
	EstimatedTime string `json:"estimatedTime,omitempty"`
	Rationale     string `json:"rationale,omitempty"`
	Statistic     string `json:"statistic,omitempty"`
	Completed     bool   `json:"completed,omitempty"`
}

// Question is a single multiple-choice quiz question with clean options.
type Question struct {
	ID                 string   `json:"id"`
	Text               string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
}

// CorrectAnswer returns the text of the correct option.
func (q Question) CorrectAnswer() string {
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectOptionIndex]
}

// IndexOf returns the position of option in q.Options, or -1.
func (q Question) IndexOf(option string) int {
	for i, o := range q.Options {
		if o == option {
			return i
		}
	}
	return -1
}
