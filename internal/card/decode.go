package card

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wireQuestion is a quiz question as served by the remote API, with the
// correct option flagged in-band by CorrectMarker.
type wireQuestion struct {
	ID       string   `json:"id,omitempty"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type wireDocument struct {
	ID        string          `json:"id"`
	Type      Kind            `json:"type"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle,omitempty"`
	Cards     []Flashcard     `json:"cards,omitempty"`
	Items     []ChecklistItem `json:"items,omitempty"`
	Questions []wireQuestion  `json:"questions,omitempty"`
}

// Decode parses a wire-format card document, validates it, and normalizes it
// into a Document. Quiz markers are stripped here and never reach widgets.
func Decode(raw []byte) (*Document, error) {
	var head struct {
		ID   string `json:"id"`
		Type Kind   `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, malformed("", "invalid JSON", err)
	}
	if !head.Type.Valid() {
		return nil, malformed(head.ID, fmt.Sprintf("unknown card type %q", head.Type), nil)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, malformed(head.ID, "invalid JSON", err)
	}
	schema, err := compiledSchema(head.Type)
	if err != nil {
		return nil, fmt.Errorf("card schema %s: %w", head.Type, err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, malformed(head.ID, "schema validation failed", err)
	}

	var w wireDocument
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, malformed(head.ID, "decode", err)
	}

	doc := &Document{
		ID:       w.ID,
		Kind:     w.Type,
		Title:    w.Title,
		Subtitle: w.Subtitle,
	}

	switch w.Type {
	case KindFlashcards:
		doc.Cards = make([]Flashcard, len(w.Cards))
		for i, c := range w.Cards {
			if c.ID == "" {
				c.ID = fmt.Sprintf("card_%d", i)
			}
			doc.Cards[i] = c
		}
	case KindChecklist:
		doc.Tasks = make([]ChecklistItem, len(w.Items))
		for i, it := range w.Items {
			it.Description = strings.TrimSpace(it.Description)
			if it.ID == "" {
				it.ID = it.Description
			}
			doc.Tasks[i] = it
		}
	case KindQuiz:
		doc.Questions = make([]Question, len(w.Questions))
		for i, q := range w.Questions {
			opts, correct, err := NormalizeOptions(q.Options)
			if err != nil {
				return nil, malformed(w.ID, fmt.Sprintf("question %d", i+1), err)
			}
			id := q.ID
			if id == "" {
				id = fmt.Sprintf("q%d", i+1)
			}
			doc.Questions[i] = Question{
				ID:                 id,
				Text:               strings.TrimSpace(q.Question),
				Options:            opts,
				CorrectOptionIndex: correct,
			}
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Encode renders doc back into the wire format accepted by Decode.
func Encode(doc *Document) ([]byte, error) {
	w := wireDocument{
		ID:       doc.ID,
		Type:     doc.Kind,
		Title:    doc.Title,
		Subtitle: doc.Subtitle,
		Cards:    doc.Cards,
		Items:    doc.Tasks,
	}
	for _, q := range doc.Questions {
		w.Questions = append(w.Questions, wireQuestion{
			ID:       q.ID,
			Question: q.Text,
			Options:  MarkOptions(q.Options, q.CorrectOptionIndex),
		})
	}
	return json.Marshal(w)
}

// Validate checks the semantic rules the schema cannot express.
func (d *Document) Validate() error {
	if !d.Kind.Valid() {
		return malformed(d.ID, fmt.Sprintf("unknown card type %q", d.Kind), nil)
	}
	if d.Len() == 0 {
		return malformed(d.ID, "document has no items", nil)
	}

	seen := make(map[string]bool, d.Len())
	for _, id := range d.ItemIDs() {
		if id == "" {
			return malformed(d.ID, "item without an ID", nil)
		}
		if seen[id] {
			return malformed(d.ID, fmt.Sprintf("duplicate item ID %q", id), nil)
		}
		seen[id] = true
	}

	for _, q := range d.Questions {
		if len(q.Options) < 2 || len(q.Options) > 4 {
			return malformed(d.ID, fmt.Sprintf("question %s has %d options", q.ID, len(q.Options)), nil)
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return malformed(d.ID, fmt.Sprintf("question %s has no correct option", q.ID), nil)
		}
		opts := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if opts[o] {
				return malformed(d.ID, fmt.Sprintf("question %s repeats option %q", q.ID, o), nil)
			}
			opts[o] = true
		}
	}
	return nil
}
