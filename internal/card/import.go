package card

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Checkbox lines: captures indent, state, and text.
// "  - [x] Task name" -> ["  ", "x", "Task name"]
var checkboxPattern = regexp.MustCompile(`(?m)^(\s*)- \[([ xX])\] (.+)$`)

var (
	fencedCodePattern = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern = regexp.MustCompile("`[^`]+`")
)

// ParseMarkdownChecklist builds a checklist document from markdown task
// lines. Checkboxes inside code blocks are ignored.
func ParseMarkdownChecklist(id, title, markdown string) (*Document, error) {
	sanitized := fencedCodePattern.ReplaceAllString(markdown, "")
	sanitized = inlineCodePattern.ReplaceAllString(sanitized, "")

	doc := &Document{ID: id, Kind: KindChecklist, Title: title}
	for _, m := range checkboxPattern.FindAllStringSubmatch(sanitized, -1) {
		text := strings.TrimSpace(m[3])
		if text == "" {
			continue
		}
		doc.Tasks = append(doc.Tasks, ChecklistItem{
			ID:          text,
			Description: text,
			Completed:   strings.EqualFold(m[2], "x"),
		})
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// generatedDeck is the response shape of the deck generation endpoint.
type generatedDeck struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Cards    []struct {
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		Gradient  []string `json:"background-gradient-color"`
		TextColor string   `json:"text-color"`
	} `json:"cards"`
}

// DecodeGeneratedDeck converts a generated tip deck into a flashcard
// document. Each tip becomes the front of a card; the back asks the reader
// to reflect on it.
func DecodeGeneratedDeck(id string, raw []byte) (*Document, error) {
	var g generatedDeck
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, malformed(id, "invalid generated deck", err)
	}

	doc := &Document{
		ID:       id,
		Kind:     KindFlashcards,
		Title:    g.Title,
		Subtitle: g.Subtitle,
	}
	n := len(g.Cards)
	for i, c := range g.Cards {
		doc.Cards = append(doc.Cards, Flashcard{
			ID: fmt.Sprintf("api_fc_%d", i),
			Front: Face{
				Title:       c.Title,
				Description: c.Content,
				Hint:        "Tap to flip",
			},
			Back: Face{
				Title:       "Reflection",
				Description: "How can you apply this tip to your routine today?",
				Hint:        "Tap to flip back",
			},
			Style:    Style{Gradient: c.Gradient, TextColor: c.TextColor},
			Category: "Tip",
			Step:     fmt.Sprintf("Tip %d of %d", i+1, n),
			Duration: "1 minute",
		})
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
