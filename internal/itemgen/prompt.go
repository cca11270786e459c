package itemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/nudge/internal/llm"
	"github.com/abhisek/nudge/internal/widget"
)

const systemPrompt = `You add one task to a short personal wellbeing checklist.

Rules:
- Return exactly one task that serves the user's request.
- The task is a concrete action someone can finish today, in under an hour.
- Keep the text under 80 characters, imperative mood, no trailing period.
- Do not repeat or rephrase a task already on the list.
- estimated_time is a short duration like "5 min".
- rationale is one sentence on why the task helps.
- statistic is one short supporting fact, or an empty string if you are not sure of one.`

// ItemSchema is the structured output requested from the model.
var ItemSchema = &llm.Schema{
	Name:        "checklist-item",
	Description: "One new checklist task",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The task, imperative mood",
			},
			"estimated_time": map[string]any{
				"type":        "string",
				"description": "How long the task takes, e.g. 10 min",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "Why the task helps, one sentence",
			},
			"statistic": map[string]any{
				"type":        "string",
				"description": "A supporting fact or empty string",
			},
		},
		"required":             []any{"text", "estimated_time", "rationale", "statistic"},
		"additionalProperties": false,
	},
}

func buildUserMessage(req widget.ItemRequest, maxExisting int) string {
	var b strings.Builder

	if req.ChecklistTitle != "" {
		fmt.Fprintf(&b, "Checklist: %s\n", req.ChecklistTitle)
	}
	fmt.Fprintf(&b, "Request: %s\n", strings.TrimSpace(req.Prompt))

	b.WriteString("\nAlready on the list:\n")
	b.WriteString(existingList(req.Existing, maxExisting))
	return b.String()
}

// existingList numbers the most recent max items, or "None".
func existingList(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it)
	}
	return strings.TrimRight(b.String(), "\n")
}
