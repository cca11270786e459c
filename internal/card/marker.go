package card

import (
	"errors"
	"strings"
)

// CorrectMarker prefixes the correct option in wire-format quiz questions.
const CorrectMarker = "*"

var (
	errNoCorrectOption       = errors.New("no option carries the correct marker")
	errMultipleCorrectOption = errors.New("more than one option carries the correct marker")
)

// NormalizeOptions strips the correct-answer marker from wire options and
// returns the clean options together with the index of the correct one.
// Exactly one option must be marked.
func NormalizeOptions(opts []string) ([]string, int, error) {
	clean := make([]string, len(opts))
	correct := -1
	for i, o := range opts {
		if strings.HasPrefix(o, CorrectMarker) {
			if correct >= 0 {
				return nil, -1, errMultipleCorrectOption
			}
			correct = i
			o = strings.TrimPrefix(o, CorrectMarker)
		}
		clean[i] = strings.TrimSpace(o)
	}
	if correct < 0 {
		return nil, -1, errNoCorrectOption
	}
	return clean, correct, nil
}

// MarkOptions is the inverse of NormalizeOptions.
func MarkOptions(opts []string, correct int) []string {
	marked := make([]string, len(opts))
	for i, o := range opts {
		if i == correct {
			o = CorrectMarker + o
		}
		marked[i] = o
	}
	return marked
}
