package widget

import (
	"fmt"

	"github.com/abhisek/nudge/internal/ledger"
)

// CelebrationEvery is the streak length that triggers a celebration.
const CelebrationEvery = 3

// MinStreakShown is the shortest streak worth announcing.
const MinStreakShown = 2

var celebrationMessages = []string{"Awesome!", "Great!", "Nailed It!", "Superb!", "Brilliant!"}

// IsCelebration reports whether streak lands on a celebration.
func IsCelebration(streak int) bool {
	return streak > 0 && streak%CelebrationEvery == 0
}

// CelebrationMessage picks the message for a celebrated streak. Messages
// rotate as the streak keeps growing.
func CelebrationMessage(streak int) string {
	n := streak/CelebrationEvery - 1
	if n < 0 {
		n = 0
	}
	return celebrationMessages[n%len(celebrationMessages)]
}

// StreakMessage returns the "in a row" banner, or "" for short streaks.
func StreakMessage(streak int) string {
	if streak < MinStreakShown {
		return ""
	}
	return fmt.Sprintf("%d in a row!", streak)
}

// DeckResults is the end-of-deck summary.
type DeckResults struct {
	Known    int
	Learning int
	Total    int
	Accuracy int // percent of the original deck known
	Headline string
	Message  string
}

func newDeckResults(known, learning, total int) DeckResults {
	r := DeckResults{
		Known:    known,
		Learning: learning,
		Total:    total,
		Accuracy: ledger.Percentage(known, total),
	}
	r.Headline, r.Message = resultsCopy(r.Accuracy)
	return r
}

func resultsCopy(accuracy int) (string, string) {
	switch {
	case accuracy >= 90:
		return "Excellent Work!", "You've mastered this set. Time for a new challenge!"
	case accuracy >= 60:
		return "Great Progress!", "You're getting the hang of it. Keep reviewing the tough ones!"
	default:
		return "Keep Going!", "Practice makes perfect. Let's give this set another try."
	}
}
