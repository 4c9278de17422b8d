package report

import (
	"github.com/abhisek/attestiz/internal/quiz"
)

// FeedbackLimit is the maximum length of feedback text in runes. Chat
// clients cap alert popups slightly above this.
const FeedbackLimit = 190

// Verdict returns the short correctness label of r.
func Verdict(r quiz.Result) string {
	if r.IsCorrect {
		return "Correct ✅"
	}
	return "Incorrect ❌"
}

// Feedback returns the verdict and explanation of r, truncated to
// FeedbackLimit runes.
func Feedback(r quiz.Result) string {
	text := Verdict(r)
	if r.Question.Explanation != "" {
		text += "\n" + r.Question.Explanation
	}
	return Truncate(text, FeedbackLimit)
}

// Truncate shortens s to at most limit runes, ending with "..." when cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
