package proctor

import (
	"errors"
	"strings"

	"github.com/abhisek/attestiz/internal/quiz"
	"github.com/abhisek/attestiz/internal/session"
)

// ErrInvalidName is returned for a full name of fewer than two words.
var ErrInvalidName = errors.New("full name must contain at least two words")

// NormalizeName trims raw and collapses inner whitespace.
func NormalizeName(raw string) (string, error) {
	words := strings.Fields(raw)
	if len(words) < 2 {
		return "", ErrInvalidName
	}
	return strings.Join(words, " "), nil
}

// Reason classifies a rejected action for metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, quiz.ErrStaleQuestion):
		return "stale"
	case errors.Is(err, quiz.ErrIncompleteMapping):
		return "incomplete_mapping"
	case errors.Is(err, quiz.ErrEmptySelection):
		return "empty_selection"
	case errors.Is(err, quiz.ErrNoFocus):
		return "no_focus"
	case errors.Is(err, ErrNoSession):
		return "no_session"
	default:
		return "other"
	}
}

// Hint returns the user-facing notice for a rejected action.
func Hint(err error) string {
	switch {
	case errors.Is(err, quiz.ErrStaleQuestion):
		return "This question is already closed."
	case errors.Is(err, quiz.ErrIncompleteMapping):
		return "Match every item before submitting."
	case errors.Is(err, quiz.ErrEmptySelection):
		return "Select at least one option."
	case errors.Is(err, quiz.ErrNoFocus):
		return "Pick an item on the left first."
	case errors.Is(err, ErrNoSession):
		return "No active assessment. Send /start to begin."
	case errors.Is(err, ErrInvalidName):
		return "Please enter your first and last name."
	case errors.Is(err, quiz.ErrUnknownRole):
		return "Unknown position. Choose one from the list."
	default:
		return "Something went wrong. Please try again."
	}
}

func reviewHint(st session.ReviewStatus) string {
	switch st {
	case session.ReviewNothing:
		return "Nothing to review yet."
	case session.ReviewAtLive:
		return "You are already at the current question."
	}
	return ""
}
