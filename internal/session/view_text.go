package session

import (
	"fmt"
	"strings"

	"github.com/abhisek/attestiz/internal/quiz"
)

// Text renders the view as plain text for chat transports.
func (v View) Text() string {
	switch v.Kind {
	case ViewReview:
		return v.reviewText()
	case ViewDone:
		return "The assessment is complete."
	}

	lines := []string{
		fmt.Sprintf("%s • question %d/%d", v.BlockTitle, v.Position, v.BlockSize),
		fmt.Sprintf("Overall progress: %d/%d", v.Progress, v.Total),
		"",
		v.Prompt,
	}

	switch v.Type {
	case quiz.TypeSingle, quiz.TypeMulti:
		lines = append(lines, "", "Options:")
		var selected []string
		for _, o := range v.Options {
			lines = append(lines, fmt.Sprintf("%d. %s", o.Number, o.Text))
			if o.Selected {
				selected = append(selected, fmt.Sprintf("%d. %s", o.Number, o.Text))
			}
		}
		if len(selected) > 0 {
			lines = append(lines, "", "Selected: "+strings.Join(selected, "; "))
		}
	case quiz.TypeMatching:
		labels := make(map[string]string, len(v.Right))
		lines = append(lines, "", "Right column:")
		for _, it := range v.Right {
			labels[it.ID] = it.Label
			lines = append(lines, fmt.Sprintf("%s. %s", it.ID, it.Label))
		}
		lines = append(lines, "", "Current mapping:")
		for _, it := range v.Left {
			target := "—"
			if it.Pair != "" {
				target = it.Pair + ": " + labels[it.Pair]
			}
			lines = append(lines, fmt.Sprintf("%s. %s → %s", it.ID, it.Label, target))
		}
		if v.Focus != "" {
			lines = append(lines, "", fmt.Sprintf("Item %s selected. Now pick a letter on the right.", v.Focus))
		}
	}
	return strings.Join(lines, "\n")
}

func (v View) reviewText() string {
	r := v.Review
	status := "Incorrect ❌"
	if r.Correct {
		status = "Correct ✅"
	}
	lines := []string{
		fmt.Sprintf("Review • %d/%d", r.Index, r.Count),
		fmt.Sprintf("%s — %s", r.BlockTitle, status),
		"",
		r.Prompt,
		"",
		"Your answer: " + r.YourAnswer,
	}
	if !r.Correct {
		lines = append(lines, "Correct answer: "+r.CorrectAnswer)
	}
	if r.Explanation != "" {
		lines = append(lines, "", r.Explanation)
	}
	lines = append(lines, "", "Use Back/Forward to browse other answers.")
	return strings.Join(lines, "\n")
}
