package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/attestiz/internal/quiz"
	sess "github.com/abhisek/attestiz/internal/session"
	"github.com/abhisek/attestiz/internal/ui/components"
	"github.com/abhisek/attestiz/internal/ui/layout"
	"github.com/abhisek/attestiz/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.view.Kind {
	case sess.ViewReview:
		body = s.renderReview(cw)
	case sess.ViewQuestion:
		body = s.renderQuestion(cw, layout.IsCompactWidth(width))
	default:
		body = theme.Hint.Render("The assessment is complete.")
	}

	sections := []string{body}
	if s.feedback != "" {
		sections = append(sections, theme.Verdict(s.feedbackCorrect).Width(cw).Render(s.feedback))
	}
	if s.hint != "" {
		sections = append(sections, theme.Notice.Width(cw).Render(s.hint))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Join(sections, "\n\n"))
}

func (s *SessionScreen) renderQuestion(cw int, compact bool) string {
	v := s.view
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s • question %d/%d", v.BlockTitle, v.Position, v.BlockSize)))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("Overall", v.Progress-1, v.Total, cw).View())
	b.WriteString("\n\n")

	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 4).Render(v.Prompt)
	if v.Type == quiz.TypeMulti {
		prompt += "\n" + theme.Hint.Render("Select all that apply.")
	}
	b.WriteString(components.Card(prompt, cw))
	b.WriteString("\n\n")

	switch v.Type {
	case quiz.TypeSingle, quiz.TypeMulti:
		b.WriteString(s.list.View())
	case quiz.TypeMatching:
		b.WriteString(s.renderMatching(cw, compact))
	}
	return b.String()
}

// renderMatching shows the left items with their assignments next to the
// right column, stacked on narrow terminals.
func (s *SessionScreen) renderMatching(cw int, compact bool) string {
	v := s.view
	labels := make(map[string]string, len(v.Right))
	var right strings.Builder
	right.WriteString(theme.Hint.Render("Match with"))
	right.WriteString("\n")
	for _, it := range v.Right {
		labels[it.ID] = it.Label
		line := fmt.Sprintf("%s. %s", it.ID, it.Label)
		style := theme.Unselected
		if it.Pair != "" {
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
			line += " (" + it.Pair + ")"
		}
		right.WriteString(style.Render(line))
		right.WriteString("\n")
	}

	var left strings.Builder
	left.WriteString(theme.Hint.Render("Items"))
	left.WriteString("\n")
	for i, it := range v.Left {
		prefix := "  "
		if i == s.list.Cursor {
			prefix = "▸ "
		}
		target := "—"
		if it.Pair != "" {
			target = it.Pair
		}
		line := fmt.Sprintf("%s%s. %s → %s", prefix, it.ID, it.Label, target)
		style := theme.Unselected
		switch {
		case it.Focused:
			style = theme.Selected.Underline(true)
		case i == s.list.Cursor:
			style = theme.Selected
		case it.Pair != "":
			style = theme.Marked
		}
		left.WriteString(style.Render(line))
		left.WriteString("\n")
	}

	if v.Focus != "" {
		left.WriteString("\n")
		left.WriteString(theme.Hint.Render(fmt.Sprintf("Item %s selected. Press a letter to match it.", v.Focus)))
	}

	if compact {
		return left.String() + "\n" + right.String()
	}
	col := lipgloss.NewStyle().Width(cw / 2)
	return lipgloss.JoinHorizontal(lipgloss.Top, col.Render(left.String()), col.Render(right.String()))
}

func (s *SessionScreen) renderReview(cw int) string {
	r := s.view.Review
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Review %d/%d • %s", r.Index, r.Count, r.BlockTitle)))
	b.WriteString("\n\n")

	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 4).Render(r.Prompt),
		"",
		theme.VerdictLabel(r.Correct),
		theme.Body.Render("Your answer: " + r.YourAnswer),
	}
	if !r.Correct {
		lines = append(lines, theme.Body.Render("Correct answer: "+r.CorrectAnswer))
	}
	if r.Explanation != "" {
		lines = append(lines, "", theme.Hint.Width(cw-4).Render(r.Explanation))
	}
	b.WriteString(components.Card(strings.Join(lines, "\n"), cw))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press ] to go forward, [ to go back."))
	return b.String()
}
