package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/attestiz/internal/quiz"
	"github.com/abhisek/attestiz/internal/report"
	"github.com/abhisek/attestiz/internal/router"
	"github.com/abhisek/attestiz/internal/screen"
	"github.com/abhisek/attestiz/internal/ui/components"
	"github.com/abhisek/attestiz/internal/ui/layout"
	"github.com/abhisek/attestiz/internal/ui/theme"
)

// SummaryScreen displays the final report of a finished assessment.
type SummaryScreen struct {
	summary report.Summary
	offset  int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary report.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return report.Header
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "New attempt"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }

	var lines []string
	lines = append(lines,
		center(theme.Title.Render("Assessment complete")),
		center(theme.Subtitle.Render(fmt.Sprintf("%s • %s", sum.Profile.FullName, sum.Profile.Position))),
		"",
		center(components.NewProgressBar("Total", sum.Overall.Correct, sum.Overall.Total, cw).View()),
		center(theme.Body.Render(fmt.Sprintf("Correct: %d    Mistakes: %d",
			sum.Overall.Correct, sum.Overall.Total-sum.Overall.Correct))),
		"",
	)
	for _, b := range sum.Blocks {
		if b.Answered == 0 {
			continue
		}
		lines = append(lines, center(components.NewProgressBar(b.Title, b.Correct, b.Total, cw).View()))
	}

	lines = append(lines, "", center(components.Divider(cw)), "")
	if len(sum.Mistakes) == 0 {
		lines = append(lines, center(theme.Correct.Render("No mistakes — excellent work!")))
	} else {
		lines = append(lines, center(theme.Hint.Render("Mistakes")))
		for i, r := range sum.Mistakes {
			lines = append(lines, "", center(renderMistake(i+1, r, cw)))
		}
		lines = append(lines, "", center(theme.Hint.Render("Topics with mistakes")))
		for _, t := range sum.Topics {
			lines = append(lines, center(theme.Body.Render("• "+t)))
		}
	}

	all := strings.Split(strings.Join(lines, "\n"), "\n")
	maxOffset := max(0, len(all)-height)
	if s.offset > maxOffset {
		s.offset = maxOffset
	}
	return strings.Join(all[s.offset:], "\n")
}

func renderMistake(n int, r quiz.Result, cw int) string {
	text := fmt.Sprintf("%d. %s\n   Answer: %s\n   Correct: %s",
		n,
		r.Question.Prompt,
		quiz.FormatAnswer(r.Question, r.Answer),
		quiz.FormatAnswer(r.Question, quiz.CorrectAnswer(r.Question)),
	)
	return lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(text)
}
