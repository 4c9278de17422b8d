// Package report builds the end-of-assessment summary and the short texts
// shown after each answer.
package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/attestiz/internal/quiz"
	"github.com/abhisek/attestiz/internal/session"
)

// Header is prepended to the first chunk of a delivered summary.
const Header = "Final report"

// Score holds correct and total counts.
type Score struct {
	Correct int
	Total   int
}

// Summary is the structured outcome of a finished session.
type Summary struct {
	Profile  session.Profile
	Overall  Score
	Blocks   []BlockScore
	Mistakes []quiz.Result
	Topics   []string
}

// BlockScore is the score of one block.
type BlockScore struct {
	Number int
	Title  string
	Score
	Answered int
}

// Build computes the summary of s from its answer log.
func Build(s *session.Session) Summary {
	answers := s.Answers()
	sum := Summary{
		Profile: s.Profile,
		Overall: Score{Total: s.TotalQuestions()},
	}

	for n := 1; n <= 2; n++ {
		sum.Blocks = append(sum.Blocks, BlockScore{
			Number: n,
			Title:  s.BlockTitle(n),
			Score:  Score{Total: len(s.Block(n))},
		})
	}

	topics := map[string]bool{}
	for _, r := range answers {
		b := &sum.Blocks[blockIndex(r.Question.Block)]
		b.Answered++
		if r.IsCorrect {
			sum.Overall.Correct++
			b.Correct++
			continue
		}
		sum.Mistakes = append(sum.Mistakes, r)
		if r.Question.Topic != "" {
			topics[r.Question.Topic] = true
		}
	}
	for t := range topics {
		sum.Topics = append(sum.Topics, t)
	}
	slices.Sort(sum.Topics)
	return sum
}

func blockIndex(block int) int {
	if block == 2 {
		return 1
	}
	return 0
}

// BuildSummary renders the summary of s as text. The output depends only on
// the session's answers, blocks and profile.
func BuildSummary(s *session.Session) string {
	return Build(s).Text()
}

// Text renders the summary.
func (sum Summary) Text() string {
	lines := []string{
		fmt.Sprintf("Results for %s (%s):", sum.Profile.FullName, sum.Profile.Position),
		fmt.Sprintf("Total: %d/%d correct, mistakes: %d.",
			sum.Overall.Correct, sum.Overall.Total, sum.Overall.Total-sum.Overall.Correct),
	}
	for _, b := range sum.Blocks {
		if b.Answered == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d/%d correct.", b.Title, b.Correct, b.Total))
	}

	if len(sum.Mistakes) == 0 {
		lines = append(lines, "", "No mistakes — excellent work!")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "", "Mistakes:")
	for i, r := range sum.Mistakes {
		lines = append(lines, fmt.Sprintf("%d. %s Answer: %s. Correct: %s.",
			i+1,
			r.Question.Prompt,
			quiz.FormatAnswer(r.Question, r.Answer),
			quiz.FormatAnswer(r.Question, quiz.CorrectAnswer(r.Question)),
		))
	}

	lines = append(lines, "", "Topics with mistakes:")
	if len(sum.Topics) == 0 {
		lines = append(lines, "- none")
	}
	for _, t := range sum.Topics {
		lines = append(lines, "- "+t)
	}
	return strings.Join(lines, "\n")
}
