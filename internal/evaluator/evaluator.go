// Package evaluator scores submitted answers against materialized questions.
package evaluator

import "github.com/abhisek/attestiz/internal/quiz"

// Evaluator scores answers. It is stateless and safe for concurrent use.
type Evaluator struct{}

// New returns an Evaluator.
func New() Evaluator {
	return Evaluator{}
}

// Evaluate scores answer against q. Evaluation never fails: an answer whose
// variant does not fit the question type is scored incorrect.
func (Evaluator) Evaluate(q quiz.Question, answer quiz.Answer) quiz.Result {
	return quiz.Result{
		Question:  q,
		IsCorrect: IsCorrect(q, answer),
		Answer:    answer,
	}
}

// IsCorrect reports whether answer is exactly the correct answer for q.
func IsCorrect(q quiz.Question, answer quiz.Answer) bool {
	switch q.Type {
	case quiz.TypeSingle:
		a, ok := answer.(quiz.SingleAnswer)
		if !ok || a.ChoiceID == "" {
			return false
		}
		c, found := q.Choice(a.ChoiceID)
		return found && c.IsCorrect

	case quiz.TypeMulti:
		a, ok := answer.(quiz.MultiAnswer)
		if !ok || len(a.ChoiceIDs) == 0 {
			return false
		}
		return sameSet(a.ChoiceIDs, q.CorrectChoiceIDs())

	case quiz.TypeMatching:
		a, ok := answer.(quiz.MatchingAnswer)
		if !ok || len(a.Mapping) != len(q.CorrectMapping) {
			return false
		}
		for left, right := range q.CorrectMapping {
			if got, ok := a.Mapping[left]; !ok || got != right {
				return false
			}
		}
		return true
	}
	return false
}

func sameSet(got, want []string) bool {
	g := make(map[string]struct{}, len(got))
	for _, id := range got {
		g[id] = struct{}{}
	}
	w := make(map[string]struct{}, len(want))
	for _, id := range want {
		w[id] = struct{}{}
	}
	if len(g) != len(w) {
		return false
	}
	for id := range w {
		if _, ok := g[id]; !ok {
			return false
		}
	}
	return true
}
