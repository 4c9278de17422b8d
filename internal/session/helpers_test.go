package session

import (
	"fmt"

	"github.com/abhisek/attestiz/internal/evaluator"
	"github.com/abhisek/attestiz/internal/quiz"
)

func singleQ(id string, block int) quiz.Question {
	return quiz.Question{
		ID:     id,
		Block:  block,
		Topic:  "topic " + id,
		Prompt: "prompt " + id,
		Type:   quiz.TypeSingle,
		Choices: []quiz.Choice{
			{ID: "c1", Text: "right", IsCorrect: true},
			{ID: "c2", Text: "wrong"},
		},
		Explanation: "Correct answer: right",
	}
}

func multiQ(id string, block int) quiz.Question {
	return quiz.Question{
		ID:     id,
		Block:  block,
		Prompt: "prompt " + id,
		Type:   quiz.TypeMulti,
		Choices: []quiz.Choice{
			{ID: "c1", Text: "a", IsCorrect: true},
			{ID: "c2", Text: "b"},
			{ID: "c3", Text: "c", IsCorrect: true},
		},
	}
}

func matchingQ(id string, block int) quiz.Question {
	return quiz.Question{
		ID:             id,
		Block:          block,
		Prompt:         "prompt " + id,
		Type:           quiz.TypeMatching,
		MatchingLeft:   []quiz.MatchingItem{{ID: "1", Label: "one"}, {ID: "2", Label: "two"}},
		MatchingRight:  []quiz.MatchingItem{{ID: "A", Label: "alpha"}, {ID: "B", Label: "beta"}},
		CorrectMapping: map[string]string{"1": "A", "2": "B"},
	}
}

func singles(prefix string, n, block int) []quiz.Question {
	out := make([]quiz.Question, n)
	for i := range out {
		out[i] = singleQ(fmt.Sprintf("%s-%d", prefix, i+1), block)
	}
	return out
}

func newTestSession(one, two []quiz.Question) *Session {
	return New(Config{
		ID:            "s-1",
		UserID:        7,
		RoleSlug:      "nurse",
		Profile:       Profile{FullName: "Ann Lee", Position: "Nurse"},
		BlockOne:      one,
		BlockTwo:      two,
		BlockOneTitle: "Block 1 — Common",
		BlockTwoTitle: "Block 2 — Nurse",
	})
}

func newTestEngine() *Engine {
	return NewEngine(evaluator.New())
}

// answerLive submits the correct answer to the live question.
func answerLive(e *Engine, s *Session) (Outcome, error) {
	q, _ := s.Current()
	return e.Submit(s, q.ID, quiz.CorrectAnswer(q))
}
