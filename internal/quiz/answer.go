package quiz

import (
	"slices"
	"strings"
)

// Answer is a submitted answer payload. Exactly one variant exists per
// QuestionType: SingleAnswer, MultiAnswer and MatchingAnswer.
type Answer interface {
	Type() QuestionType
}

// SingleAnswer is the chosen choice id of a single-choice question.
type SingleAnswer struct {
	ChoiceID string
}

func (SingleAnswer) Type() QuestionType { return TypeSingle }

// MultiAnswer is the set of chosen choice ids of a multi-choice question.
type MultiAnswer struct {
	ChoiceIDs []string
}

func (MultiAnswer) Type() QuestionType { return TypeMulti }

// MatchingAnswer maps left item ids to right item ids.
type MatchingAnswer struct {
	Mapping map[string]string
}

func (MatchingAnswer) Type() QuestionType { return TypeMatching }

// CorrectAnswer builds the canonical correct answer payload for q.
func CorrectAnswer(q Question) Answer {
	switch q.Type {
	case TypeSingle:
		ids := q.CorrectChoiceIDs()
		if len(ids) == 0 {
			return SingleAnswer{}
		}
		return SingleAnswer{ChoiceID: ids[0]}
	case TypeMulti:
		return MultiAnswer{ChoiceIDs: q.CorrectChoiceIDs()}
	case TypeMatching:
		m := make(map[string]string, len(q.CorrectMapping))
		for k, v := range q.CorrectMapping {
			m[k] = v
		}
		return MatchingAnswer{Mapping: m}
	}
	return nil
}

// ChoiceTexts resolves the choice ids of a single or multi answer to their
// texts, in the question's display order. Unknown ids are kept verbatim.
func ChoiceTexts(q Question, a Answer) []string {
	var ids []string
	switch v := a.(type) {
	case SingleAnswer:
		if v.ChoiceID != "" {
			ids = []string{v.ChoiceID}
		}
	case MultiAnswer:
		ids = v.ChoiceIDs
	default:
		return nil
	}

	var texts []string
	seen := make(map[string]bool, len(ids))
	for _, c := range q.Choices {
		if slices.Contains(ids, c.ID) {
			texts = append(texts, c.Text)
			seen[c.ID] = true
		}
	}
	for _, id := range ids {
		if !seen[id] {
			texts = append(texts, id)
		}
	}
	return texts
}

// FormatAnswer renders an answer in human-readable form: choice ids are
// resolved to their text and matching pairs to their labels.
func FormatAnswer(q Question, a Answer) string {
	switch v := a.(type) {
	case SingleAnswer, MultiAnswer:
		texts := ChoiceTexts(q, v)
		if len(texts) == 0 {
			return "—"
		}
		return strings.Join(texts, "; ")
	case MatchingAnswer:
		if len(v.Mapping) == 0 {
			return "—"
		}
		var parts []string
		for _, left := range q.MatchingLeft {
			rightID, ok := v.Mapping[left.ID]
			if !ok {
				continue
			}
			right := rightID
			if item, ok := q.RightItem(rightID); ok {
				right = item.Label
			}
			parts = append(parts, left.Label+" → "+right)
		}
		if len(parts) == 0 {
			return "—"
		}
		return strings.Join(parts, "; ")
	}
	return "—"
}
