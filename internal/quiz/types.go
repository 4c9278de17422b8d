package quiz

// QuestionType identifies the interaction shape and evaluation rule of a question.
type QuestionType string

const (
	TypeSingle   QuestionType = "single"
	TypeMulti    QuestionType = "multi"
	TypeMatching QuestionType = "matching"
)

// Label returns a short human-readable name for the question type.
func (t QuestionType) Label() string {
	switch t {
	case TypeSingle:
		return "Single choice"
	case TypeMulti:
		return "Multiple choice"
	case TypeMatching:
		return "Matching"
	default:
		return string(t)
	}
}

// Choice is one option of a single- or multi-choice question.
type Choice struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// MatchingItem is one entry of the left or right column of a matching question.
type MatchingItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Question is a materialized, randomized question instance.
type Question struct {
	ID             string            `json:"id"`
	Block          int               `json:"block"`
	Topic          string            `json:"topic"`
	Prompt         string            `json:"prompt"`
	Explanation    string            `json:"explanation"`
	Type           QuestionType      `json:"type"`
	Choices        []Choice          `json:"choices,omitempty"`
	MatchingLeft   []MatchingItem    `json:"matching_left,omitempty"`
	MatchingRight  []MatchingItem    `json:"matching_right,omitempty"`
	CorrectMapping map[string]string `json:"correct_mapping,omitempty"`
	Meta           map[string]string `json:"meta,omitempty"`
}

// CorrectChoiceIDs returns the ids of the correct choices in display order.
func (q Question) CorrectChoiceIDs() []string {
	var ids []string
	for _, c := range q.Choices {
		if c.IsCorrect {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Choice looks up a choice by id.
func (q Question) Choice(id string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// LeftItem looks up a left-column matching item by id.
func (q Question) LeftItem(id string) (MatchingItem, bool) {
	return findItem(q.MatchingLeft, id)
}

// RightItem looks up a right-column matching item by id.
func (q Question) RightItem(id string) (MatchingItem, bool) {
	return findItem(q.MatchingRight, id)
}

func findItem(items []MatchingItem, id string) (MatchingItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return MatchingItem{}, false
}

// Option is one (text, correctness) pair of a choice blueprint.
type Option struct {
	Text      string
	IsCorrect bool
}

// Pair is one authored left/right pair of a matching blueprint.
type Pair struct {
	Left  string
	Right string
}

// Blueprint is an immutable question template loaded from a bank file.
// A blueprint carries either Options (choice questions) or Pairs (matching).
type Blueprint struct {
	Prompt      string
	Topic       string
	Options     []Option
	Pairs       []Pair
	Explanation string
	Meta        map[string]string
}

// IsMatching reports whether the blueprint describes a matching question.
func (b Blueprint) IsMatching() bool {
	return len(b.Pairs) > 0
}

// CorrectCount returns the number of options flagged correct.
func (b Blueprint) CorrectCount() int {
	n := 0
	for _, o := range b.Options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}
