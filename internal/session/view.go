package session

import (
	"fmt"

	"github.com/abhisek/attestiz/internal/quiz"
)

// ActionKind names a selectable action.
type ActionKind string

const (
	ActionChoose          ActionKind = "choose"
	ActionToggle          ActionKind = "toggle"
	ActionResetSelection  ActionKind = "reset_selection"
	ActionSubmitSelection ActionKind = "submit_selection"
	ActionSelectLeft      ActionKind = "select_left"
	ActionAssign          ActionKind = "assign"
	ActionResetMatching   ActionKind = "reset_matching"
	ActionSubmitMatching  ActionKind = "submit_matching"
	ActionPrevious        ActionKind = "previous"
	ActionNext            ActionKind = "next"
)

// Action is one selectable action offered by a View. Target is the choice,
// left item or right item id the action applies to.
type Action struct {
	Kind       ActionKind
	QuestionID string
	Target     string
	Label      string
	Marked     bool
}

// ViewKind distinguishes the live question from a reviewed answer.
type ViewKind string

const (
	ViewQuestion ViewKind = "question"
	ViewReview   ViewKind = "review"
	ViewDone     ViewKind = "done"
)

// OptionView is one displayed choice.
type OptionView struct {
	ID       string
	Number   int
	Text     string
	Selected bool
}

// ItemView is one displayed matching item. For left items Pair holds the
// assigned right id; for right items it holds the left id using it.
type ItemView struct {
	ID      string
	Label   string
	Pair    string
	Focused bool
}

// ReviewView describes an answered question under review.
type ReviewView struct {
	Index         int
	Count         int
	BlockTitle    string
	Correct       bool
	Prompt        string
	YourAnswer    string
	CorrectAnswer string
	Explanation   string
}

// View is the renderable state of a session plus its selectable actions.
type View struct {
	Kind       ViewKind
	QuestionID string
	Type       quiz.QuestionType
	BlockTitle string

	// Position is the 1-based index of the live question within its block.
	Position  int
	BlockSize int

	// Progress is the 1-based overall index of the live question.
	Progress int
	Total    int

	Prompt  string
	Options []OptionView
	Left    []ItemView
	Right   []ItemView
	Focus   string

	Review  *ReviewView
	Actions [][]Action
}

// View renders the current state of s.
func (s *Session) View() View {
	if idx, ok := s.Reviewing(); ok && idx < len(s.answers) {
		return s.reviewView(idx)
	}
	q, ok := s.Current()
	if !ok {
		return View{Kind: ViewDone, Total: s.TotalQuestions(), Progress: len(s.answers)}
	}

	v := View{
		Kind:       ViewQuestion,
		QuestionID: q.ID,
		Type:       q.Type,
		BlockTitle: s.BlockTitle(s.currentBlock),
		Position:   s.currentIndex + 1,
		BlockSize:  len(s.Block(s.currentBlock)),
		Progress:   len(s.answers) + 1,
		Total:      s.TotalQuestions(),
		Prompt:     q.Prompt,
	}

	switch q.Type {
	case quiz.TypeSingle, quiz.TypeMulti:
		selected := map[string]bool{}
		for _, id := range s.Selection(q) {
			selected[id] = true
		}
		for i, c := range q.Choices {
			v.Options = append(v.Options, OptionView{ID: c.ID, Number: i + 1, Text: c.Text, Selected: selected[c.ID]})
		}
	case quiz.TypeMatching:
		mapping, focus := s.Mapping(q.ID)
		v.Focus = focus
		usedBy := make(map[string]string, len(mapping))
		for left, right := range mapping {
			usedBy[right] = left
		}
		for _, it := range q.MatchingLeft {
			v.Left = append(v.Left, ItemView{ID: it.ID, Label: it.Label, Pair: mapping[it.ID], Focused: it.ID == focus})
		}
		for _, it := range q.MatchingRight {
			v.Right = append(v.Right, ItemView{ID: it.ID, Label: it.Label, Pair: usedBy[it.ID]})
		}
	}

	v.Actions = s.questionActions(v)
	if nav := s.navigation(); nav != nil {
		v.Actions = append(v.Actions, nav)
	}
	return v
}

func (s *Session) reviewView(idx int) View {
	r := s.answers[idx]
	rv := &ReviewView{
		Index:       idx + 1,
		Count:       len(s.answers),
		BlockTitle:  s.BlockTitle(r.Question.Block),
		Correct:     r.IsCorrect,
		Prompt:      r.Question.Prompt,
		YourAnswer:  quiz.FormatAnswer(r.Question, r.Answer),
		Explanation: r.Question.Explanation,
	}
	if !r.IsCorrect {
		rv.CorrectAnswer = quiz.FormatAnswer(r.Question, quiz.CorrectAnswer(r.Question))
	}
	return View{
		Kind:       ViewReview,
		QuestionID: r.Question.ID,
		Type:       r.Question.Type,
		BlockTitle: rv.BlockTitle,
		Prompt:     r.Question.Prompt,
		Progress:   len(s.answers) + 1,
		Total:      s.TotalQuestions(),
		Review:     rv,
		Actions:    [][]Action{s.navigation()},
	}
}

func (s *Session) questionActions(v View) [][]Action {
	var rows [][]Action
	switch v.Type {
	case quiz.TypeSingle:
		for _, o := range v.Options {
			rows = append(rows, []Action{{
				Kind: ActionChoose, QuestionID: v.QuestionID, Target: o.ID, Label: fmt.Sprint(o.Number),
			}})
		}
	case quiz.TypeMulti:
		for _, o := range v.Options {
			mark := "▫️"
			if o.Selected {
				mark = "✅"
			}
			rows = append(rows, []Action{{
				Kind: ActionToggle, QuestionID: v.QuestionID, Target: o.ID,
				Label: fmt.Sprintf("%s %d", mark, o.Number), Marked: o.Selected,
			}})
		}
		rows = append(rows, []Action{
			{Kind: ActionResetSelection, QuestionID: v.QuestionID, Label: "Clear"},
			{Kind: ActionSubmitSelection, QuestionID: v.QuestionID, Label: "Submit"},
		})
	case quiz.TypeMatching:
		var left, right []Action
		for _, it := range v.Left {
			label := it.ID
			if it.Focused {
				label = "▶"
			}
			left = append(left, Action{Kind: ActionSelectLeft, QuestionID: v.QuestionID, Target: it.ID, Label: label, Marked: it.Focused})
		}
		for _, it := range v.Right {
			right = append(right, Action{Kind: ActionAssign, QuestionID: v.QuestionID, Target: it.ID, Label: it.ID, Marked: it.Pair != ""})
		}
		rows = append(rows, left, right, []Action{
			{Kind: ActionResetMatching, QuestionID: v.QuestionID, Label: "Reset"},
			{Kind: ActionSubmitMatching, QuestionID: v.QuestionID, Label: "Submit"},
		})
	}
	return rows
}

// navigation returns the review row, or nil before the first answer.
func (s *Session) navigation() []Action {
	if len(s.answers) == 0 {
		return nil
	}
	row := []Action{{Kind: ActionPrevious, Label: "◀️ Back"}}
	if s.review >= 0 {
		row = append(row, Action{Kind: ActionNext, Label: "▶️ Forward"})
	}
	return row
}
