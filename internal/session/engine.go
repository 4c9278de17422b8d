package session

import "github.com/abhisek/attestiz/internal/quiz"

// Status reports what happened after an answered question.
type Status string

const (
	// StatusNext means the next question of the same block is live.
	StatusNext Status = "next"
	// StatusSwitch means block one finished and block two is now live.
	StatusSwitch Status = "switch"
	// StatusDone means the last non-empty block finished.
	StatusDone Status = "done"
)

// Direction is a review navigation direction.
type Direction int

const (
	Previous Direction = iota
	Next
)

// ReviewStatus reports the effect of a review navigation.
type ReviewStatus string

const (
	ReviewNothing  ReviewStatus = "nothing_to_review"
	ReviewAtLive   ReviewStatus = "already_live"
	ReviewShowing  ReviewStatus = "showing"
	ReviewReturned ReviewStatus = "returned_to_live"
)

// Scorer scores an answer. evaluator.Evaluator satisfies it.
type Scorer interface {
	Evaluate(q quiz.Question, answer quiz.Answer) quiz.Result
}

// Outcome is the result of a finalized answer.
type Outcome struct {
	Result quiz.Result
	Status Status
}

// Engine drives sessions. It holds no per-session state and may be shared.
type Engine struct {
	scorer Scorer
}

// NewEngine creates an Engine that scores answers with scorer.
func NewEngine(scorer Scorer) *Engine {
	return &Engine{scorer: scorer}
}

// live returns the live question if questionID names it and no review is
// active; otherwise quiz.ErrStaleQuestion.
func (e *Engine) live(s *Session, questionID string) (quiz.Question, error) {
	if s.review >= 0 {
		return quiz.Question{}, quiz.ErrStaleQuestion
	}
	q, ok := s.Current()
	if !ok || q.ID != questionID {
		return quiz.Question{}, quiz.ErrStaleQuestion
	}
	return q, nil
}

// Submit scores answer for the live question, records the result and
// advances. A question id other than the live one, or an active review,
// fails with quiz.ErrStaleQuestion and leaves the session unchanged.
func (e *Engine) Submit(s *Session, questionID string, answer quiz.Answer) (Outcome, error) {
	q, err := e.live(s, questionID)
	if err != nil {
		return Outcome{}, err
	}
	return e.finalize(s, q, answer), nil
}

func (e *Engine) finalize(s *Session, q quiz.Question, answer quiz.Answer) Outcome {
	result := e.scorer.Evaluate(q, answer)
	s.answers = append(s.answers, result)
	s.drafts.clear(q.ID)
	return Outcome{Result: result, Status: e.advance(s)}
}

// advance moves past the live question.
func (e *Engine) advance(s *Session) Status {
	s.currentIndex++
	if s.currentIndex < len(s.Block(s.currentBlock)) {
		return StatusNext
	}
	if s.currentBlock == 1 && len(s.Block(2)) > 0 {
		s.currentBlock = 2
		s.currentIndex = 0
		return StatusSwitch
	}
	s.phase = PhaseDone
	return StatusDone
}

// Review moves the review cursor. It never changes the live position or the
// answer log.
func (e *Engine) Review(s *Session, dir Direction) ReviewStatus {
	if len(s.answers) == 0 {
		return ReviewNothing
	}
	last := len(s.answers) - 1
	switch dir {
	case Previous:
		if s.review < 0 {
			s.review = last
		} else {
			s.review = max(0, s.review-1)
		}
		return ReviewShowing
	case Next:
		if s.review < 0 {
			return ReviewAtLive
		}
		if s.review < last {
			s.review++
			return ReviewShowing
		}
		s.review = -1
		return ReviewReturned
	}
	return ReviewAtLive
}

// Toggle flips choiceID in the selection of a live multi-choice question.
// Unknown choice ids and non-multi questions are ignored.
func (e *Engine) Toggle(s *Session, questionID, choiceID string) error {
	q, err := e.live(s, questionID)
	if err != nil {
		return err
	}
	if q.Type != quiz.TypeMulti {
		return nil
	}
	if _, ok := q.Choice(choiceID); !ok {
		return nil
	}
	md := s.drafts.multi(q.ID)
	if md.Selected[choiceID] {
		delete(md.Selected, choiceID)
	} else {
		md.Selected[choiceID] = true
	}
	return nil
}

// ResetSelection clears the selection of a live multi-choice question.
func (e *Engine) ResetSelection(s *Session, questionID string) error {
	q, err := e.live(s, questionID)
	if err != nil {
		return err
	}
	if q.Type == quiz.TypeMulti {
		s.drafts.clear(q.ID)
	}
	return nil
}

// SubmitSelection submits the current selection of a live multi-choice
// question. An empty selection fails with quiz.ErrEmptySelection.
func (e *Engine) SubmitSelection(s *Session, questionID string) (Outcome, error) {
	q, err := e.live(s, questionID)
	if err != nil {
		return Outcome{}, err
	}
	selected := s.Selection(q)
	if len(selected) == 0 {
		return Outcome{}, quiz.ErrEmptySelection
	}
	return e.finalize(s, q, quiz.MultiAnswer{ChoiceIDs: selected}), nil
}

// Select focuses leftID of a live matching question so the next right-item
// pick is assigned to it.
func (e *Engine) Select(s *Session, questionID, leftID string) error {
	q, err := e.live(s, questionID)
	if err != nil {
		return err
	}
	if q.Type != quiz.TypeMatching {
		return nil
	}
	if _, ok := q.LeftItem(leftID); !ok {
		return nil
	}
	s.drafts.matching(q.ID).Focus = leftID
	return nil
}

// Assign records left → right for a live matching question. A right item
// maps to at most one left item, so any other left holding right loses it.
// The pending focus is cleared.
func (e *Engine) Assign(s *Session, questionID, leftID, rightID string) error {
	q, err := e.live(s, questionID)
	if err != nil {
		return err
	}
	if q.Type != quiz.TypeMatching {
		return nil
	}
	_, okLeft := q.LeftItem(leftID)
	_, okRight := q.RightItem(rightID)
	if !okLeft || !okRight {
		return nil
	}
	md := s.drafts.matching(q.ID)
	for left, right := range md.Mapping {
		if right == rightID && left != leftID {
			delete(md.Mapping, left)
		}
	}
	md.Mapping[leftID] = rightID
	md.Focus = ""
	return nil
}

// AssignFocused assigns rightID to the focused left item. Without a focus it
// fails with quiz.ErrNoFocus.
func (e *Engine) AssignFocused(s *Session, questionID, rightID string) error {
	if _, err := e.live(s, questionID); err != nil {
		return err
	}
	_, focus := s.Mapping(questionID)
	if focus == "" {
		return quiz.ErrNoFocus
	}
	return e.Assign(s, questionID, focus, rightID)
}

// ResetMatching clears the mapping and focus of a live matching question.
func (e *Engine) ResetMatching(s *Session, questionID string) error {
	q, err := e.live(s, questionID)
	if err != nil {
		return err
	}
	if q.Type == quiz.TypeMatching {
		s.drafts.clear(q.ID)
	}
	return nil
}

// SubmitMatching submits the mapping of a live matching question. Unless
// every left item is assigned it fails with quiz.ErrIncompleteMapping.
func (e *Engine) SubmitMatching(s *Session, questionID string) (Outcome, error) {
	q, err := e.live(s, questionID)
	if err != nil {
		return Outcome{}, err
	}
	mapping, _ := s.Mapping(q.ID)
	for _, left := range q.MatchingLeft {
		if _, ok := mapping[left.ID]; !ok {
			return Outcome{}, quiz.ErrIncompleteMapping
		}
	}
	return e.finalize(s, q, quiz.MatchingAnswer{Mapping: mapping}), nil
}

// Step is the effect of one applied Action.
type Step struct {
	// Outcome is set when the action finalized an answer.
	Outcome *Outcome
	// Review is set for review navigation actions.
	Review ReviewStatus
}

// submitKinds maps submitting actions to the question type they finalize.
var submitKinds = map[ActionKind]quiz.QuestionType{
	ActionChoose:          quiz.TypeSingle,
	ActionSubmitSelection: quiz.TypeMulti,
	ActionSubmitMatching:  quiz.TypeMatching,
}

// Apply performs a transport-level action. A submitting action that does not
// fit the live question's type is a no-op.
func (e *Engine) Apply(s *Session, a Action) (Step, error) {
	if want, ok := submitKinds[a.Kind]; ok {
		q, err := e.live(s, a.QuestionID)
		if err != nil {
			return Step{}, err
		}
		if q.Type != want {
			return Step{}, nil
		}
	}

	var (
		out Outcome
		err error
	)
	switch a.Kind {
	case ActionChoose:
		out, err = e.Submit(s, a.QuestionID, quiz.SingleAnswer{ChoiceID: a.Target})
	case ActionSubmitSelection:
		out, err = e.SubmitSelection(s, a.QuestionID)
	case ActionSubmitMatching:
		out, err = e.SubmitMatching(s, a.QuestionID)
	case ActionToggle:
		return Step{}, e.Toggle(s, a.QuestionID, a.Target)
	case ActionResetSelection:
		return Step{}, e.ResetSelection(s, a.QuestionID)
	case ActionSelectLeft:
		return Step{}, e.Select(s, a.QuestionID, a.Target)
	case ActionAssign:
		return Step{}, e.AssignFocused(s, a.QuestionID, a.Target)
	case ActionResetMatching:
		return Step{}, e.ResetMatching(s, a.QuestionID)
	case ActionPrevious:
		return Step{Review: e.Review(s, Previous)}, nil
	case ActionNext:
		return Step{Review: e.Review(s, Next)}, nil
	default:
		return Step{}, nil
	}
	if err != nil {
		return Step{}, err
	}
	return Step{Outcome: &out}, nil
}
