package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/attestiz/internal/quiz"
)

func TestSubmitAdvancesThroughBlocks(t *testing.T) {
	e := newTestEngine()
	s := newTestSession(singles("b1", 2, 1), singles("b2", 1, 2))

	out, err := answerLive(e, s)
	require.NoError(t, err)
	assert.Equal(t, StatusNext, out.Status)
	assert.True(t, out.Result.IsCorrect)

	out, err = answerLive(e, s)
	require.NoError(t, err)
	assert.Equal(t, StatusSwitch, out.Status)
	assert.Equal(t, 2, s.CurrentBlock())
	assert.Equal(t, 0, s.CurrentIndex())

	out, err = answerLive(e, s)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, out.Status)
	assert.True(t, s.Done())
	assert.Equal(t, 3, s.AnswerCount())

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestEmptyBlockTwoFinishesAfterBlockOne(t *testing.T) {
	e := newTestEngine()
	s := newTestSession(singles("b1", 1, 1), nil)

	out, err := answerLive(e, s)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, out.Status)
}

func TestEmptyBlockOneStartsInBlockTwo(t *testing.T) {
	s := newTestSession(nil, singles("b2", 1, 2))
	assert.Equal(t, 2, s.CurrentBlock())
	q, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b2-1", q.ID)

	empty := newTestSession(nil, nil)
	assert.True(t, empty.Done())
}

func TestSubmitStaleQuestion(t *testing.T) {
	e := newTestEngine()
	s := newTestSession(singles("b1", 2, 1), nil)

	_, err := e.Submit(s, "x", quiz.SingleAnswer{ChoiceID: "c1"})
	assert.True(t, errors.Is(err, quiz.ErrStaleQuestion))
	assert.Equal(t, 0, s.AnswerCount())
	assert.Equal(t, 0, s.CurrentIndex())

	// A duplicate of an already-answered question is stale too.
	_, err = answerLive(e, s)
	require.NoError(t, err)
	_, err = e.Submit(s, "b1-1", quiz.SingleAnswer{ChoiceID: "c1"})
	assert.ErrorIs(t, err, quiz.ErrStaleQuestion)
	assert.Equal(t, 1, s.AnswerCount())
}

func TestSubmitDuringReviewIsStale(t *testing.T) {
	e := newTestEngine()
	s := newTestSession(singles("b1", 3, 1), nil)
	_, err := answerLive(e, s)
	require.NoError(t, err)

	assert.Equal(t, ReviewShowing, e.Review(s, Previous))
	_, err = e.Submit(s, "b1-2", quiz.SingleAnswer{ChoiceID: "c1"})
	assert.ErrorIs(t, err, quiz.ErrStaleQuestion)
	assert.ErrorIs(t, e.Toggle(s, "b1-2", "c1"), quiz.ErrStaleQuestion)
	assert.Equal(t, 1, s.AnswerCount())
}

func TestSubmitAfterDoneIsStale(t *testing.T) {
	e := newTestEngine()
	s := newTestSession(singles("b1", 1, 1), nil)
	_, err := answerLive(e, s)
	require.NoError(t, err)

	_, err = e.Submit(s, "b1-1", quiz.SingleAnswer{ChoiceID: "c1"})
	assert.ErrorIs(t, err, quiz.ErrStaleQuestion)
}

func TestReviewNavigation(t *testing.T) {
	e := newTestEngine()
	s := newTestSession(singles("b1", 4, 1), nil)

	assert.Equal(t, ReviewNothing, e.Review(s, Previous))
	assert.Equal(t, ReviewNothing, e.Review(s, Next))

	for range 3 {
		_, err := answerLive(e, s)
		require.NoError(t, err)
	}
	before := s.Answers()

	assert.Equal(t, ReviewAtLive, e.Review(s, Next))

	wantIdx := []int{2, 1, 0}
	for _, want := range wantIdx {
		assert.Equal(t, ReviewShowing, e.Review(s, Previous))
		idx, ok := s.Reviewing()
		require.True(t, ok)
		assert.Equal(t, want, idx)
	}
	// Floored at the first answer.
	e.Review(s, Previous)
	idx, _ := s.Reviewing()
	assert.Equal(t, 0, idx)

	assert.Equal(t, ReviewShowing, e.Review(s, Next))
	assert.Equal(t, ReviewShowing, e.Review(s, Next))
	assert.Equal(t, ReviewReturned, e.Review(s, Next))
	_, reviewing := s.Reviewing()
	assert.False(t, reviewing)

	assert.Equal(t, before, s.Answers())
	assert.Equal(t, 3, s.CurrentIndex())
	assert.Equal(t, 1, s.CurrentBlock())
}

func TestMultiChoiceDraft(t *testing.T) {
	e := newTestEngine()
	s := newTestSession([]quiz.Question{multiQ("m1", 1), singleQ("s2", 1)}, nil)
	q, _ := s.Current()

	_, err := e.SubmitSelection(s, "m1")
	assert.ErrorIs(t, err, quiz.ErrEmptySelection)

	require.NoError(t, e.Toggle(s, "m1", "c3"))
	require.NoError(t, e.Toggle(s, "m1", "c1"))
	require.NoError(t, e.Toggle(s, "m1", "c2"))
	require.NoError(t, e.Toggle(s, "m1", "c2"))
	require.NoError(t, e.Toggle(s, "m1", "zz"))
	assert.Equal(t, []string{"c1", "c3"}, s.Selection(q))

	require.NoError(t, e.ResetSelection(s, "m1"))
	assert.Empty(t, s.Selection(q))
	assert.False(t, s.HasDraft("m1"))

	require.NoError(t, e.Toggle(s, "m1", "c1"))
	require.NoError(t, e.Toggle(s, "m1", "c3"))
	out, err := e.SubmitSelection(s, "m1")
	require.NoError(t, err)
	assert.True(t, out.Result.IsCorrect)
	assert.Equal(t, quiz.MultiAnswer{ChoiceIDs: []string{"c1", "c3"}}, out.Result.Answer)
	assert.False(t, s.HasDraft("m1"))
	assert.Equal(t, 1, s.AnswerCount())
}

func TestMultiChoiceWrongSelection(t *testing.T) {
	e := newTestEngine()
	s := newTestSession([]quiz.Question{multiQ("m1", 1)}, nil)
	require.NoError(t, e.Toggle(s, "m1", "c2"))
	out, err := e.SubmitSelection(s, "m1")
	require.NoError(t, err)
	assert.False(t, out.Result.IsCorrect)
}

func TestToggleIgnoredForSingleChoice(t *testing.T) {
	e := newTestEngine()
	s := newTestSession(singles("b1", 1, 1), nil)
	require.NoError(t, e.Toggle(s, "b1-1", "c1"))
	assert.False(t, s.HasDraft("b1-1"))
}

func TestMatchingAssignEvictsPriorLeft(t *testing.T) {
	e := newTestEngine()
	s := newTestSession([]quiz.Question{matchingQ("mt", 1)}, nil)

	require.NoError(t, e.Assign(s, "mt", "1", "A"))
	require.NoError(t, e.Assign(s, "mt", "2", "A"))
	mapping, _ := s.Mapping("mt")
	assert.Equal(t, map[string]string{"2": "A"}, mapping)

	_, err := e.SubmitMatching(s, "mt")
	assert.ErrorIs(t, err, quiz.ErrIncompleteMapping)
	assert.Equal(t, 0, s.AnswerCount())
	mapping, _ = s.Mapping("mt")
	assert.Equal(t, map[string]string{"2": "A"}, mapping)
}

func TestMatchingFocusFlow(t *testing.T) {
	e := newTestEngine()
	s := newTestSession([]quiz.Question{matchingQ("mt", 1)}, singles("b2", 1, 2))

	assert.ErrorIs(t, e.AssignFocused(s, "mt", "A"), quiz.ErrNoFocus)

	require.NoError(t, e.Select(s, "mt", "1"))
	_, focus := s.Mapping("mt")
	assert.Equal(t, "1", focus)

	require.NoError(t, e.AssignFocused(s, "mt", "A"))
	_, focus = s.Mapping("mt")
	assert.Empty(t, focus, "assign clears focus")

	require.NoError(t, e.Select(s, "mt", "2"))
	require.NoError(t, e.AssignFocused(s, "mt", "B"))

	out, err := e.SubmitMatching(s, "mt")
	require.NoError(t, err)
	assert.True(t, out.Result.IsCorrect)
	assert.Equal(t, StatusSwitch, out.Status)
	assert.False(t, s.HasDraft("mt"))
}

func TestMatchingReset(t *testing.T) {
	e := newTestEngine()
	s := newTestSession([]quiz.Question{matchingQ("mt", 1)}, nil)
	require.NoError(t, e.Select(s, "mt", "2"))
	require.NoError(t, e.Assign(s, "mt", "1", "B"))
	require.NoError(t, e.ResetMatching(s, "mt"))

	mapping, focus := s.Mapping("mt")
	assert.Empty(t, mapping)
	assert.Empty(t, focus)
}

func TestApplyDispatch(t *testing.T) {
	e := newTestEngine()
	s := newTestSession([]quiz.Question{singleQ("s1", 1), multiQ("m1", 1)}, nil)

	step, err := e.Apply(s, Action{Kind: ActionChoose, QuestionID: "s1", Target: "c2"})
	require.NoError(t, err)
	require.NotNil(t, step.Outcome)
	assert.False(t, step.Outcome.Result.IsCorrect)
	assert.Equal(t, StatusNext, step.Outcome.Status)

	step, err = e.Apply(s, Action{Kind: ActionToggle, QuestionID: "m1", Target: "c1"})
	require.NoError(t, err)
	assert.Nil(t, step.Outcome)

	step, err = e.Apply(s, Action{Kind: ActionPrevious})
	require.NoError(t, err)
	assert.Equal(t, ReviewShowing, step.Review)

	_, err = e.Apply(s, Action{Kind: ActionSubmitSelection, QuestionID: "m1"})
	assert.ErrorIs(t, err, quiz.ErrStaleQuestion)

	step, err = e.Apply(s, Action{Kind: ActionNext})
	require.NoError(t, err)
	assert.Equal(t, ReviewReturned, step.Review)

	step, err = e.Apply(s, Action{Kind: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, Step{}, step)
}

func TestApplyIgnoresSubmitOfWrongType(t *testing.T) {
	e := newTestEngine()
	s := newTestSession([]quiz.Question{multiQ("m1", 1), matchingQ("x1", 1)}, nil)

	step, err := e.Apply(s, Action{Kind: ActionChoose, QuestionID: "m1", Target: "c1"})
	require.NoError(t, err)
	assert.Nil(t, step.Outcome)
	assert.Equal(t, 0, s.AnswerCount())

	step, err = e.Apply(s, Action{Kind: ActionSubmitMatching, QuestionID: "m1"})
	require.NoError(t, err)
	assert.Nil(t, step.Outcome)

	_, err = e.Apply(s, Action{Kind: ActionChoose, QuestionID: "x1", Target: "c1"})
	assert.ErrorIs(t, err, quiz.ErrStaleQuestion)
}
