// Package session is the screen that runs a live assessment: it renders the
// current question or review and turns key presses into session actions.
package session

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/attestiz/internal/proctor"
	"github.com/abhisek/attestiz/internal/quiz"
	"github.com/abhisek/attestiz/internal/router"
	"github.com/abhisek/attestiz/internal/screen"
	"github.com/abhisek/attestiz/internal/screens/summary"
	sess "github.com/abhisek/attestiz/internal/session"
	"github.com/abhisek/attestiz/internal/ui/components"
	"github.com/abhisek/attestiz/internal/ui/layout"
)

// Service applies actions to a running session. *proctor.Service satisfies it.
type Service interface {
	Apply(ctx context.Context, userID int64, action sess.Action) (proctor.Reply, error)
	Abandon(ctx context.Context, userID int64) bool
}

// SessionScreen implements screen.Screen for the active session.
type SessionScreen struct {
	svc    Service
	userID int64

	view    sess.View
	list    components.ChoiceList
	pending bool
	done    bool

	feedback        string
	feedbackCorrect bool
	hint            string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)
var _ screen.Leaver = (*SessionScreen)(nil)

// New creates a SessionScreen for a session started with reply.
func New(svc Service, userID int64, reply proctor.Reply) *SessionScreen {
	s := &SessionScreen{svc: svc, userID: userID}
	s.setView(reply.View)
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	return nil
}

func (s *SessionScreen) Title() string {
	return s.view.BlockTitle
}

func (s *SessionScreen) Status() string {
	if s.view.Total == 0 {
		return ""
	}
	return fmt.Sprintf("Question %d/%d", min(s.view.Progress, s.view.Total), s.view.Total)
}

// Leave abandons the session when the screen is closed before the end.
func (s *SessionScreen) Leave() {
	if s.done {
		return
	}
	s.done = true
	s.svc.Abandon(context.Background(), s.userID)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	nav := []layout.KeyHint{
		{Key: "[ ]", Description: "Review"},
		{Key: "Esc", Description: "Quit"},
	}
	if s.view.Kind == sess.ViewReview {
		return nav
	}
	var hints []layout.KeyHint
	switch s.view.Type {
	case quiz.TypeSingle:
		hints = []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
		}
	case quiz.TypeMulti:
		hints = []layout.KeyHint{
			{Key: "Space/1-9", Description: "Toggle"},
			{Key: "Bksp", Description: "Clear"},
			{Key: "Enter", Description: "Submit"},
		}
	case quiz.TypeMatching:
		hints = []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Item"},
			{Key: "A-Z", Description: "Match"},
			{Key: "Bksp", Description: "Reset"},
			{Key: "Enter", Description: "Submit"},
		}
	}
	return append(hints, nav...)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		return s.handleReply(msg)
	case tea.KeyPressMsg:
		if s.pending || s.done {
			return s, nil
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	s.pending = false
	if msg.err != nil {
		s.hint = proctor.Hint(msg.err)
		return s, nil
	}

	r := msg.reply
	s.hint = r.Hint
	if r.Outcome != nil {
		s.feedback = r.Feedback
		s.feedbackCorrect = r.Outcome.Result.IsCorrect
		if r.Outcome.Status == sess.StatusSwitch {
			s.hint = "Block 1 is complete. Moving on to block 2."
		}
	}
	if r.Done() {
		s.done = true
		next := summary.New(*r.Summary)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	s.setView(r.View)
	return s, nil
}

// setView installs v and rebuilds the cursor list, keeping the cursor while
// the question stays the same.
func (s *SessionScreen) setView(v sess.View) {
	cursor := 0
	if v.QuestionID == s.view.QuestionID && v.Kind == s.view.Kind {
		cursor = s.list.Cursor
	}
	s.view = v

	var choices []components.Choice
	switch v.Type {
	case quiz.TypeSingle, quiz.TypeMulti:
		for _, o := range v.Options {
			choices = append(choices, components.Choice{Label: o.Text, Marked: o.Selected})
		}
	case quiz.TypeMatching:
		for _, it := range v.Left {
			choices = append(choices, components.Choice{Label: it.Label, Marked: it.Pair != ""})
		}
	}
	s.list = components.NewChoiceList(choices, v.Type == quiz.TypeMulti)
	if cursor < len(choices) {
		s.list.Cursor = cursor
	}
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "[":
		return s.apply(sess.Action{Kind: sess.ActionPrevious})
	case "]":
		return s.apply(sess.Action{Kind: sess.ActionNext})
	}
	if s.view.Kind != sess.ViewQuestion {
		return nil
	}

	switch key {
	case "up", "down":
		s.list, _ = s.list.Update(msg)
		return nil
	}

	switch s.view.Type {
	case quiz.TypeSingle:
		return s.singleKey(key)
	case quiz.TypeMulti:
		return s.multiKey(key)
	case quiz.TypeMatching:
		return s.matchingKey(key)
	}
	return nil
}

func (s *SessionScreen) singleKey(key string) tea.Cmd {
	idx, ok := s.optionIndex(key)
	if !ok {
		return nil
	}
	return s.act(sess.ActionChoose, s.view.Options[idx].ID)
}

func (s *SessionScreen) multiKey(key string) tea.Cmd {
	switch key {
	case "backspace":
		return s.act(sess.ActionResetSelection, "")
	case "enter":
		return s.act(sess.ActionSubmitSelection, "")
	case "space":
		key = "enter"
	}
	idx, ok := s.optionIndex(key)
	if !ok {
		return nil
	}
	s.list.Cursor = idx
	return s.act(sess.ActionToggle, s.view.Options[idx].ID)
}

func (s *SessionScreen) matchingKey(key string) tea.Cmd {
	switch key {
	case "backspace":
		return s.act(sess.ActionResetMatching, "")
	case "enter":
		return s.act(sess.ActionSubmitMatching, "")
	case "space":
		if s.list.Cursor < len(s.view.Left) {
			return s.act(sess.ActionSelectLeft, s.view.Left[s.list.Cursor].ID)
		}
		return nil
	}
	for i, it := range s.view.Left {
		if key == it.ID {
			s.list.Cursor = i
			return s.act(sess.ActionSelectLeft, it.ID)
		}
	}
	for _, it := range s.view.Right {
		if strings.EqualFold(key, it.ID) {
			return s.act(sess.ActionAssign, it.ID)
		}
	}
	return nil
}

// optionIndex maps "enter" to the cursor and a digit to its option.
func (s *SessionScreen) optionIndex(key string) (int, bool) {
	if key == "enter" {
		return s.list.Cursor, s.list.Cursor < len(s.view.Options)
	}
	for i, o := range s.view.Options {
		if key == fmt.Sprint(o.Number) {
			return i, true
		}
	}
	return 0, false
}

func (s *SessionScreen) act(kind sess.ActionKind, target string) tea.Cmd {
	return s.apply(sess.Action{Kind: kind, QuestionID: s.view.QuestionID, Target: target})
}

// apply sends a to the service in the background.
func (s *SessionScreen) apply(a sess.Action) tea.Cmd {
	s.pending = true
	s.hint = ""
	if a.Kind != sess.ActionPrevious && a.Kind != sess.ActionNext {
		s.feedback = ""
	}
	svc, userID := s.svc, s.userID
	return func() tea.Msg {
		reply, err := svc.Apply(context.Background(), userID, a)
		return replyMsg{reply: reply, err: err}
	}
}
