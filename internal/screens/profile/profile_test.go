package profile

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/attestiz/internal/bank"
	"github.com/abhisek/attestiz/internal/proctor"
	"github.com/abhisek/attestiz/internal/quiz"
	"github.com/abhisek/attestiz/internal/router"
	"github.com/abhisek/attestiz/internal/screen"
	"github.com/abhisek/attestiz/internal/session"
)

type startCall struct {
	userID  int64
	profile session.Profile
	slug    string
}

type fakeService struct {
	calls []startCall
	err   error
}

func (f *fakeService) Roles() []bank.RoleSet {
	return []bank.RoleSet{
		{Slug: "backend", Title: "Backend", BlockTwoCount: 15},
		{Slug: "qa", Title: "QA", BlockTwoCount: 10},
	}
}

func (f *fakeService) Start(_ context.Context, userID int64, p session.Profile, slug string) (proctor.Reply, error) {
	f.calls = append(f.calls, startCall{userID: userID, profile: p, slug: slug})
	if f.err != nil {
		return proctor.Reply{}, f.err
	}
	return proctor.Reply{View: session.View{Kind: session.ViewQuestion, Prompt: "first"}}, nil
}

type stubScreen struct{ reply proctor.Reply }

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "session" }
func (s *stubScreen) Title() string                          { return "Session" }

func newTestProfile(svc *fakeService) *ProfileScreen {
	return New(svc, 42, func(r proctor.Reply) screen.Screen { return &stubScreen{reply: r} })
}

func press(p *ProfileScreen, key rune) tea.Cmd {
	_, cmd := p.Update(tea.KeyPressMsg{Code: key})
	return cmd
}

func TestNameRequiresTwoWords(t *testing.T) {
	p := newTestProfile(&fakeService{})
	p.input.SetValue("Ivan")

	press(p, tea.KeyEnter)

	assert.Equal(t, stageName, p.stage)
	assert.Equal(t, proctor.Hint(proctor.ErrInvalidName), p.input.Err())
	assert.Contains(t, p.View(100, 30), "first and last name")
}

func TestStartSessionPushesNextScreen(t *testing.T) {
	svc := &fakeService{}
	p := newTestProfile(svc)
	p.input.SetValue("  Ivan   Petrov ")

	press(p, tea.KeyEnter)
	require.Equal(t, stageRole, p.stage)
	assert.Equal(t, "Ivan Petrov", p.fullName)
	assert.Contains(t, p.View(100, 30), "QA")

	press(p, tea.KeyDown)
	cmd := press(p, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, stageStarting, p.stage)

	_, cmd = p.Update(cmd())
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "first", push.Screen.(*stubScreen).reply.View.Prompt)

	require.Len(t, svc.calls, 1)
	assert.Equal(t, startCall{userID: 42, profile: session.Profile{FullName: "Ivan Petrov"}, slug: "qa"}, svc.calls[0])
	assert.Equal(t, stageRole, p.stage)
}

func TestStartErrorShowsHint(t *testing.T) {
	svc := &fakeService{err: errors.Join(errors.New("lookup"), quiz.ErrUnknownRole)}
	p := newTestProfile(svc)
	p.input.SetValue("Ivan Petrov")
	press(p, tea.KeyEnter)

	cmd := press(p, tea.KeyEnter)
	require.NotNil(t, cmd)
	_, cmd = p.Update(cmd())

	assert.Nil(t, cmd)
	assert.Equal(t, stageRole, p.stage)
	assert.Contains(t, p.View(100, 30), proctor.Hint(quiz.ErrUnknownRole))
}

func TestTabReturnsToName(t *testing.T) {
	p := newTestProfile(&fakeService{})
	p.input.SetValue("Ivan Petrov")
	press(p, tea.KeyEnter)

	press(p, tea.KeyTab)

	assert.Equal(t, stageName, p.stage)
	assert.Equal(t, "Ivan Petrov", p.input.Value())
}
