// Package profile is the screen where the participant enters a name and
// picks the role to be assessed for.
package profile

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/attestiz/internal/bank"
	"github.com/abhisek/attestiz/internal/proctor"
	"github.com/abhisek/attestiz/internal/router"
	"github.com/abhisek/attestiz/internal/screen"
	"github.com/abhisek/attestiz/internal/session"
	"github.com/abhisek/attestiz/internal/ui/components"
	"github.com/abhisek/attestiz/internal/ui/layout"
	"github.com/abhisek/attestiz/internal/ui/theme"
)

// Service starts sessions. *proctor.Service satisfies it.
type Service interface {
	Roles() []bank.RoleSet
	Start(ctx context.Context, userID int64, profile session.Profile, roleSlug string) (proctor.Reply, error)
}

type stage int

const (
	stageName stage = iota
	stageRole
	stageStarting
)

// startedMsg carries the result of Service.Start.
type startedMsg struct {
	reply proctor.Reply
	err   error
}

// ProfileScreen collects the full name, then the role.
type ProfileScreen struct {
	svc    Service
	userID int64
	next   func(proctor.Reply) screen.Screen

	stage    stage
	input    components.TextInput
	menu     components.Menu
	fullName string
	err      string
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a ProfileScreen for userID. next builds the screen pushed once
// a session has started.
func New(svc Service, userID int64, next func(proctor.Reply) screen.Screen) *ProfileScreen {
	p := &ProfileScreen{
		svc:    svc,
		userID: userID,
		next:   next,
		input:  components.NewTextInput("First and last name", 80),
	}
	var items []components.MenuItem
	for _, r := range svc.Roles() {
		slug := r.Slug
		items = append(items, components.MenuItem{
			Label:  r.Title,
			Detail: fmt.Sprintf("%d role questions", r.BlockTwoCount),
			Action: func() tea.Cmd { return p.start(slug) },
		})
	}
	p.menu = components.NewMenu(items)
	return p
}

func (p *ProfileScreen) Init() tea.Cmd {
	return p.input.Init()
}

func (p *ProfileScreen) Title() string {
	return "Profile"
}

func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	switch p.stage {
	case stageName:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case stageRole:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Start"},
			{Key: "Tab", Description: "Edit name"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		p.stage = stageRole
		if msg.err != nil {
			p.err = proctor.Hint(msg.err)
			return p, nil
		}
		p.err = ""
		next := p.next(msg.reply)
		return p, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}

	if p.stage == stageName {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *ProfileScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch p.stage {
	case stageName:
		if msg.String() == "enter" {
			name, err := proctor.NormalizeName(p.input.Value())
			if err != nil {
				p.input.SetError(proctor.Hint(err))
				return p, nil
			}
			p.fullName = name
			p.stage = stageRole
			return p, nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd

	case stageRole:
		if msg.String() == "tab" {
			p.stage = stageName
			p.err = ""
			return p, p.input.Model.Focus()
		}
		var cmd tea.Cmd
		p.menu, cmd = p.menu.Update(msg)
		return p, cmd
	}
	return p, nil
}

// start asks the service for a new session in the background.
func (p *ProfileScreen) start(slug string) tea.Cmd {
	p.stage = stageStarting
	p.err = ""
	svc, userID, name := p.svc, p.userID, p.fullName
	return func() tea.Msg {
		reply, err := svc.Start(context.Background(), userID, session.Profile{FullName: name}, slug)
		return startedMsg{reply: reply, err: err}
	}
}

func (p *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw).Render("Knowledge assessment"))
	b.WriteString("\n\n")

	switch p.stage {
	case stageName:
		b.WriteString(theme.Body.Render("Please enter your full name:"))
		b.WriteString("\n\n")
		b.WriteString(p.input.View())
	default:
		b.WriteString(theme.Body.Render("Name: "))
		b.WriteString(theme.Marked.Render(p.fullName))
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Render("Choose the position you are assessed for:"))
		b.WriteString("\n\n")
		b.WriteString(p.menu.View())
		if p.stage == stageStarting {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("Preparing questions..."))
		}
		if p.err != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(p.err))
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card(b.String(), cw))
}
