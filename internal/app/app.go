// Package app is the terminal transport: a Bubble Tea program that runs an
// assessment for the local user.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/attestiz/internal/proctor"
	"github.com/abhisek/attestiz/internal/router"
	"github.com/abhisek/attestiz/internal/screen"
	"github.com/abhisek/attestiz/internal/screens/profile"
	"github.com/abhisek/attestiz/internal/screens/session"
	"github.com/abhisek/attestiz/internal/screens/summary"
	"github.com/abhisek/attestiz/internal/screens/welcome"
	"github.com/abhisek/attestiz/internal/ui/layout"
)

// Options configures the terminal app.
type Options struct {
	Service *proctor.Service
	// UserID identifies the local participant to the service.
	UserID int64
	// Tagline is shown on the splash screen.
	Tagline string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the splash screen.
func newAppModel(opts Options) AppModel {
	started := func(r proctor.Reply) screen.Screen {
		if r.Done() {
			return summary.New(*r.Summary)
		}
		return session.New(opts.Service, opts.UserID, r)
	}
	splash := welcome.New(opts.Tagline, func() screen.Screen {
		return profile.New(opts.Service, opts.UserID, started)
	})
	return AppModel{
		router: router.New(splash),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits. An unfinished
// assessment is abandoned on exit.
func Run(opts Options) error {
	m := newAppModel(opts)
	_, err := tea.NewProgram(m).Run()
	m.router.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
