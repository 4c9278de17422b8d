package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/attestiz/internal/router"
	"github.com/abhisek/attestiz/internal/screen"
	"github.com/abhisek/attestiz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const clipboardArt = `   ╭──┬────┬──╮
   │  ╰────╯  │
   │ ✓ ────── │
   │ ✓ ────── │
   │ ○ ────── │
   │ ○ ────── │
   ╰──────────╯`

// checkFrames cycle next to the clipboard once the first phase has played.
var checkFrames = []string{"✦", "✧"}

type tickMsg time.Time

// WelcomeScreen shows a splash animation and hands over to the next screen
// on the first key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	tagline      string
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen produced
// by next. tagline is shown under the banner.
func New(tagline string, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		next:    next,
		tagline: tagline,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Secondary).Render(clipboardArt)

	if w.elapsed >= phase1End {
		frame := checkFrames[w.tickCount%len(checkFrames)]
		accent := lipgloss.NewStyle().Foreground(theme.Accent).Render(frame)

		lines := strings.Split(rendered, "\n")
		if len(lines) > 3 {
			lines[2] = lines[2] + "  " + accent
			lines[3] = lines[3] + "  " + accent
		}
		rendered = strings.Join(lines, "\n")
	}

	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		if w.tagline != "" {
			sections = append(sections, lipgloss.NewStyle().
				Foreground(theme.Text).
				Bold(true).
				Render(w.tagline))
			sections = append(sections, "")
		}
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
