// Package layout composes the header, body and footer of every screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/attestiz/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// CompactWidthThreshold is the width below which matching columns stack.
	CompactWidthThreshold = 100
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth reports whether width calls for the stacked layout.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a larger terminal. The session is untouched
// while the message is shown.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The window is too small.\n\nResize to at least %d x %d to continue.\nCurrent size: %d x %d\n\nYour answers so far are kept.",
			MinWidth, MinHeight, width, height,
		))
}

func bar() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// RenderHeader renders the brand and the screen title on the left and
// status, if any, flush right.
func RenderHeader(title, status string, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("attestiz")
	sep := lipgloss.NewStyle().Foreground(theme.TextDim).Render(" │ ")
	left := brand
	if title != "" {
		left += sep + lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	}

	inner := max(width-4, 0)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Drop the status before the title gets clipped.
		right, gap = "", max(inner-lipgloss.Width(left), 0)
	}
	return bar().Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// RenderFooter renders key hints, wrapping onto further lines when they do
// not fit on one.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	inner := max(width-4, 1)
	var (
		lines []string
		line  string
	)
	for _, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		switch {
		case line == "":
			line = part
		case lipgloss.Width(line)+3+lipgloss.Width(part) > inner:
			lines = append(lines, line)
			line = part
		default:
			line += "   " + part
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return bar().Width(width).Render(strings.Join(lines, "\n"))
}

// RenderFrame stacks header, content and footer. Content taller than the
// space between them is cut at the bottom.
func RenderFrame(header, content, footer string, width, height int) string {
	room := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(room).
		MaxHeight(room).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
