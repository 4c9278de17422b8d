package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/attestiz/internal/ui/theme"
)

// ContentWidth returns the inner width used for cards, capped so long
// prompts wrap at a readable width.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 90 {
		w = 90
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw).
		Render(content)
}

// Divider renders a horizontal rule of width w.
func Divider(w int) string {
	if w < 0 {
		w = 0
	}
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", w))
}
