package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/attestiz/internal/ui/theme"
)

// Choice is one line of a ChoiceList.
type Choice struct {
	Label  string
	Marked bool
}

// ChoiceList is a numbered list with a cursor. With Checkboxes set, each
// line shows its mark state.
type ChoiceList struct {
	Choices    []Choice
	Cursor     int
	Checkboxes bool
}

// NewChoiceList creates a list with the cursor on the first line.
func NewChoiceList(choices []Choice, checkboxes bool) ChoiceList {
	return ChoiceList{Choices: choices, Checkboxes: checkboxes}
}

// Update moves the cursor.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Choices)-1 {
			c.Cursor++
		}
	}
	return c, nil
}

// View renders the list.
func (c ChoiceList) View() string {
	var b strings.Builder
	for i, ch := range c.Choices {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		box := ""
		if c.Checkboxes {
			box = "[ ] "
			if ch.Marked {
				box = "[x] "
			}
		}
		line := fmt.Sprintf("%s%s%d) %s", prefix, box, i+1, ch.Label)

		style := theme.Unselected
		switch {
		case i == c.Cursor:
			style = theme.Selected
		case ch.Marked:
			style = theme.Marked
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
