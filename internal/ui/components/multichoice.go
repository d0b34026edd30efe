package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// MultiChoice is an option list with a cursor and a separate selection.
// Moving the cursor never selects; Space or a number key does.
type MultiChoice struct {
	Options  []string
	Cursor   int
	Selected int
}

// NewMultiChoice creates a selector with nothing chosen.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:  options,
		Selected: quiz.NoSelection,
	}
}

// Update handles arrow, space and number keys. Other keys are ignored so the
// owning screen can act on them.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "space", " ":
		m.Selected = m.Cursor
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if idx := int(key[0] - '1'); idx < len(m.Options) {
				m.Cursor = idx
				m.Selected = idx
			}
		}
	}
	return m, nil
}

// HasSelection reports whether an option has been chosen.
func (m MultiChoice) HasSelection() bool {
	return m.Selected != quiz.NoSelection
}

// View renders the options. The cursor row is highlighted; the chosen row
// carries a filled marker.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == m.Selected {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %d) %s", prefix, mark, i+1, opt)

		style := theme.Unselected
		switch {
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
