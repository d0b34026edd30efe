package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// ContentWidth returns the inner width shared by cards on a screen so
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	// border (2) + padding (4)
	return min(max(frameWidth-6, 20), 72)
}

// Card wraps content in a rounded-border box at the given content width.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw - 2).
		Render(content)
}

// Alert renders an inline error line, or nothing for an empty message.
func Alert(msg string, width int) string {
	if msg == "" {
		return ""
	}
	return theme.Alert.
		Width(width).
		Align(lipgloss.Center).
		Render("⚠ " + msg)
}
