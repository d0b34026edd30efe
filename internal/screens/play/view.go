package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	inner := cw - 6

	var b strings.Builder

	current, total := s.sess.Progress()
	answered := len(s.sess.Answers)
	progress := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(s.env.Tf("quiz.progress", current, total))
	b.WriteString(progress)
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", components.Ratio(answered, total), false, inner).View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner)))
	b.WriteString("\n\n")

	switch {
	case s.submitting:
		b.WriteString(layout.Center(inner, theme.Hint, s.env.T("quiz.submitting")))
	case s.submitErr:
		b.WriteString(layout.Center(inner, theme.Hint, s.env.T("quiz.retry_hint")))
	default:
		s.renderQuestion(&b, inner)
	}

	if s.alertKey != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Alert(s.env.T(s.alertKey), inner))
	}

	card := components.Card(b.String(), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *QuizScreen) renderQuestion(b *strings.Builder, width int) {
	q, ok := s.sess.Current()
	if !ok {
		return
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Question))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %s", q.Skill, q.Difficulty)))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(s.env.Tf("quiz.select_hint", len(q.Options))))
}
