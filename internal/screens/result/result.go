package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/analysis"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// ResultScreen shows the score of a finished attempt.
type ResultScreen struct {
	env    *screen.Env
	sess   *quiz.Session
	userID string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a result screen for a completed session.
func New(env *screen.Env, sess *quiz.Session, userID string) *ResultScreen {
	return &ResultScreen{env: env, sess: sess, userID: userID}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return s.env.T("result.title")
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "a", Description: s.env.T("hint.analysis")},
		{Key: "Ctrl+L", Description: s.env.T("hint.language")},
		{Key: "Ctrl+C", Description: s.env.T("hint.quit")},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "ctrl+l":
		s.env.ToggleLang()
	case "a", "enter":
		if err := s.sess.OpenAnalysis(); err != nil {
			s.env.Logger().Error("open analysis", zap.Error(err))
			return s, nil
		}
		next := s.env.Nav.Analysis(s.sess, s.userID)
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	r := s.env.Advisor.BuildReport(s.sess, s.env.Lang)
	cw := components.ContentWidth(width)
	inner := cw - 6

	var b strings.Builder
	b.WriteString(layout.Center(inner, theme.Title, s.env.T("result.title")))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(inner, theme.Body.Bold(true), s.env.Tf("result.scored", r.Score, r.Total)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar(s.env.Tf("result.percentage", r.Percentage), r.Percentage, false, inner)
	bar.Fill = components.TierColor(analysis.TierFor(r.Percentage))
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(layout.Center(inner, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true), r.Level))
	b.WriteString("\n")
	b.WriteString(layout.Center(inner, theme.Hint, s.env.Tf("result.time", formatDuration(s.sess))))

	card := components.Card(b.String(), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// formatDuration renders the time of the last answer as m:ss.
func formatDuration(sess *quiz.Session) string {
	if len(sess.Answers) == 0 {
		return "0:00"
	}
	d := sess.Answers[len(sess.Answers)-1].Elapsed
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
