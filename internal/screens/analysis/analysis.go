package analysis

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	report "github.com/abhisek/skillcheck/internal/analysis"
	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// AnalysisScreen shows the skill gap analysis of a finished attempt. The
// report is rebuilt on every render so a language toggle applies at once.
type AnalysisScreen struct {
	env    *screen.Env
	sess   *quiz.Session
	userID string
	scroll int

	// retaking is set while questions for a retake are being fetched.
	retaking bool
}

// retakeQuestionsMsg carries the questions for a retake in lang.
type retakeQuestionsMsg struct {
	Lang      i18n.Lang
	Questions []quiz.Question
	Err       error
}

var _ screen.Screen = (*AnalysisScreen)(nil)
var _ screen.KeyHintProvider = (*AnalysisScreen)(nil)

// New creates the analysis screen.
func New(env *screen.Env, sess *quiz.Session, userID string) *AnalysisScreen {
	return &AnalysisScreen{env: env, sess: sess, userID: userID}
}

func (s *AnalysisScreen) Init() tea.Cmd {
	return nil
}

func (s *AnalysisScreen) Title() string {
	return s.env.T("analysis.title")
}

func (s *AnalysisScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: s.env.T("hint.retake")},
		{Key: "l", Description: s.env.T("hint.login")},
		{Key: "↑↓", Description: ""},
		{Key: "Ctrl+L", Description: s.env.T("hint.language")},
	}
}

func (s *AnalysisScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(retakeQuestionsMsg); ok {
		return s.handleRetakeQuestions(m)
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "ctrl+l":
		s.env.ToggleLang()
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
	case "down", "j":
		s.scroll++
	case "r":
		if s.retaking {
			return s, nil
		}
		s.retaking = true
		return s, s.fetchRetakeQuestions()
	case "l":
		s.sess.Reset()
		next := s.env.Nav.Login()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return s, nil
}

// fetchRetakeQuestions loads the questions in the current language, which may
// differ from the one the finished attempt was played in.
func (s *AnalysisScreen) fetchRetakeQuestions() tea.Cmd {
	env := s.env
	lang := env.Lang
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		qs, err := env.API.FetchQuestions(ctx, lang)
		return retakeQuestionsMsg{Lang: lang, Questions: qs, Err: err}
	}
}

func (s *AnalysisScreen) handleRetakeQuestions(msg retakeQuestionsMsg) (screen.Screen, tea.Cmd) {
	if msg.Lang != s.env.Lang {
		// Language toggled while fetching.
		return s, s.fetchRetakeQuestions()
	}
	s.retaking = false

	var err error
	if msg.Err == nil {
		s.sess.Reset()
		err = s.sess.Start(msg.Questions)
	} else {
		// Offline: retake over the questions already on hand.
		s.env.Logger().Warn("fetch retake questions",
			zap.String("lang", string(msg.Lang)), zap.Error(msg.Err))
		err = s.sess.Retake()
	}
	if err != nil {
		s.env.Logger().Error("retake quiz", zap.Error(err))
		return s, nil
	}
	next := s.env.Nav.Quiz(s.sess, s.userID)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *AnalysisScreen) View(width, height int) string {
	r := s.env.Advisor.BuildReport(s.sess, s.env.Lang)
	cw := components.ContentWidth(width)
	inner := cw - 6

	var b strings.Builder
	b.WriteString(layout.Center(inner, theme.Title, s.env.T("analysis.title")))
	b.WriteString("\n")
	b.WriteString(layout.Center(inner, theme.Subtitle, s.env.Tf("result.scored", r.Score, r.Total)+"  ·  "+r.Level))
	b.WriteString("\n\n")

	b.WriteString(theme.Section.Render(s.env.T("section.skill_performance")))
	b.WriteString("\n")
	s.renderBreakdown(&b, r.Skills, inner, "")

	b.WriteString("\n")
	b.WriteString(theme.Section.Render(s.env.T("section.difficulty_performance")))
	b.WriteString("\n")
	s.renderBreakdown(&b, r.Difficulties, inner, "analysis.difficulty_label")

	b.WriteString("\n")
	b.WriteString(theme.Section.Render(s.env.T("section.recommendations")))
	b.WriteString("\n")
	s.renderRecommendations(&b, r, inner)

	lines := strings.Split(components.Card(b.String(), cw), "\n")
	s.scroll = min(s.scroll, max(len(lines)-height, 0))
	visible := lines[s.scroll:]
	if len(visible) > height && height > 0 {
		visible = visible[:height]
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(visible, "\n"))
}

// renderBreakdown writes one block per group: icon, name, bar, c/t correct.
func (s *AnalysisScreen) renderBreakdown(b *strings.Builder, bd report.Breakdown, width int, labelKey string) {
	for _, st := range bd {
		tier := st.Tier()
		name := st.Name
		if labelKey != "" {
			name = s.env.Tf(labelKey, st.Name)
		}
		b.WriteString(tier.Icon() + " " + lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(name))
		b.WriteString("\n")

		bar := components.NewProgressBar("", st.Percentage, true, width-2)
		bar.Fill = components.TierColor(tier)
		b.WriteString("  " + bar.View())
		b.WriteString("\n")
		b.WriteString("  " + theme.Hint.Render(s.env.Tf("analysis.correct_of", st.Correct, st.Total)))
		b.WriteString("\n")
	}
}

func (s *AnalysisScreen) renderRecommendations(b *strings.Builder, r report.Report, width int) {
	text := lipgloss.NewStyle().Foreground(theme.Text).Width(width - 4)
	heading := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	if !r.HasGaps() {
		b.WriteString(theme.Hint.Render(s.env.T("analysis.no_gaps")))
		b.WriteString("\n")
	}

	if len(r.SkillAdvice) > 0 {
		b.WriteString(heading.Render(s.env.T("section.skills_to_improve")))
		b.WriteString("\n")
		for _, a := range r.SkillAdvice {
			b.WriteString("  • " + lipgloss.NewStyle().Bold(true).Render(a.Stat.Name) + "\n")
			b.WriteString(indent(text.Render(a.Text), "    "))
			b.WriteString("\n")
		}
	}

	if len(r.DifficultyAdvice) > 0 {
		b.WriteString(heading.Render(s.env.T("section.difficulty_focus")))
		b.WriteString("\n")
		for _, a := range r.DifficultyAdvice {
			b.WriteString("  • " + lipgloss.NewStyle().Bold(true).Render(s.env.Tf("analysis.difficulty_label", a.Stat.Name)) + "\n")
			b.WriteString(indent(text.Render(a.Text), "    "))
			b.WriteString("\n")
		}
	}

	b.WriteString(heading.Render(s.env.T("section.next_steps")))
	b.WriteString("\n")
	b.WriteString(indent(text.Render(r.Overall), "  "))
}

func indent(s, prefix string) string {
	var out strings.Builder
	for line := range strings.Lines(s) {
		out.WriteString(prefix + line)
	}
	return out.String()
}
