package login

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

const (
	focusEmail = iota
	focusPassword
	focusButton
	focusCount
)

// quizReadyMsg carries a registered user and the questions to start with.
type quizReadyMsg struct {
	UserID    string
	Questions []quiz.Question
}

// startFailedMsg is sent when registering or fetching questions fails.
type startFailedMsg struct {
	Err error
}

// LoginScreen collects credentials and starts a quiz attempt.
type LoginScreen struct {
	env      *screen.Env
	email    components.TextInput
	password components.TextInput
	focus    int
	loading  bool
	alertKey string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login screen.
func New(env *screen.Env) *LoginScreen {
	s := &LoginScreen{
		env:      env,
		email:    components.NewTextInput("", "you@example.com", false, 254),
		password: components.NewTextInput("", "••••••••", true, 128),
	}
	s.relabel()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.setFocus(focusEmail)
}

func (s *LoginScreen) Title() string {
	return s.env.T("login.title")
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: s.env.T("hint.next_field")},
		{Key: "Enter", Description: s.env.T("hint.start")},
		{Key: "Ctrl+L", Description: s.env.T("hint.language")},
		{Key: "Ctrl+C", Description: s.env.T("hint.quit")},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizReadyMsg:
		return s.handleReady(msg)

	case startFailedMsg:
		s.loading = false
		s.alertKey = "alert.start_failed"
		s.env.Logger().Warn("start quiz", zap.Error(msg.Err))
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *LoginScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}

	switch msg.String() {
	case "ctrl+l":
		s.env.ToggleLang()
		s.relabel()
		return s, nil
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % focusCount)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + focusCount - 1) % focusCount)
	case "enter":
		if s.focus == focusEmail {
			return s, s.setFocus(focusPassword)
		}
		return s.submit()
	}

	return s.forward(msg)
}

// forward passes input to the focused text field.
func (s *LoginScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case focusEmail:
		s.email, cmd = s.email.Update(msg)
	case focusPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) setFocus(f int) tea.Cmd {
	s.focus = f
	s.email.Blur()
	s.password.Blur()
	switch f {
	case focusEmail:
		return s.email.Focus()
	case focusPassword:
		return s.password.Focus()
	}
	return nil
}

func (s *LoginScreen) relabel() {
	s.email.Label = s.env.T("login.email")
	s.password.Label = s.env.T("login.password")
}

func (s *LoginScreen) submit() (screen.Screen, tea.Cmd) {
	email := s.email.Value()
	if email == "" {
		s.alertKey = "login.email_required"
		return s, s.setFocus(focusEmail)
	}

	s.alertKey = ""
	s.loading = true
	env := s.env
	lang := env.Lang
	return s, func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()

		userID, err := env.API.SubmitProfile(ctx, api.DefaultProfile(email))
		if err != nil {
			return startFailedMsg{Err: err}
		}
		env.RememberUser(userID)

		qs, err := env.API.FetchQuestions(ctx, lang)
		if err != nil {
			return startFailedMsg{Err: err}
		}
		return quizReadyMsg{UserID: userID, Questions: qs}
	}
}

func (s *LoginScreen) handleReady(msg quizReadyMsg) (screen.Screen, tea.Cmd) {
	sess := quiz.New()
	if err := sess.Start(msg.Questions); err != nil {
		s.loading = false
		s.alertKey = "alert.start_failed"
		if !errors.Is(err, quiz.ErrNoQuestions) {
			s.env.Logger().Error("start session", zap.Error(err))
		} else {
			s.env.Logger().Warn("service returned no questions")
		}
		return s, nil
	}

	s.env.Logger().Info("quiz started",
		zap.String("user_id", msg.UserID),
		zap.String("lang", string(s.env.Lang)),
		zap.Int("questions", len(msg.Questions)))

	next := s.env.Nav.Quiz(sess, msg.UserID)
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(layout.Center(cw-6, theme.Title, s.env.T("login.title")))
	b.WriteString("\n")
	b.WriteString(layout.Center(cw-6, theme.Subtitle, s.env.T("login.subtitle")))
	b.WriteString("\n\n")
	b.WriteString(s.email.View())
	b.WriteString("\n\n")
	b.WriteString(s.password.View())
	b.WriteString("\n\n")

	btn := components.NewButton(s.env.T("login.submit"))
	btn.Focused = s.focus == focusButton
	b.WriteString(lipgloss.PlaceHorizontal(cw-6, lipgloss.Center, btn.View()))
	b.WriteString("\n\n")

	b.WriteString(layout.Center(cw-6, theme.Hint, s.env.Tf("login.language", s.env.Lang.Label())))

	if s.loading {
		b.WriteString("\n\n")
		b.WriteString(layout.Center(cw-6, theme.Hint, s.env.T("login.loading")))
	}
	if s.alertKey != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Alert(s.env.T(s.alertKey), cw-6))
	}

	card := components.Card(b.String(), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
