package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/analysis"
	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	analysisscreen "github.com/abhisek/skillcheck/internal/screens/analysis"
	"github.com/abhisek/skillcheck/internal/screens/login"
	"github.com/abhisek/skillcheck/internal/screens/play"
	"github.com/abhisek/skillcheck/internal/screens/result"
	"github.com/abhisek/skillcheck/internal/store"
	"github.com/abhisek/skillcheck/internal/ui/layout"
)

// Options holds the dependencies needed to run the TUI.
type Options struct {
	API      screen.QuizService
	Prefs    store.PrefRepo
	Attempts store.AttemptRepo
	Advisor  *analysis.Advisor
	Logger   *zap.Logger

	// Lang overrides the stored language preference when set.
	Lang    i18n.Lang
	Timeout time.Duration
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	env    *screen.Env
	width  int
	height int
}

// NewEnv resolves the starting language and wires the screen factories.
func NewEnv(opts Options) *screen.Env {
	env := &screen.Env{
		API:      opts.API,
		Prefs:    opts.Prefs,
		Attempts: opts.Attempts,
		Advisor:  opts.Advisor,
		Log:      opts.Logger,
		Lang:     startLang(opts),
		Timeout:  opts.Timeout,
	}
	if env.Advisor == nil {
		env.Advisor = analysis.NewAdvisor(i18n.DefaultCatalog())
	}
	env.Nav = screen.Navigator{
		Login: func() screen.Screen { return login.New(env) },
		Quiz: func(s *quiz.Session, userID string) screen.Screen {
			return play.New(env, s, userID)
		},
		Result: func(s *quiz.Session, userID string) screen.Screen {
			return result.New(env, s, userID)
		},
		Analysis: func(s *quiz.Session, userID string) screen.Screen {
			return analysisscreen.New(env, s, userID)
		},
	}
	return env
}

// startLang prefers an explicit override, then the stored preference.
// A missing or unreadable preference falls back to the default language.
func startLang(opts Options) i18n.Lang {
	if opts.Lang != "" {
		return i18n.Normalize(string(opts.Lang))
	}
	if opts.Prefs == nil {
		return i18n.Default
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	code, err := opts.Prefs.Get(ctx, store.PrefLanguage, string(i18n.Default))
	if err != nil && opts.Logger != nil {
		opts.Logger.Warn("read language preference", zap.Error(err))
	}
	return i18n.Normalize(code)
}

// NewAppModel creates the root model starting at the login screen.
func NewAppModel(env *screen.Env) AppModel {
	return AppModel{
		router: router.New(env.Nav.Login()),
		env:    env,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.KeyHintProvider); ok {
			footerHints = p.KeyHints()
		}
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: m.env.T("hint.quit")},
		}
	}

	header := layout.RenderHeader(m.env.T("app.name"), title, m.env.Lang.Label(), m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.API == nil {
		return fmt.Errorf("app: API client is required")
	}
	p := tea.NewProgram(NewAppModel(NewEnv(opts)))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
