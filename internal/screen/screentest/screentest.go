// Package screentest provides fakes for driving screens in tests.
package screentest

import (
	"context"
	"errors"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/analysis"
	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/store"
)

// ErrUnavailable is what the fake service returns when told to fail.
var ErrUnavailable = errors.New("service unavailable")

// Service is an in-memory QuizService.
type Service struct {
	mu sync.Mutex

	Questions map[i18n.Lang][]quiz.Question
	UserID    string

	FailProfile bool
	FailFetch   bool
	FailSubmit  bool

	Submissions []api.Submission
	Fetches     []i18n.Lang
}

func (s *Service) SubmitProfile(_ context.Context, _ api.Profile) (string, error) {
	if s.FailProfile {
		return "", ErrUnavailable
	}
	if s.UserID == "" {
		return "user_test", nil
	}
	return s.UserID, nil
}

func (s *Service) FetchQuestions(_ context.Context, lang i18n.Lang) ([]quiz.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fetches = append(s.Fetches, lang)
	if s.FailFetch {
		return nil, ErrUnavailable
	}
	return s.Questions[lang], nil
}

func (s *Service) SubmitResults(_ context.Context, sub api.Submission) (*api.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSubmit {
		return nil, ErrUnavailable
	}
	s.Submissions = append(s.Submissions, sub)
	score := 0
	for _, a := range sub.Answers {
		if a.SelectedAnswer == 1 {
			score++
		}
	}
	return &api.Result{
		UserID:     sub.UserID,
		Score:      score,
		Total:      len(sub.Answers),
		Percentage: analysis.Percent(score, len(sub.Answers)),
	}, nil
}

// Prefs is an in-memory PrefRepo.
type Prefs struct {
	mu     sync.Mutex
	Values map[string]string
}

func (p *Prefs) Get(_ context.Context, key, def string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.Values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (p *Prefs) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Values == nil {
		p.Values = make(map[string]string)
	}
	p.Values[key] = value
	return nil
}

// Value returns a stored preference or "".
func (p *Prefs) Value(key string) string {
	v, _ := p.Get(context.Background(), key, "")
	return v
}

// Attempts is an in-memory AttemptRepo.
type Attempts struct {
	mu    sync.Mutex
	Saved []store.Attempt
}

func (a *Attempts) Save(_ context.Context, at *store.Attempt) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Saved = append(a.Saved, *at)
	return nil
}

func (a *Attempts) Recent(_ context.Context, limit int) ([]store.Attempt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]store.Attempt, 0, len(a.Saved))
	for i := len(a.Saved) - 1; i >= 0; i-- {
		out = append(out, a.Saved[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stub is a screen that only reports which factory built it.
type Stub struct {
	Name   string
	Sess   *quiz.Session
	UserID string
}

func (s *Stub) Init() tea.Cmd                           { return nil }
func (s *Stub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *Stub) View(int, int) string                    { return s.Name }
func (s *Stub) Title() string                           { return s.Name }

// Questions returns a small bank. Option 1 is always correct.
func Questions(lang i18n.Lang) []quiz.Question {
	text := map[i18n.Lang][3]string{
		i18n.English: {"What is a URL?", "What is phishing?", "What is a VPN?"},
		i18n.Hindi:   {"URL क्या है?", "फिशिंग क्या है?", "VPN क्या है?"},
	}[lang]
	return []quiz.Question{
		{ID: 1, Question: text[0], Options: []string{"A", "B", "C", "D"}, Correct: 1, Skill: "Web Fundamentals", Difficulty: "Basic"},
		{ID: 2, Question: text[1], Options: []string{"A", "B", "C", "D"}, Correct: 1, Skill: "Cybersecurity", Difficulty: "Intermediate"},
		{ID: 3, Question: text[2], Options: []string{"A", "B", "C", "D"}, Correct: 1, Skill: "Cybersecurity", Difficulty: "Advanced"},
	}
}

// Fixture bundles an Env with the fakes behind it.
type Fixture struct {
	Env      *screen.Env
	Service  *Service
	Prefs    *Prefs
	Attempts *Attempts
}

// New builds an English Env whose navigator returns Stubs.
func New() *Fixture {
	f := &Fixture{
		Service: &Service{Questions: map[i18n.Lang][]quiz.Question{
			i18n.English: Questions(i18n.English),
			i18n.Hindi:   Questions(i18n.Hindi),
		}},
		Prefs:    &Prefs{},
		Attempts: &Attempts{},
	}
	f.Env = &screen.Env{
		API:      f.Service,
		Prefs:    f.Prefs,
		Attempts: f.Attempts,
		Advisor:  analysis.NewAdvisor(i18n.DefaultCatalog()),
		Lang:     i18n.English,
		Nav: screen.Navigator{
			Login: func() screen.Screen { return &Stub{Name: "login"} },
			Quiz: func(s *quiz.Session, userID string) screen.Screen {
				return &Stub{Name: "quiz", Sess: s, UserID: userID}
			},
			Result: func(s *quiz.Session, userID string) screen.Screen {
				return &Stub{Name: "result", Sess: s, UserID: userID}
			},
			Analysis: func(s *quiz.Session, userID string) screen.Screen {
				return &Stub{Name: "analysis", Sess: s, UserID: userID}
			},
		},
	}
	return f
}

// Started returns a session already in progress over the English bank.
func Started() *quiz.Session {
	s := quiz.New()
	if err := s.Start(Questions(i18n.English)); err != nil {
		panic(err)
	}
	return s
}

// Key builds a printable key press.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special builds a non-printable key press such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Ctrl builds ctrl+<r>.
func Ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

// Replaced runs cmd and returns the screen it asks the router to show.
func Replaced(cmd tea.Cmd) (screen.Screen, bool) {
	if cmd == nil {
		return nil, false
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		return nil, false
	}
	return msg.Screen, true
}
