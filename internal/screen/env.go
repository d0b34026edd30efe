package screen

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/analysis"
	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/store"
)

// QuizService is the part of the assessment API the quiz flow needs.
// *api.Client satisfies it.
type QuizService interface {
	SubmitProfile(ctx context.Context, p api.Profile) (string, error)
	FetchQuestions(ctx context.Context, lang i18n.Lang) ([]quiz.Question, error)
	SubmitResults(ctx context.Context, sub api.Submission) (*api.Result, error)
}

// Navigator builds the screens of the quiz flow. The app wires it so the
// screen packages never import each other.
type Navigator struct {
	Login    func() Screen
	Quiz     func(s *quiz.Session, userID string) Screen
	Result   func(s *quiz.Session, userID string) Screen
	Analysis func(s *quiz.Session, userID string) Screen
}

// Env is shared by every screen of one program run. The current language
// lives here so a toggle on any screen applies everywhere.
type Env struct {
	API      QuizService
	Prefs    store.PrefRepo
	Attempts store.AttemptRepo // optional
	Advisor  *analysis.Advisor
	Log      *zap.Logger
	Nav      Navigator

	Lang    i18n.Lang
	Timeout time.Duration
}

// T resolves a catalog key in the current language.
func (e *Env) T(key string) string {
	return e.Advisor.Catalog().Text(key, e.Lang)
}

// Tf formats a catalog key in the current language.
func (e *Env) Tf(key string, args ...any) string {
	return e.Advisor.Catalog().Format(key, e.Lang, args...)
}

// ToggleLang switches language and persists the choice. A failed write is
// logged; the switch still applies for this run.
func (e *Env) ToggleLang() {
	e.Lang = i18n.Toggle(e.Lang)
	e.savePref(store.PrefLanguage, string(e.Lang))
}

// RememberUser persists the id the service assigned.
func (e *Env) RememberUser(userID string) {
	e.savePref(store.PrefUserID, userID)
}

func (e *Env) savePref(key, value string) {
	if e.Prefs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.Prefs.Set(ctx, key, value); err != nil {
		e.Logger().Warn("save preference", zap.String("key", key), zap.Error(err))
	}
}

// Context returns a request context bounded by the configured timeout.
func (e *Env) Context() (context.Context, context.CancelFunc) {
	if e.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), e.Timeout)
}

// Logger never returns nil.
func (e *Env) Logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
