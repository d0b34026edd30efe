package login

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/screen/screentest"
	"github.com/abhisek/skillcheck/internal/store"
)

var enter = screentest.Special(tea.KeyEnter)

func typeText(s *LoginScreen, text string) {
	for _, r := range text {
		s.Update(screentest.Key(r))
	}
}

func newScreen() (*LoginScreen, *screentest.Fixture) {
	f := screentest.New()
	s := New(f.Env)
	s.Init()
	return s, f
}

func TestEmptyEmailIsRejected(t *testing.T) {
	s, f := newScreen()

	s.Update(screentest.Special(tea.KeyTab))
	s.Update(screentest.Special(tea.KeyTab))
	if s.focus != focusButton {
		t.Fatalf("focus = %d, want button", s.focus)
	}
	s.Update(enter)
	if s.alertKey != "login.email_required" {
		t.Errorf("alertKey = %q", s.alertKey)
	}
	if s.loading {
		t.Error("must not start loading")
	}
	if s.focus != focusEmail {
		t.Error("focus should return to the email field")
	}
	if len(f.Service.Fetches) != 0 {
		t.Error("no request expected")
	}
}

func TestSubmitStartsQuiz(t *testing.T) {
	s, f := newScreen()

	typeText(s, "asha@example.com")
	s.Update(enter) // to password
	if s.focus != focusPassword {
		t.Fatalf("focus = %d, want password", s.focus)
	}
	typeText(s, "secret")
	_, cmd := s.Update(enter)
	if !s.loading {
		t.Error("expected loading state")
	}
	if cmd == nil {
		t.Fatal("expected start command")
	}

	msg := cmd()
	ready, ok := msg.(quizReadyMsg)
	if !ok {
		t.Fatalf("expected quizReadyMsg, got %T", msg)
	}
	if ready.UserID != "user_test" || len(ready.Questions) != 3 {
		t.Errorf("unexpected ready msg %+v", ready)
	}
	if got := f.Prefs.Value(store.PrefUserID); got != "user_test" {
		t.Errorf("stored user id %q", got)
	}
	if len(f.Service.Fetches) != 1 || f.Service.Fetches[0] != i18n.English {
		t.Errorf("fetches = %v", f.Service.Fetches)
	}

	_, cmd = s.Update(msg)
	next, ok := screentest.Replaced(cmd)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	stub := next.(*screentest.Stub)
	if stub.Name != "quiz" || stub.UserID != "user_test" {
		t.Errorf("navigated to %+v", stub)
	}
	if stub.Sess.Phase != quiz.PhaseInProgress {
		t.Errorf("session phase = %s", stub.Sess.Phase)
	}
}

func TestStartFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*screentest.Service)
	}{
		{"profile fails", func(s *screentest.Service) { s.FailProfile = true }},
		{"fetch fails", func(s *screentest.Service) { s.FailFetch = true }},
		{"no questions", func(s *screentest.Service) { s.Questions = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, f := newScreen()
			tt.setup(f.Service)

			typeText(s, "a@b.c")
			s.Update(enter)
			_, cmd := s.Update(enter)
			_, next := s.Update(cmd())

			if _, ok := screentest.Replaced(next); ok {
				t.Error("must not navigate on failure")
			}
			if s.loading {
				t.Error("loading should be cleared")
			}
			if s.alertKey != "alert.start_failed" {
				t.Errorf("alertKey = %q", s.alertKey)
			}
			if !strings.Contains(s.View(100, 40), "Error starting quiz") {
				t.Error("alert not rendered")
			}
		})
	}
}

func TestLanguageToggle(t *testing.T) {
	s, f := newScreen()

	s.Update(screentest.Ctrl('l'))
	if s.env.Lang != i18n.Hindi {
		t.Fatalf("lang = %s", s.env.Lang)
	}
	if got := f.Prefs.Value(store.PrefLanguage); got != "hi" {
		t.Errorf("stored language %q", got)
	}
	if s.email.Label != "ईमेल" {
		t.Errorf("email label = %q", s.email.Label)
	}
	if !strings.Contains(s.View(100, 40), "डिजिटल कौशल मूल्यांकन") {
		t.Error("title not localized")
	}

	s.Update(screentest.Ctrl('l'))
	if s.env.Lang != i18n.English {
		t.Error("second toggle should return to English")
	}
}
