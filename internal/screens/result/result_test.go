package result

import (
	"strings"
	"testing"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/screen/screentest"
)

func finished(t *testing.T, picks ...int) *quiz.Session {
	t.Helper()
	s := screentest.Started()
	for _, p := range picks {
		if _, err := s.SubmitAnswer(p); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestViewShowsScoreAndLevel(t *testing.T) {
	f := screentest.New()
	s := New(f.Env, finished(t, 1, 1, 0), "user_1")

	view := s.View(100, 40)
	for _, want := range []string{"You scored 2 out of 3", "Score: 67%", "Intermediate Level"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestOpenAnalysis(t *testing.T) {
	f := screentest.New()
	sess := finished(t, 1, 1, 1)
	s := New(f.Env, sess, "user_1")

	_, cmd := s.Update(screentest.Key('a'))
	next, ok := screentest.Replaced(cmd)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if stub := next.(*screentest.Stub); stub.Name != "analysis" {
		t.Errorf("navigated to %q", stub.Name)
	}
	if sess.Phase != quiz.PhaseAnalysis {
		t.Errorf("phase = %s, want analysis", sess.Phase)
	}
}

func TestLanguageToggleRelocalizes(t *testing.T) {
	f := screentest.New()
	s := New(f.Env, finished(t, 1, 1, 1), "user_1")

	s.Update(screentest.Ctrl('l'))
	view := s.View(100, 40)
	if !strings.Contains(view, "आपने 3 में से 3 अंक प्राप्त किए") {
		t.Error("score line not localized")
	}
	if !strings.Contains(view, "विशेषज्ञ स्तर") {
		t.Error("level not localized")
	}
}
