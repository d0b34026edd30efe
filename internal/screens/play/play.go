package play

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/store"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
)

// QuizScreen runs one attempt: it shows the current question, records
// answers and submits the finished attempt.
type QuizScreen struct {
	env    *screen.Env
	sess   *quiz.Session
	userID string

	choice components.MultiChoice

	// alertKey is a catalog key so the alert follows language toggles.
	alertKey   string
	fetching   bool
	submitting bool
	submitErr  bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen over a started session.
func New(env *screen.Env, sess *quiz.Session, userID string) *QuizScreen {
	s := &QuizScreen{env: env, sess: sess, userID: userID}
	s.resetChoice()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return s.env.T("quiz.title")
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.submitErr {
		return []layout.KeyHint{
			{Key: "r", Description: s.env.T("hint.retry")},
			{Key: "Ctrl+L", Description: s.env.T("hint.language")},
			{Key: "Ctrl+C", Description: s.env.T("hint.quit")},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: ""},
		{Key: "Space/1-9", Description: s.env.T("hint.choose")},
		{Key: "Enter", Description: s.env.T("hint.next")},
		{Key: "Ctrl+L", Description: s.env.T("hint.language")},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		return s.handleQuestionsLoaded(msg)

	case submittedMsg:
		return s.handleSubmitted(msg)

	case submitFailedMsg:
		s.submitting = false
		s.submitErr = true
		s.alertKey = "alert.submit_failed"
		s.env.Logger().Warn("submit results", zap.String("user_id", s.userID), zap.Error(msg.Err))
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+l" {
		return s.toggleLanguage()
	}
	if s.submitting || s.fetching {
		return s, nil
	}
	if s.sess.Phase == quiz.PhaseComplete {
		if s.submitErr && key == "r" {
			return s.submit()
		}
		return s, nil
	}

	if key == "enter" {
		return s.advance()
	}

	s.choice, _ = s.choice.Update(msg)
	if s.choice.HasSelection() && s.alertKey == "alert.select_answer" {
		s.alertKey = ""
	}
	return s, nil
}

// advance records the selected option and moves on.
func (s *QuizScreen) advance() (screen.Screen, tea.Cmd) {
	_, err := s.sess.SubmitAnswer(s.choice.Selected)
	switch {
	case errors.Is(err, quiz.ErrNoSelection):
		s.alertKey = "alert.select_answer"
		return s, nil
	case err != nil:
		s.env.Logger().Error("record answer", zap.Error(err))
		return s, nil
	}

	s.alertKey = ""
	if s.sess.IsComplete() {
		return s.submit()
	}
	s.resetChoice()
	return s, nil
}

func (s *QuizScreen) resetChoice() {
	q, _ := s.sess.Current()
	s.choice = components.NewMultiChoice(q.Options)
}

// toggleLanguage switches the UI language. Before the first answer the
// questions are fetched again in the new language; after that only the
// surrounding text changes so one attempt never mixes languages.
func (s *QuizScreen) toggleLanguage() (screen.Screen, tea.Cmd) {
	s.env.ToggleLang()
	if len(s.sess.Answers) > 0 || s.sess.Phase != quiz.PhaseInProgress {
		return s, nil
	}

	s.fetching = true
	env := s.env
	lang := env.Lang
	return s, func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		qs, err := env.API.FetchQuestions(ctx, lang)
		return questionsLoadedMsg{Lang: lang, Questions: qs, Err: err}
	}
}

func (s *QuizScreen) handleQuestionsLoaded(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.fetching = false
	if msg.Lang != s.env.Lang {
		// Superseded by another toggle.
		return s, nil
	}
	if msg.Err != nil {
		s.env.Logger().Warn("refetch questions", zap.String("lang", string(msg.Lang)), zap.Error(msg.Err))
		s.alertKey = "alert.start_failed"
		return s, nil
	}
	if err := s.sess.SetQuestions(msg.Questions); err != nil {
		s.env.Logger().Warn("replace questions", zap.String("lang", string(msg.Lang)), zap.Error(err))
		s.alertKey = "alert.start_failed"
		return s, nil
	}

	cursor := s.choice.Cursor
	selected := s.choice.Selected
	s.resetChoice()
	if cursor < len(s.choice.Options) {
		s.choice.Cursor = cursor
		s.choice.Selected = selected
	}
	return s, nil
}

// submit sends the finished attempt. A failure keeps the session complete
// so the learner can retry with r.
func (s *QuizScreen) submit() (screen.Screen, tea.Cmd) {
	s.submitting = true
	s.submitErr = false
	s.alertKey = ""

	env := s.env
	sub := api.NewSubmission(s.userID, s.sess)
	attempt := store.Attempt{
		UserID:  s.userID,
		Lang:    string(env.Lang),
		Score:   s.sess.Score,
		Total:   len(s.sess.Questions),
		Elapsed: s.sess.Elapsed(),
	}
	return s, func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		res, err := env.API.SubmitResults(ctx, sub)
		if err != nil {
			return submitFailedMsg{Err: err}
		}
		saveAttempt(env, attempt, sub, res)
		return submittedMsg{Result: res}
	}
}

// saveAttempt records the attempt locally. History is best effort.
func saveAttempt(env *screen.Env, a store.Attempt, sub api.Submission, res *api.Result) {
	if env.Attempts == nil {
		return
	}
	a.Percentage = res.Percentage
	a.Answers, _ = json.Marshal(sub.Answers)
	a.Result, _ = json.Marshal(res)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := env.Attempts.Save(ctx, &a); err != nil {
		env.Logger().Warn("save attempt", zap.Error(err))
	}
}

func (s *QuizScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	s.env.Logger().Info("results submitted",
		zap.String("user_id", s.userID),
		zap.Int("score", s.sess.Score),
		zap.Int("server_percentage", msg.Result.Percentage))

	next := s.env.Nav.Result(s.sess, s.userID)
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}
