package quiz

import (
	"errors"
	"fmt"
	"time"
)

// NoSelection marks "no option chosen" in the UI layer.
const NoSelection = -1

var (
	// ErrNoQuestions means there is nothing to show; the session stays NotStarted.
	ErrNoQuestions = errors.New("no questions to show")

	// ErrNoSelection is the user-facing validation error for advancing
	// without choosing an option.
	ErrNoSelection = errors.New("no option selected")

	// ErrInvalidOption means the selected index is outside the current options.
	ErrInvalidOption = errors.New("option index out of range")

	// ErrInvalidTransition means the operation is not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid phase transition")
)

// Phase is the quiz lifecycle state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseComplete
	PhaseAnalysis
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseComplete:
		return "complete"
	case PhaseAnalysis:
		return "analysis"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// AnswerRecord is created once per question, in question order, and never
// mutated afterwards.
type AnswerRecord struct {
	QuestionIndex  int
	QuestionID     int
	SelectedAnswer int
	IsCorrect      bool
	Skill          string
	Difficulty     string

	// TimeTaken is the time spent on this question alone.
	TimeTaken time.Duration

	// Elapsed is the time since quiz start when the answer was recorded.
	Elapsed time.Duration
}

// Session is the mutable record of one quiz attempt. It has a single writer
// (the UI loop) and is not safe for concurrent use.
type Session struct {
	// Questions is replaced wholesale on fetch or language change.
	Questions []Question

	// CurrentIndex always equals len(Answers).
	CurrentIndex int

	// Score always equals the number of correct answers.
	Score int

	Answers []AnswerRecord

	// StartTime is zero until Start is called and after Reset.
	StartTime time.Time

	Phase Phase

	now func() time.Time
}

// New creates an empty session using the wall clock.
func New() *Session {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty session with an injectable clock.
func NewWithClock(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{now: now}
}

// Start begins an attempt over questions. An empty list is rejected and the
// session is left untouched.
func (s *Session) Start(questions []Question) error {
	if s.Phase != PhaseNotStarted {
		return fmt.Errorf("start from %s: %w", s.Phase, ErrInvalidTransition)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	s.Questions = questions
	s.CurrentIndex = 0
	s.Score = 0
	s.Answers = []AnswerRecord{}
	s.StartTime = s.now()
	s.Phase = PhaseInProgress
	return nil
}

// SetQuestions swaps the question list, e.g. after a language change.
// Only allowed before the first answer so an attempt never mixes languages.
func (s *Session) SetQuestions(questions []Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	if len(s.Answers) > 0 {
		return fmt.Errorf("replace questions after %d answers: %w", len(s.Answers), ErrInvalidTransition)
	}
	if s.Phase == PhaseInProgress && len(questions) != len(s.Questions) {
		return fmt.Errorf("replace %d questions with %d mid-attempt: %w",
			len(s.Questions), len(questions), ErrInvalidTransition)
	}
	s.Questions = questions
	return nil
}

// Current returns the question being answered, or false when none is.
func (s *Session) Current() (Question, bool) {
	if s.Phase != PhaseInProgress || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// SubmitAnswer records the answer for the current question and advances.
// Validation failures leave the session unchanged.
func (s *Session) SubmitAnswer(selected int) (AnswerRecord, error) {
	if s.Phase != PhaseInProgress {
		return AnswerRecord{}, fmt.Errorf("submit in %s: %w", s.Phase, ErrInvalidTransition)
	}
	q, ok := s.Current()
	if !ok {
		return AnswerRecord{}, fmt.Errorf("submit past last question: %w", ErrInvalidTransition)
	}
	if selected == NoSelection {
		return AnswerRecord{}, ErrNoSelection
	}
	if !q.ValidOption(selected) {
		return AnswerRecord{}, fmt.Errorf("option %d of %d: %w", selected, len(q.Options), ErrInvalidOption)
	}

	elapsed := s.now().Sub(s.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	var prev time.Duration
	if n := len(s.Answers); n > 0 {
		prev = s.Answers[n-1].Elapsed
	}
	taken := elapsed - prev
	if taken < 0 {
		taken = 0
	}

	rec := AnswerRecord{
		QuestionIndex:  s.CurrentIndex,
		QuestionID:     q.ID,
		SelectedAnswer: selected,
		IsCorrect:      selected == q.Correct,
		Skill:          q.Skill,
		Difficulty:     q.Difficulty,
		TimeTaken:      taken,
		Elapsed:        elapsed,
	}
	s.Answers = append(s.Answers, rec)
	if rec.IsCorrect {
		s.Score++
	}
	s.CurrentIndex++

	if s.IsComplete() {
		s.Phase = PhaseComplete
	}
	return rec, nil
}

// IsComplete reports whether every question has been answered.
func (s *Session) IsComplete() bool {
	return len(s.Questions) > 0 && s.CurrentIndex == len(s.Questions)
}

// OpenAnalysis moves a finished attempt to the analysis view.
func (s *Session) OpenAnalysis() error {
	if s.Phase != PhaseComplete && s.Phase != PhaseAnalysis {
		return fmt.Errorf("open analysis from %s: %w", s.Phase, ErrInvalidTransition)
	}
	s.Phase = PhaseAnalysis
	return nil
}

// Reset clears all progress. Questions are kept so a retake can reuse them.
func (s *Session) Reset() {
	s.CurrentIndex = 0
	s.Score = 0
	s.Answers = []AnswerRecord{}
	s.StartTime = time.Time{}
	s.Phase = PhaseNotStarted
}

// Retake resets and immediately starts again over the same questions.
func (s *Session) Retake() error {
	questions := s.Questions
	s.Reset()
	return s.Start(questions)
}

// Elapsed returns the time since Start, or zero if not started.
func (s *Session) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	d := s.now().Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Progress returns the 1-based number of the current question and the total.
func (s *Session) Progress() (current, total int) {
	total = len(s.Questions)
	current = s.CurrentIndex + 1
	if current > total {
		current = total
	}
	return current, total
}
