package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func sampleQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:         i + 1,
			Question:   "Q",
			Options:    []string{"a", "b", "c", "d"},
			Correct:    i % 4,
			Skill:      "Web Fundamentals",
			Difficulty: "Basic",
		}
	}
	return qs
}

func assertInvariants(t *testing.T, s *Session) {
	t.Helper()
	assert.Equal(t, s.CurrentIndex, len(s.Answers), "len(Answers) must equal CurrentIndex")
	correct := 0
	for i, a := range s.Answers {
		assert.Equal(t, i, a.QuestionIndex)
		if a.IsCorrect {
			correct++
		}
	}
	assert.Equal(t, correct, s.Score, "Score must equal count of correct answers")
}

func TestStart_EmptyQuestions(t *testing.T) {
	s := New()
	err := s.Start(nil)
	require.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, PhaseNotStarted, s.Phase)
	assert.True(t, s.StartTime.IsZero())
}

func TestStart_Twice(t *testing.T) {
	s := New()
	require.NoError(t, s.Start(sampleQuestions(2)))
	err := s.Start(sampleQuestions(2))
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSubmitAnswer_ScoresAndAdvances(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(clock.Now)
	qs := sampleQuestions(5)
	require.NoError(t, s.Start(qs))

	// Correct on 1, 2, 4; wrong on 3, 5.
	picks := []int{qs[0].Correct, qs[1].Correct, (qs[2].Correct + 1) % 4, qs[3].Correct, (qs[4].Correct + 1) % 4}
	for _, p := range picks {
		clock.Advance(2 * time.Second)
		_, err := s.SubmitAnswer(p)
		require.NoError(t, err)
		assertInvariants(t, s)
	}

	assert.Equal(t, 3, s.Score)
	assert.True(t, s.IsComplete())
	assert.Equal(t, PhaseComplete, s.Phase)
}

func TestSubmitAnswer_NoSelectionLeavesStateUnchanged(t *testing.T) {
	s := New()
	require.NoError(t, s.Start(sampleQuestions(3)))

	_, err := s.SubmitAnswer(NoSelection)
	require.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Equal(t, 0, s.Score)
	assert.Empty(t, s.Answers)
}

func TestSubmitAnswer_OutOfRange(t *testing.T) {
	s := New()
	require.NoError(t, s.Start(sampleQuestions(1)))

	_, err := s.SubmitAnswer(4)
	require.ErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, 0, s.CurrentIndex)
}

func TestSubmitAnswer_AfterComplete(t *testing.T) {
	s := New()
	require.NoError(t, s.Start(sampleQuestions(1)))
	_, err := s.SubmitAnswer(0)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(0)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, s.Answers, 1)
}

func TestSubmitAnswer_BeforeStart(t *testing.T) {
	s := New()
	_, err := s.SubmitAnswer(0)
	require.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestSubmitAnswer_Timing(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(clock.Now)
	require.NoError(t, s.Start(sampleQuestions(3)))

	clock.Advance(5 * time.Second)
	first, err := s.SubmitAnswer(0)
	require.NoError(t, err)

	clock.Advance(3 * time.Second)
	second, err := s.SubmitAnswer(0)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, first.TimeTaken)
	assert.Equal(t, 5*time.Second, first.Elapsed)
	assert.Equal(t, 3*time.Second, second.TimeTaken)
	assert.Equal(t, 8*time.Second, second.Elapsed)
}

func TestReset(t *testing.T) {
	tests := []struct {
		name    string
		answers int
	}{
		{"fresh", 0},
		{"midway", 2},
		{"complete", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			require.NoError(t, s.Start(sampleQuestions(4)))
			for i := 0; i < tt.answers; i++ {
				_, err := s.SubmitAnswer(0)
				require.NoError(t, err)
			}

			s.Reset()

			assert.Equal(t, 0, s.Score)
			assert.Equal(t, 0, len(s.Answers))
			assert.Equal(t, 0, s.CurrentIndex)
			assert.True(t, s.StartTime.IsZero())
			assert.Equal(t, PhaseNotStarted, s.Phase)
			assert.Len(t, s.Questions, 4)
		})
	}
}

func TestRetake(t *testing.T) {
	s := New()
	require.NoError(t, s.Start(sampleQuestions(2)))
	_, _ = s.SubmitAnswer(0)
	_, _ = s.SubmitAnswer(1)
	require.NoError(t, s.OpenAnalysis())

	require.NoError(t, s.Retake())
	assert.Equal(t, PhaseInProgress, s.Phase)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.False(t, s.StartTime.IsZero())
}

func TestOpenAnalysis_RequiresComplete(t *testing.T) {
	s := New()
	require.NoError(t, s.Start(sampleQuestions(2)))
	require.ErrorIs(t, s.OpenAnalysis(), ErrInvalidTransition)
}

func TestSetQuestions(t *testing.T) {
	s := New()
	require.NoError(t, s.Start(sampleQuestions(3)))

	hindi := sampleQuestions(3)
	hindi[0].Question = "प्रश्न"
	require.NoError(t, s.SetQuestions(hindi))
	q, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "प्रश्न", q.Question)

	_, err := s.SubmitAnswer(0)
	require.NoError(t, err)
	require.ErrorIs(t, s.SetQuestions(sampleQuestions(3)), ErrInvalidTransition)
	require.ErrorIs(t, s.SetQuestions(nil), ErrNoQuestions)
}

func TestProgress(t *testing.T) {
	s := New()
	require.NoError(t, s.Start(sampleQuestions(2)))
	cur, total := s.Progress()
	assert.Equal(t, 1, cur)
	assert.Equal(t, 2, total)

	_, _ = s.SubmitAnswer(0)
	_, _ = s.SubmitAnswer(0)
	cur, _ = s.Progress()
	assert.Equal(t, 2, cur)
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"ok", Question{ID: 1, Options: []string{"a", "b"}, Correct: 1, Skill: "s", Difficulty: "d"}, false},
		{"one option", Question{ID: 1, Options: []string{"a"}, Correct: 0, Skill: "s", Difficulty: "d"}, true},
		{"correct out of range", Question{ID: 1, Options: []string{"a", "b"}, Correct: 2, Skill: "s", Difficulty: "d"}, true},
		{"negative correct", Question{ID: 1, Options: []string{"a", "b"}, Correct: -1, Skill: "s", Difficulty: "d"}, true},
		{"missing skill", Question{ID: 1, Options: []string{"a", "b"}, Difficulty: "d"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
