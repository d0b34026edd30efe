package server

import (
	"errors"

	"github.com/abhisek/skillcheck/internal/analysis"
	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/quiz"
)

var errNoAnswers = errors.New("no answers submitted")

// Grade scores a submission against the bank. question_id is matched
// against bank ids first, then as a 1-based position. Answers naming an
// unknown question count toward the total but never toward a group or the
// score.
func Grade(b *Bank, sub api.Submission) (api.Result, error) {
	if len(sub.Answers) == 0 {
		return api.Result{}, errNoAnswers
	}

	records := make([]quiz.AnswerRecord, 0, len(sub.Answers))
	score := 0
	for i, a := range sub.Answers {
		q, ok := b.Resolve(a.QuestionID)
		if !ok {
			continue
		}
		correct := a.SelectedAnswer == q.Correct
		if correct {
			score++
		}
		records = append(records, quiz.AnswerRecord{
			QuestionIndex:  i,
			QuestionID:     q.ID,
			SelectedAnswer: a.SelectedAnswer,
			IsCorrect:      correct,
			Skill:          q.Skill,
			Difficulty:     q.Difficulty,
		})
	}

	return api.Result{
		UserID:             sub.UserID,
		Score:              score,
		Total:              len(sub.Answers),
		Percentage:         analysis.Percent(score, len(sub.Answers)),
		SkillAnalysis:      groupStats(analysis.ComputeSkillBreakdown(records)),
		DifficultyAnalysis: groupStats(analysis.ComputeDifficultyBreakdown(records)),
		TimeTaken:          sub.TotalTime,
	}, nil
}

func groupStats(b analysis.Breakdown) map[string]api.GroupStat {
	out := make(map[string]api.GroupStat, len(b))
	for _, s := range b {
		out[s.Name] = api.GroupStat{Correct: s.Correct, Total: s.Total, Percentage: s.Percentage}
	}
	return out
}
