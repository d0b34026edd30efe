package analysis

import (
	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/quiz"
)

// Advice pairs a weak group with its recommendation text.
type Advice struct {
	Stat Stat
	Text string
}

// Report is everything the result and analysis screens render.
// It is recomputed from the answers every time; nothing is cached.
type Report struct {
	Lang       i18n.Lang
	Score      int
	Total      int
	Percentage int
	Level      string

	Skills       Breakdown
	Difficulties Breakdown

	SkillAdvice      []Advice
	DifficultyAdvice []Advice
	Overall          string
}

// BuildReport analyses a session's recorded answers in lang.
func (a *Advisor) BuildReport(s *quiz.Session, lang i18n.Lang) Report {
	total := len(s.Questions)
	pct := OverallPercentage(s.Score, total)

	r := Report{
		Lang:         lang,
		Score:        s.Score,
		Total:        total,
		Percentage:   pct,
		Level:        a.ScoreLevel(pct, lang),
		Skills:       ComputeSkillBreakdown(s.Answers),
		Difficulties: ComputeDifficultyBreakdown(s.Answers),
		Overall:      a.Overall(pct, lang),
	}
	for _, st := range r.Skills.Weak() {
		r.SkillAdvice = append(r.SkillAdvice, Advice{Stat: st, Text: a.ForSkill(st.Name, lang)})
	}
	for _, st := range r.Difficulties.Weak() {
		r.DifficultyAdvice = append(r.DifficultyAdvice, Advice{Stat: st, Text: a.ForDifficulty(st.Name, lang)})
	}
	return r
}

// HasGaps reports whether any skill or difficulty needs improvement.
func (r Report) HasGaps() bool {
	return len(r.SkillAdvice) > 0 || len(r.DifficultyAdvice) > 0
}
