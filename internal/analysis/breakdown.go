package analysis

import "github.com/abhisek/skillcheck/internal/quiz"

// Stat is the aggregate for one skill or difficulty group.
type Stat struct {
	Name       string `json:"-"`
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// Tier classifies the stat's percentage.
func (s Stat) Tier() Tier {
	return TierFor(s.Percentage)
}

// Breakdown is a list of stats in first-seen order. Names are unique.
type Breakdown []Stat

// Get returns the stat for name.
func (b Breakdown) Get(name string) (Stat, bool) {
	for _, s := range b {
		if s.Name == name {
			return s, true
		}
	}
	return Stat{}, false
}

// TotalAnswers sums Total across all groups.
func (b Breakdown) TotalAnswers() int {
	n := 0
	for _, s := range b {
		n += s.Total
	}
	return n
}

// Weak returns the groups that need improvement, preserving order.
func (b Breakdown) Weak() Breakdown {
	var out Breakdown
	for _, s := range b {
		if NeedsImprovement(s.Percentage) {
			out = append(out, s)
		}
	}
	return out
}

// Map returns the breakdown keyed by name, the shape the API uses on the wire.
func (b Breakdown) Map() map[string]Stat {
	m := make(map[string]Stat, len(b))
	for _, s := range b {
		m[s.Name] = s
	}
	return m
}

// ComputeSkillBreakdown groups answers by skill.
func ComputeSkillBreakdown(answers []quiz.AnswerRecord) Breakdown {
	return compute(answers, func(a quiz.AnswerRecord) string { return a.Skill })
}

// ComputeDifficultyBreakdown groups answers by difficulty.
func ComputeDifficultyBreakdown(answers []quiz.AnswerRecord) Breakdown {
	return compute(answers, func(a quiz.AnswerRecord) string { return a.Difficulty })
}

func compute(answers []quiz.AnswerRecord, key func(quiz.AnswerRecord) string) Breakdown {
	index := make(map[string]int)
	var out Breakdown
	for _, a := range answers {
		k := key(a)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Stat{Name: k})
		}
		out[i].Total++
		if a.IsCorrect {
			out[i].Correct++
		}
	}
	for i := range out {
		out[i].Percentage = Percent(out[i].Correct, out[i].Total)
	}
	return out
}

// Percent returns round(100*correct/total) with halves rounded up.
// A zero total yields 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}

// OverallPercentage is the attempt score as a percentage of all questions.
func OverallPercentage(score, total int) int {
	return Percent(score, total)
}
