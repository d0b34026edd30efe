package quiz

import "fmt"

// Question is one multiple-choice item as served by the assessment API.
// Questions are treated as immutable once fetched.
type Question struct {
	ID         int      `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Correct    int      `json:"correct"`
	Skill      string   `json:"skill"`
	Difficulty string   `json:"difficulty"`
}

// Validate checks the structural invariants the session relies on.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("question %d: need at least 2 options, got %d", q.ID, len(q.Options))
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("question %d: correct index %d out of range [0,%d)", q.ID, q.Correct, len(q.Options))
	}
	if q.Skill == "" || q.Difficulty == "" {
		return fmt.Errorf("question %d: skill and difficulty are required", q.ID)
	}
	return nil
}

// ValidOption reports whether idx is a selectable option for q.
func (q Question) ValidOption(idx int) bool {
	return idx >= 0 && idx < len(q.Options)
}
