package analysis

// Tier is the strength classification shared by skills and difficulties.
type Tier int

const (
	TierWeak Tier = iota
	TierModerate
	TierStrong
)

const (
	strongThreshold   = 70
	moderateThreshold = 50
)

// TierFor classifies a percentage: >=70 strong, >=50 moderate, else weak.
func TierFor(percentage int) Tier {
	switch {
	case percentage >= strongThreshold:
		return TierStrong
	case percentage >= moderateThreshold:
		return TierModerate
	default:
		return TierWeak
	}
}

// NeedsImprovement is true exactly when the tier is weak. Both the tier
// label and the recommendation filter go through TierFor.
func NeedsImprovement(percentage int) bool {
	return TierFor(percentage) == TierWeak
}

func (t Tier) String() string {
	switch t {
	case TierStrong:
		return "strong"
	case TierModerate:
		return "moderate"
	default:
		return "weak"
	}
}

// Icon is the status glyph shown next to a stat.
func (t Tier) Icon() string {
	switch t {
	case TierStrong:
		return "✅"
	case TierModerate:
		return "⚠️"
	default:
		return "❌"
	}
}
