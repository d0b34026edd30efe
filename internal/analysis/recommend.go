package analysis

import "github.com/abhisek/skillcheck/internal/i18n"

const (
	skillKeyPrefix      = "recommend.skill."
	difficultyKeyPrefix = "recommend.difficulty."
	defaultKeySuffix    = "default"
)

// Advisor selects recommendation text from a message catalog. It never
// branches on the language itself; lookups carry it through.
type Advisor struct {
	cat *i18n.Catalog
}

// NewAdvisor returns an Advisor over cat, or over the embedded catalog
// when cat is nil.
func NewAdvisor(cat *i18n.Catalog) *Advisor {
	if cat == nil {
		cat = i18n.DefaultCatalog()
	}
	return &Advisor{cat: cat}
}

// Catalog exposes the underlying catalog for presentation code.
func (a *Advisor) Catalog() *i18n.Catalog { return a.cat }

// ForSkill returns the advice for an exact skill name, or the generic
// advice when the skill is unknown.
func (a *Advisor) ForSkill(name string, lang i18n.Lang) string {
	return a.lookup(skillKeyPrefix, name, lang)
}

// ForDifficulty is ForSkill for difficulty names.
func (a *Advisor) ForDifficulty(name string, lang i18n.Lang) string {
	return a.lookup(difficultyKeyPrefix, name, lang)
}

func (a *Advisor) lookup(prefix, name string, lang i18n.Lang) string {
	key := prefix + name
	if name == "" || name == defaultKeySuffix || !a.cat.Has(key) {
		key = prefix + defaultKeySuffix
	}
	return a.cat.Text(key, lang)
}

// Overall returns the four-bracket advice for the attempt percentage.
func (a *Advisor) Overall(percentage int, lang i18n.Lang) string {
	var key string
	switch {
	case percentage >= 90:
		key = "recommend.overall.excellent"
	case percentage >= 70:
		key = "recommend.overall.good"
	case percentage >= 50:
		key = "recommend.overall.basic"
	default:
		key = "recommend.overall.start"
	}
	return a.cat.Text(key, lang)
}

// ScoreLevel returns the five-bracket level label shown on the result screen.
func (a *Advisor) ScoreLevel(percentage int, lang i18n.Lang) string {
	return a.cat.Text("level."+LevelName(percentage), lang)
}

// LevelName is the language-neutral name of the score bracket.
func LevelName(percentage int) string {
	switch {
	case percentage >= 90:
		return "expert"
	case percentage >= 70:
		return "advanced"
	case percentage >= 50:
		return "intermediate"
	case percentage >= 30:
		return "beginner"
	default:
		return "novice"
	}
}

var defaultAdvisor = NewAdvisor(nil)

// RecommendForSkill uses the embedded catalog.
func RecommendForSkill(name string, lang i18n.Lang) string {
	return defaultAdvisor.ForSkill(name, lang)
}

// RecommendForDifficulty uses the embedded catalog.
func RecommendForDifficulty(name string, lang i18n.Lang) string {
	return defaultAdvisor.ForDifficulty(name, lang)
}

// RecommendOverall uses the embedded catalog.
func RecommendOverall(percentage int, lang i18n.Lang) string {
	return defaultAdvisor.Overall(percentage, lang)
}
