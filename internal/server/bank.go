package server

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/quiz"
)

//go:embed questions.yaml
var defaultBank []byte

// BankQuestion is a question with text in every supported language.
type BankQuestion struct {
	ID         int                    `yaml:"id"`
	Question   map[i18n.Lang]string   `yaml:"question"`
	Options    map[i18n.Lang][]string `yaml:"options"`
	Correct    int                    `yaml:"correct"`
	Skill      string                 `yaml:"skill"`
	Difficulty string                 `yaml:"difficulty"`
}

// Bank is the served question set, in order.
type Bank struct {
	questions []BankQuestion
	byID      map[int]BankQuestion
}

// DefaultBank parses the embedded question bank.
func DefaultBank() (*Bank, error) {
	return ParseBank(defaultBank)
}

// LoadBank reads a bank from a YAML file.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return ParseBank(data)
}

// ParseBank decodes and validates a bank. Every question must be complete in
// every supported language and ids must be unique.
func ParseBank(data []byte) (*Bank, error) {
	var qs []BankQuestion
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	b := &Bank{questions: qs, byID: make(map[int]BankQuestion, len(qs))}
	for _, q := range qs {
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		for _, lang := range i18n.Supported() {
			if err := q.Localize(lang).Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", lang, err)
			}
			if q.Question[lang] == "" {
				return nil, fmt.Errorf("question %d: missing %s text", q.ID, lang)
			}
		}
		if len(q.Options[i18n.English]) != len(q.Options[i18n.Hindi]) {
			return nil, fmt.Errorf("question %d: option counts differ between languages", q.ID)
		}
		b.byID[q.ID] = q
	}
	return b, nil
}

// Localize renders q in lang.
func (q BankQuestion) Localize(lang i18n.Lang) quiz.Question {
	return quiz.Question{
		ID:         q.ID,
		Question:   q.Question[lang],
		Options:    q.Options[lang],
		Correct:    q.Correct,
		Skill:      q.Skill,
		Difficulty: q.Difficulty,
	}
}

// Questions returns the whole bank in lang.
func (b *Bank) Questions(lang i18n.Lang) []quiz.Question {
	out := make([]quiz.Question, len(b.questions))
	for i, q := range b.questions {
		out[i] = q.Localize(lang)
	}
	return out
}

// Lookup finds a question by id.
func (b *Bank) Lookup(id int) (BankQuestion, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Resolve finds a question by id, falling back to its 1-based position for
// clients that number questions instead of echoing ids.
func (b *Bank) Resolve(ref int) (BankQuestion, bool) {
	if q, ok := b.byID[ref]; ok {
		return q, true
	}
	if ref >= 1 && ref <= len(b.questions) {
		return b.questions[ref-1], true
	}
	return BankQuestion{}, false
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}
