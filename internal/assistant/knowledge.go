package assistant

import (
	_ "embed"
	"sort"
	"strings"
	"unicode"
)

//go:embed knowledge.md
var knowledgeDoc string

// Section is one headed block of the knowledge base.
type Section struct {
	Title string
	Body  string
	terms map[string]struct{}
}

// ParseKnowledge splits a markdown document on "## " headings. Text before
// the first heading is ignored.
func ParseKnowledge(doc string) []Section {
	var (
		out  []Section
		cur  *Section
		body strings.Builder
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Body = strings.TrimSpace(body.String())
		cur.terms = termSet(cur.Title + " " + cur.Body)
		out = append(out, *cur)
		body.Reset()
	}
	for line := range strings.Lines(doc) {
		if title, ok := strings.CutPrefix(line, "## "); ok {
			flush()
			cur = &Section{Title: strings.TrimSpace(title)}
			continue
		}
		if cur != nil {
			body.WriteString(line)
		}
	}
	flush()
	return out
}

// Retrieve returns up to k sections sharing the most terms with query, best
// first. Sections with no overlap are never returned.
func Retrieve(sections []Section, query string, k int) []Section {
	q := termSet(query)
	type scored struct {
		idx   int
		score int
	}
	var hits []scored
	for i, s := range sections {
		n := 0
		for t := range q {
			if _, ok := s.terms[t]; ok {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, scored{i, n})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if len(hits) > k {
		hits = hits[:k]
	}
	out := make([]Section, len(hits))
	for i, h := range hits {
		out[i] = sections[h.idx]
	}
	return out
}

// termSet lowercases text and keeps words of three or more letters or digits.
func termSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len([]rune(w)) < 3 || stopWords[w] {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

var stopWords = map[string]bool{
	"the": true, "and": true, "what": true, "how": true, "why": true, "does": true,
	"are": true, "for": true, "you": true, "your": true, "with": true, "that": true,
	"this": true, "can": true, "from": true, "into": true, "about": true, "should": true,
}
