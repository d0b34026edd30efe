package i18n

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var embeddedMessages []byte

// Catalog maps (message key, language) to display text.
// It is immutable after construction and safe for concurrent use.
type Catalog struct {
	entries map[string]map[Lang]string
}

// Parse builds a Catalog from YAML shaped as `key: {en: ..., hi: ...}`.
// Every key must carry an English entry since English is the fallback.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	entries := make(map[string]map[Lang]string, len(raw))
	for key, byLang := range raw {
		if _, ok := byLang[string(English)]; !ok {
			return nil, fmt.Errorf("catalog key %q has no %q entry", key, English)
		}
		m := make(map[Lang]string, len(byLang))
		for code, text := range byLang {
			m[Lang(code)] = text
		}
		entries[key] = m
	}
	return &Catalog{entries: entries}, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(embeddedMessages)
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded catalog: %v", err))
	}
	return c
})

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// Has reports whether key exists in any language.
func (c *Catalog) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Lookup returns the exact (key, lang) entry without any fallback.
func (c *Catalog) Lookup(key string, lang Lang) (string, bool) {
	byLang, ok := c.entries[key]
	if !ok {
		return "", false
	}
	s, ok := byLang[lang]
	return s, ok
}

// Text resolves key in lang, falling back to English and then to the key
// itself so callers always get something printable.
func (c *Catalog) Text(key string, lang Lang) string {
	if s, ok := c.Lookup(key, lang); ok {
		return s
	}
	if s, ok := c.Lookup(key, English); ok {
		return s
	}
	return key
}

// Format is Text followed by fmt.Sprintf.
func (c *Catalog) Format(key string, lang Lang, args ...any) string {
	return fmt.Sprintf(c.Text(key, lang), args...)
}
