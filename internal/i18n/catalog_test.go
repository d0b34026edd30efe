package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_EveryKeyHasHindi(t *testing.T) {
	c := DefaultCatalog()
	for key, byLang := range c.entries {
		_, ok := byLang[Hindi]
		assert.True(t, ok, "key %q is missing a Hindi entry", key)
	}
}

func TestText_FallsBackToEnglish(t *testing.T) {
	c, err := Parse([]byte(`
greeting:
  en: "Hello"
farewell:
  en: "Bye"
  hi: "अलविदा"
`))
	require.NoError(t, err)

	assert.Equal(t, "Hello", c.Text("greeting", Hindi))
	assert.Equal(t, "अलविदा", c.Text("farewell", Hindi))
	assert.Equal(t, "Bye", c.Text("farewell", English))
}

func TestText_UnknownKeyReturnsKey(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, "no.such.key", c.Text("no.such.key", Hindi))
	assert.False(t, c.Has("no.such.key"))
}

func TestLookup_NoFallback(t *testing.T) {
	c, err := Parse([]byte(`only.en: {en: "x"}`))
	require.NoError(t, err)

	_, ok := c.Lookup("only.en", Hindi)
	assert.False(t, ok)
	s, ok := c.Lookup("only.en", English)
	assert.True(t, ok)
	assert.Equal(t, "x", s)
}

func TestParse_RequiresEnglish(t *testing.T) {
	_, err := Parse([]byte(`broken: {hi: "केवल"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("key: [unterminated"))
	require.Error(t, err)
}

func TestFormat_ScoreWordOrder(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, "✅ You scored 3 out of 5", c.Format("result.scored", English, 3, 5))
	assert.Equal(t, "✅ आपने 5 में से 3 अंक प्राप्त किए", c.Format("result.scored", Hindi, 3, 5))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Lang
	}{
		{"en", English},
		{"hi", Hindi},
		{"hi-IN", Hindi},
		{"hi_IN", Hindi},
		{"HI", Hindi},
		{"en-GB", English},
		{"fr", English},
		{"", English},
		{"not a tag!", English},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestToggle(t *testing.T) {
	assert.Equal(t, Hindi, Toggle(English))
	assert.Equal(t, English, Toggle(Hindi))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("hi"))
	assert.False(t, IsSupported("hi-IN"))
	assert.False(t, IsSupported("fr"))
}
