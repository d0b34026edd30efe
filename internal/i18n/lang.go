package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported UI language code.
type Lang string

const (
	English Lang = "en"
	Hindi   Lang = "hi"
)

// Default is used whenever no preference is stored or a code is unusable.
const Default = English

var supported = []Lang{English, Hindi}

// English must stay first: the matcher falls back to the first tag.
var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Hindi,
})

// Supported returns the languages the catalog ships translations for.
func Supported() []Lang {
	out := make([]Lang, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether code names a supported language exactly.
func IsSupported(code string) bool {
	for _, l := range supported {
		if string(l) == code {
			return true
		}
	}
	return false
}

// Normalize maps an arbitrary language code ("hi-IN", "en_US", "HI")
// onto a supported language. Anything unrecognised becomes Default.
func Normalize(code string) Lang {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return Default
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// Toggle returns the other language. Used by the language switch key.
func Toggle(l Lang) Lang {
	if l == Hindi {
		return English
	}
	return Hindi
}

// Label is the language name written in that language.
func (l Lang) Label() string {
	switch l {
	case Hindi:
		return "हिन्दी"
	default:
		return "English"
	}
}

func (l Lang) String() string { return string(l) }
