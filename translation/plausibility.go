package translation

import (
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// AutoLanguage asks a provider to detect the source language itself.
const AutoLanguage = "auto"

// IsConcrete reports whether lang names an actual language rather than "auto" or nothing.
func IsConcrete(lang string) bool {
	return lang != "" && lang != AutoLanguage
}

var expectedScripts = map[string][]*unicode.RangeTable{
	"hi": {unicode.Devanagari}, "mr": {unicode.Devanagari}, "ne": {unicode.Devanagari},
	"ar": {unicode.Arabic}, "fa": {unicode.Arabic}, "ur": {unicode.Arabic},
	"ru": {unicode.Cyrillic}, "uk": {unicode.Cyrillic}, "bg": {unicode.Cyrillic}, "sr": {unicode.Cyrillic},
	"zh": {unicode.Han},
	"ja": {unicode.Hiragana, unicode.Katakana, unicode.Han},
	"ko": {unicode.Hangul},
	"el": {unicode.Greek},
	"he": {unicode.Hebrew},
	"th": {unicode.Thai},
	"bn": {unicode.Bengali},
	"ta": {unicode.Tamil},
	"te": {unicode.Telugu},
	"gu": {unicode.Gujarati},
	"pa": {unicode.Gurmukhi},
	"kn": {unicode.Kannada},
	"ml": {unicode.Malayalam},
}

// Plausible is a light sanity check of a provider output: it must differ from the input
// when a real translation was expected, and be written in the script of the target language.
// Unlisted target languages are expected in Latin script.
func Plausible(input, output, from, to string) bool {
	if strings.TrimSpace(output) == "" {
		return false
	}
	if output == input && from != to {
		return false
	}
	script := whatlanggo.DetectScript(output)
	if script == nil {
		// No letters at all (digits, emoji): nothing to compare.
		return true
	}
	expected, ok := expectedScripts[strings.ToLower(to)]
	if !ok {
		expected = []*unicode.RangeTable{unicode.Latin}
	}
	for _, table := range expected {
		if script == table {
			return true
		}
	}
	return false
}

// DetectLanguage returns the ISO 639-1 code of text, or AutoLanguage when unsure.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return AutoLanguage
	}
	if code := info.Lang.Iso6391(); code != "" {
		return code
	}
	return AutoLanguage
}
