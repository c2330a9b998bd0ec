package readability

import (
	"regexp"
	"strings"
	"unicode"
)

// SyllableCounter returns the syllable count of a single word.
type SyllableCounter interface {
	Syllables(word string) int
}

// Lookup is an exact pronunciation source such as a CMU dictionary.
type Lookup interface {
	Syllables(word string) (int, bool)
}

var (
	silentEnding = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	leadingY     = regexp.MustCompile(`^y`)
	vowelGroup   = regexp.MustCompile(`[aeiouy]{1,2}`)
)

// Heuristic counts vowel groups after dropping common silent endings.
type Heuristic struct{}

func (Heuristic) Syllables(word string) int {
	return CountSyllables(word)
}

// CountSyllables is the vowel-group estimate used when no dictionary entry exists.
// Words of three letters or fewer count as one syllable.
func CountSyllables(word string) int {
	w := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, word)
	if w == "" {
		return 0
	}
	if len([]rune(w)) <= 3 {
		return 1
	}

	w = silentEnding.ReplaceAllString(w, "")
	w = leadingY.ReplaceAllString(w, "")
	if n := len(vowelGroup.FindAllString(w, -1)); n > 0 {
		return n
	}
	return 1
}

// DictionaryCounter prefers dictionary entries and falls back to the heuristic.
type DictionaryCounter struct {
	Dict     Lookup
	Fallback SyllableCounter
}

func (c DictionaryCounter) Syllables(word string) int {
	if c.Dict != nil {
		if n, ok := c.Dict.Syllables(strings.ToLower(word)); ok && n > 0 {
			return n
		}
	}
	if c.Fallback != nil {
		return c.Fallback.Syllables(word)
	}
	return CountSyllables(word)
}
