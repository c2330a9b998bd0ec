package readability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountSyllables(t *testing.T) {
	tests := map[string]int{
		"":            0,
		"a":           1,
		"cat":         1,
		"Cat":         1,
		"don't":       1,
		"make":        1,
		"jumped":      1,
		"table":       2,
		"simple":      2,
		"children":    2,
		"education":   4,
		"readability": 5,
		"123":         0,
	}
	for word, want := range tests {
		assert.Equal(t, want, CountSyllables(word), word)
	}
}

type fakeLookup map[string]int

func (f fakeLookup) Syllables(word string) (int, bool) {
	n, ok := f[word]
	return n, ok
}

func TestDictionaryCounter(t *testing.T) {
	c := DictionaryCounter{Dict: fakeLookup{"beautiful": 3, "zero": 0}, Fallback: Heuristic{}}

	assert.Equal(t, 3, c.Syllables("Beautiful"))
	assert.Equal(t, 2, c.Syllables("zero"), "zero-count entries fall back")
	assert.Equal(t, 2, c.Syllables("simple"))
	assert.Equal(t, 2, DictionaryCounter{}.Syllables("table"))
}

func TestWithDictionary(t *testing.T) {
	plain := NewEngine().Stats("beautiful", 1)
	dict := NewEngine(WithDictionary(fakeLookup{"beautiful": 3})).Stats("beautiful", 1)

	assert.Equal(t, 4, plain.Syllables)
	assert.Equal(t, 3, dict.Syllables)
}

func TestIsFamiliar(t *testing.T) {
	for _, w := range []string{"children", "Farmers", "happier", "hurried", "mother's", "listening", "Monday"} {
		assert.True(t, IsFamiliar(w), w)
	}
	for _, w := range []string{"apparatus", "readability", "s", ""} {
		assert.False(t, IsFamiliar(w), w)
	}
}
