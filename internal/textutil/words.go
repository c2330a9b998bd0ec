// Package textutil holds the tokenizers shared by every metric so that word
// and sentence counts agree across sections of a report.
package textutil

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// wordPattern matches alphabetic words with internal apostrophes or hyphens,
// so "don't" and "well-known" are single words.
var wordPattern = regexp.MustCompile(`\p{L}+(?:['’\-]\p{L}+)*`)

// Words returns the words of text in order of appearance, original case.
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// CountWords is len(Words(text)) without keeping the slice.
func CountWords(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}

// CollapseSpace trims s and replaces every run of whitespace with one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Letters counts letters and digits.
func Letters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Round rounds v to the given number of decimal places. NaN and Inf become 0.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Percent is part/total*100 rounded to places, 0 when total is 0.
func Percent(part, total int, places int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, places)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
