package readability

import (
	"bufio"
	_ "embed"
	"strings"
)

//go:embed familiar_words.txt
var familiarWordsFile string

var familiarWords = loadFamiliarWords(familiarWordsFile)

func loadFamiliarWords(src string) map[string]struct{} {
	words := make(map[string]struct{}, 600)
	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[strings.ToLower(line)] = struct{}{}
	}
	return words
}

// regular inflections of a familiar word are also familiar.
var inflections = []string{"s", "es", "ed", "d", "ing", "ly", "er", "est"}

// IsFamiliar reports whether word is on the Dale-Chall familiar list,
// directly or as a regular inflection.
func IsFamiliar(word string) bool {
	w := strings.ToLower(strings.TrimSuffix(strings.TrimSuffix(word, "'s"), "’s"))
	if _, ok := familiarWords[w]; ok {
		return true
	}
	for _, suffix := range inflections {
		stem, found := strings.CutSuffix(w, suffix)
		if !found || stem == "" {
			continue
		}
		if _, ok := familiarWords[stem]; ok {
			return true
		}
		// happier, happiest, hurried
		if strings.HasSuffix(stem, "i") {
			if _, ok := familiarWords[strings.TrimSuffix(stem, "i")+"y"]; ok {
				return true
			}
		}
	}
	return false
}
