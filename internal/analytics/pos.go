package analytics

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"

	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/textutil"
)

// Part-of-speech categories in report order.
const (
	Nouns        = "nouns"
	Verbs        = "verbs"
	Adjectives   = "adjectives"
	Adverbs      = "adverbs"
	Prepositions = "prepositions"
	Pronouns     = "pronouns"
	Conjunctions = "conjunctions"
	Articles     = "articles"
	Other        = "other"
)

var posCategories = []string{Nouns, Verbs, Adjectives, Adverbs, Prepositions, Pronouns, Conjunctions, Articles}

var posColors = map[string]string{
	Nouns:        "#FF6B6B",
	Verbs:        "#4ECDC4",
	Adjectives:   "#45B7D1",
	Adverbs:      "#96CEB4",
	Other:        "#FFEAA7",
	Prepositions: "#DDA0DD",
	Pronouns:     "#F7DC6F",
	Conjunctions: "#BB8FCE",
	Articles:     "#85C1E9",
}

// chartCategories is how many categories get their own chart slice.
const chartCategories = 4

// Token is a word with its Penn Treebank tag.
type Token struct {
	Text string
	Tag  string
}

type Tagger interface {
	Tag(text string) ([]Token, error)
}

// ProseTagger tags with prose's averaged perceptron model.
type ProseTagger struct{}

func (ProseTagger) Tag(text string) (tokens []Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens, err = nil, fmt.Errorf("prose tagger panic: %v", r)
		}
	}()

	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	for _, tok := range doc.Tokens() {
		tokens = append(tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}
	return tokens, nil
}

// Category maps a Penn Treebank tag to a report category, or "" when the tag
// belongs to none of them.
func Category(tag string) string {
	switch tag {
	case "NN", "NNS", "NNP", "NNPS":
		return Nouns
	case "MD":
		return Verbs
	case "RB", "RBR", "RBS", "WRB":
		return Adverbs
	case "IN", "TO":
		return Prepositions
	case "PRP", "PRP$", "WP", "WP$":
		return Pronouns
	case "CC":
		return Conjunctions
	case "DT", "PDT", "WDT":
		return Articles
	}
	switch {
	case strings.HasPrefix(tag, "VB"):
		return Verbs
	case strings.HasPrefix(tag, "JJ"):
		return Adjectives
	}
	return ""
}

// PartsOfSpeech tags text and reports each category as a share of
// totalWords. Whatever the categories do not cover is "other", never
// negative since tagger tokens and tokenizer words need not agree.
func PartsOfSpeech(tagger Tagger, text string, totalWords int) (models.PartsOfSpeech, error) {
	counts := make(map[string]int, len(posCategories))
	if strings.TrimSpace(text) != "" {
		tokens, err := tagger.Tag(text)
		if err != nil {
			return emptyPartsOfSpeech(totalWords), err
		}
		for _, tok := range tokens {
			if !hasLetter(tok.Text) {
				continue
			}
			if c := Category(tok.Tag); c != "" {
				counts[c]++
			}
		}
	}
	return summarizePOS(counts, totalWords), nil
}

func emptyPartsOfSpeech(totalWords int) models.PartsOfSpeech {
	return summarizePOS(map[string]int{}, totalWords)
}

func summarizePOS(counts map[string]int, totalWords int) models.PartsOfSpeech {
	pos := models.PartsOfSpeech{
		Breakdown: make(map[string]models.POSCount, len(posCategories)),
		ChartData: []models.ChartDataPoint{},
	}

	tagged := 0
	for _, c := range posCategories {
		pos.Breakdown[c] = posCount(counts[c], totalWords)
		tagged += counts[c]
	}
	pos.Other = posCount(max(totalWords-tagged, 0), totalWords)

	if totalWords == 0 {
		return pos
	}

	ranked := append([]string(nil), posCategories...)
	sort.SliceStable(ranked, func(i, j int) bool { return counts[ranked[i]] > counts[ranked[j]] })

	for _, c := range ranked[:chartCategories] {
		pos.ChartData = append(pos.ChartData, models.ChartDataPoint{
			Label: label(c),
			Value: pos.Breakdown[c].Percentage,
			Color: posColors[c],
		})
	}
	pos.ChartData = append(pos.ChartData, models.ChartDataPoint{
		Label: label(Other),
		Value: pos.Other.Percentage,
		Color: posColors[Other],
	})
	return pos
}

func posCount(n, totalWords int) models.POSCount {
	return models.POSCount{
		Count:      n,
		Percentage: textutil.Clamp(textutil.Percent(n, totalWords, 1), 0, 100),
	}
}

func label(category string) string {
	return strings.ToUpper(category[:1]) + category[1:]
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
