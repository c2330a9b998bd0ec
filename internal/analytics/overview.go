// Package analytics derives the overview, word, sentence and part-of-speech
// sections of a report from a document's canonical text.
package analytics

import (
	"strings"
	"unicode/utf8"

	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/textutil"
)

// ComputeOverview counts words with the shared tokenizer and sentences and
// paragraphs from the segmented structure.
func ComputeOverview(td models.TextData) models.OverviewMetrics {
	words := textutil.Words(td.FullText)

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}

	sentences := 0
	for _, p := range td.ParagraphSentences {
		sentences += len(p)
	}

	o := models.OverviewMetrics{
		TotalWords:  len(words),
		UniqueWords: len(unique),
		Sentences:   sentences,
		Paragraphs:  len(td.ParagraphSentences),
		Characters:  utf8.RuneCountInString(td.FullText),
	}
	if sentences > 0 {
		o.AverageWordsPerSentence = textutil.Round(float64(o.TotalWords)/float64(sentences), 2)
	}
	if o.TotalWords > 0 {
		o.LexicalDiversity = textutil.Round(float64(o.UniqueWords)/float64(o.TotalWords), 3)
	}
	return o
}
