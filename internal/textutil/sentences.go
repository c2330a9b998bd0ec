package textutil

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
)

// SentenceSplitter splits a block of text into sentences.
type SentenceSplitter interface {
	Split(text string) ([]string, error)
}

// ProseSplitter uses prose's punkt-based segmenter.
type ProseSplitter struct{}

func (ProseSplitter) Split(text string) (sentences []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prose segmenter panic: %v", r)
		}
	}()

	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}

	for _, s := range doc.Sentences() {
		if t := strings.TrimSpace(s.Text); t != "" {
			sentences = append(sentences, t)
		}
	}
	return sentences, nil
}

var sentencePattern = regexp.MustCompile(`[^.!?]+(?:[.!?]+|$)`)

// RegexSplitter splits after runs of '.', '!' or '?'.
type RegexSplitter struct{}

func (RegexSplitter) Split(text string) ([]string, error) {
	var out []string
	for _, m := range sentencePattern.FindAllString(text, -1) {
		if t := strings.TrimSpace(m); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// FallbackSplitter tries Primary and uses Fallback when it fails or returns
// nothing for non-blank input.
type FallbackSplitter struct {
	Primary  SentenceSplitter
	Fallback SentenceSplitter
}

func (f FallbackSplitter) Split(text string) ([]string, error) {
	if f.Primary != nil {
		out, err := f.Primary.Split(text)
		if err == nil && (len(out) > 0 || strings.TrimSpace(text) == "") {
			return out, nil
		}
	}
	return f.Fallback.Split(text)
}

// DefaultSplitter is prose with the regex splitter behind it.
var DefaultSplitter SentenceSplitter = FallbackSplitter{
	Primary:  ProseSplitter{},
	Fallback: RegexSplitter{},
}

// SplitSentences splits text with DefaultSplitter. It never fails.
func SplitSentences(text string) []string {
	out, err := DefaultSplitter.Split(text)
	if err != nil {
		out, _ = RegexSplitter{}.Split(text)
	}
	return out
}
