// Package segmenter turns a document tree into paragraphs of sentences.
package segmenter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BerylCAtieno/document-analytics-api/internal/dom"
	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/textutil"
)

const (
	// MinBlockRunes is the shortest block text treated as content.
	MinBlockRunes = 10
	// MinSentenceRunes is the shortest sentence kept.
	MinSentenceRunes = 4
)

// Method records which strategy produced the paragraphs.
type Method string

const (
	MethodArticle Method = "article"
	MethodBlocks  Method = "blocks"
	MethodBody    Method = "body"
	MethodEmpty   Method = "empty"
)

// contentTags are the content-bearing elements scanned in document order.
var contentTags = map[string]bool{
	"p": true, "li": true, "blockquote": true, "td": true, "th": true,
	"caption": true, "figcaption": true, "pre": true,
}

type Segmenter struct {
	// Extractor isolates the main article before block scanning. Nil skips that step.
	Extractor ArticleExtractor
	Splitter  textutil.SentenceSplitter
}

func New(extractor ArticleExtractor) *Segmenter {
	return &Segmenter{Extractor: extractor, Splitter: textutil.DefaultSplitter}
}

// Segment scans doc without article extraction.
func Segment(doc dom.Document) models.TextData {
	data, _ := New(nil).Segment(doc)
	return data
}

// Segment never fails: article extraction problems fall back to block
// scanning, and a document without content blocks falls back to body text.
func (s *Segmenter) Segment(doc dom.Document) (models.TextData, Method) {
	if s.Extractor != nil {
		if article, err := safeExtract(s.Extractor, doc); err == nil && article != nil {
			if paras := s.scanBlocks(article.Body()); len(paras) > 0 {
				return build(paras), MethodArticle
			}
		}
	}

	if paras := s.scanBlocks(doc.Body()); len(paras) > 0 {
		return build(paras), MethodBlocks
	}

	if sentences := s.sentences(doc.Body().Text()); len(sentences) > 0 {
		return build([][]string{sentences}), MethodBody
	}

	return build(nil), MethodEmpty
}

// SegmentText splits already extracted paragraph texts the same way block
// scanning does. Used by formats that do not produce a tree.
func (s *Segmenter) SegmentText(paragraphs []string) models.TextData {
	var paras [][]string
	for _, p := range paragraphs {
		if sentences := s.blockSentences(p); len(sentences) > 0 {
			paras = append(paras, sentences)
		}
	}
	return build(paras)
}

func (s *Segmenter) scanBlocks(root dom.Node) [][]string {
	var paras [][]string
	var walk func(n dom.Node)
	walk = func(n dom.Node) {
		for _, child := range n.Children() {
			if contentTags[child.Tag()] {
				// Nested blocks are covered by the outermost one.
				if sentences := s.blockSentences(child.Text()); len(sentences) > 0 {
					paras = append(paras, sentences)
				}
				continue
			}
			walk(child)
		}
	}
	walk(root)
	return paras
}

func (s *Segmenter) blockSentences(text string) []string {
	text = textutil.CollapseSpace(text)
	if utf8.RuneCountInString(text) < MinBlockRunes {
		return nil
	}
	return s.sentences(text)
}

func (s *Segmenter) sentences(text string) []string {
	text = textutil.CollapseSpace(text)
	if text == "" {
		return nil
	}

	splitter := s.Splitter
	if splitter == nil {
		splitter = textutil.DefaultSplitter
	}
	raw, err := splitter.Split(text)
	if err != nil {
		raw, _ = textutil.RegexSplitter{}.Split(text)
	}

	var out []string
	for _, sentence := range raw {
		sentence = textutil.CollapseSpace(sentence)
		if utf8.RuneCountInString(sentence) >= MinSentenceRunes {
			out = append(out, sentence)
		}
	}
	return out
}

func safeExtract(ex ArticleExtractor, doc dom.Document) (out dom.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("article extractor panic: %v", r)
		}
	}()
	return ex.Extract(doc)
}

func build(paras [][]string) models.TextData {
	if paras == nil {
		paras = [][]string{}
	}
	var all []string
	for _, p := range paras {
		all = append(all, p...)
	}
	return models.TextData{
		ParagraphSentences: paras,
		FullText:           strings.Join(all, " "),
	}
}
