package analytics

import (
	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/readability"
)

// Builder assembles the basic and visual report sections. It holds no
// per-document state and is safe for concurrent use.
type Builder struct {
	Readability *readability.Engine
	Tagger      Tagger
}

func NewBuilder(engine *readability.Engine, tagger Tagger) *Builder {
	if engine == nil {
		engine = readability.NewEngine()
	}
	if tagger == nil {
		tagger = ProseTagger{}
	}
	return &Builder{Readability: engine, Tagger: tagger}
}

// Basic computes the overview, structure and readability sections.
func (b *Builder) Basic(doc *models.ParsedDocument) models.BasicAnalytics {
	return models.BasicAnalytics{
		Overview:    ComputeOverview(doc.TextData),
		Structure:   doc.Structure,
		Readability: b.Readability.ComputeDocument(doc.TextData),
	}
}

// Visual computes the chart sections. A tagger failure leaves the
// part-of-speech counts at zero and is returned alongside the result.
func (b *Builder) Visual(doc *models.ParsedDocument, totalWords int) (models.VisualAnalytics, error) {
	pos, err := PartsOfSpeech(b.Tagger, doc.TextData.FullText, totalWords)
	return models.VisualAnalytics{
		WordFrequency:          WordFrequency(doc.TextData.FullText),
		WordLengthDistribution: WordLengthDistribution(doc.TextData.FullText),
		SentenceLengthTrends:   SentenceLengthTrends(doc.TextData.ParagraphSentences),
		PartsOfSpeech:          pos,
	}, err
}

// Build runs Basic and Visual.
func (b *Builder) Build(doc *models.ParsedDocument) (models.BasicAnalytics, models.VisualAnalytics, error) {
	basic := b.Basic(doc)
	visual, err := b.Visual(doc, basic.Overview.TotalWords)
	return basic, visual, err
}
