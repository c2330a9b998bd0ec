// Package readability scores text with the standard readability formulas and
// re-expresses each score as a 0-100 ease percentage.
package readability

import (
	"sync"
	"unicode/utf8"

	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/textutil"
)

// Stats are the text counts every formula is computed from.
type Stats struct {
	Sentences      int
	Words          int
	Syllables      int
	Polysyllables  int // words with three or more syllables
	Letters        int
	DifficultWords int
}

// Scorable is false when there is nothing to divide by.
func (s Stats) Scorable() bool {
	return s.Words > 0 && s.Sentences > 0
}

func (s Stats) WordsPerSentence() float64 {
	if s.Sentences == 0 {
		return 0
	}
	return float64(s.Words) / float64(s.Sentences)
}

func (s Stats) SyllablesPerWord() float64 {
	if s.Words == 0 {
		return 0
	}
	return float64(s.Syllables) / float64(s.Words)
}

type Engine struct {
	mu       sync.RWMutex
	formulas []Formula
	counter  SyllableCounter
}

type Option func(*Engine)

// WithSyllableCounter replaces the heuristic syllable counter.
func WithSyllableCounter(c SyllableCounter) Option {
	return func(e *Engine) {
		if c != nil {
			e.counter = c
		}
	}
}

// WithDictionary consults dict before falling back to the heuristic.
func WithDictionary(dict Lookup) Option {
	return func(e *Engine) {
		if dict != nil {
			e.counter = DictionaryCounter{Dict: dict, Fallback: Heuristic{}}
		}
	}
}

// WithFormulas replaces the default formula set.
func WithFormulas(formulas ...Formula) Option {
	return func(e *Engine) {
		e.formulas = append([]Formula(nil), formulas...)
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		formulas: DefaultFormulas(),
		counter:  Heuristic{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a formula, replacing any existing one with the same name.
func (e *Engine) Register(f Formula) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, existing := range e.formulas {
		if existing.Name() == f.Name() {
			e.formulas[i] = f
			return
		}
	}
	e.formulas = append(e.formulas, f)
}

// Names lists the registered formulas in evaluation order.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, len(e.formulas))
	for i, f := range e.formulas {
		names[i] = f.Name()
	}
	return names
}

// Compute scores text, counting sentences itself.
func (e *Engine) Compute(text string) models.ReadabilityMetrics {
	sentences, _ := textutil.RegexSplitter{}.Split(text)
	n := 0
	for _, s := range sentences {
		if textutil.CountWords(s) > 0 {
			n++
		}
	}
	return e.Evaluate(e.Stats(text, n))
}

// ComputeDocument scores the canonical text using the segmenter's sentence
// count, so readability agrees with the overview.
func (e *Engine) ComputeDocument(td models.TextData) models.ReadabilityMetrics {
	n := 0
	for _, p := range td.ParagraphSentences {
		n += len(p)
	}
	return e.Evaluate(e.Stats(td.FullText, n))
}

// Stats counts words, syllables, letters and difficult words in text.
func (e *Engine) Stats(text string, sentences int) Stats {
	s := Stats{Sentences: sentences}
	for _, w := range textutil.Words(text) {
		syllables := e.counter.Syllables(w)
		s.Words++
		s.Syllables += syllables
		s.Letters += utf8.RuneCountInString(w) - nonLetters(w)
		if syllables >= 3 {
			s.Polysyllables++
		}
		if syllables >= 2 && !IsFamiliar(w) {
			s.DifficultWords++
		}
	}
	return s
}

// Evaluate runs every registered formula. A formula that panics yields the
// sentinel metric instead of failing the whole report.
func (e *Engine) Evaluate(s Stats) models.ReadabilityMetrics {
	e.mu.RLock()
	formulas := append([]Formula(nil), e.formulas...)
	e.mu.RUnlock()

	out := make(models.ReadabilityMetrics, len(formulas))
	for _, f := range formulas {
		out[f.Name()] = safeCompute(f, s)
	}
	return out
}

func safeCompute(f Formula, s Stats) (m models.ReadabilityMetric) {
	defer func() {
		if recover() != nil {
			m = Sentinel()
		}
	}()
	return f.Compute(s)
}

// Scores flattens metrics to name -> score for the NLP request payload.
func Scores(metrics models.ReadabilityMetrics) map[string]float64 {
	if len(metrics) == 0 {
		return nil
	}
	out := make(map[string]float64, len(metrics))
	for name, m := range metrics {
		out[name] = m.Score
	}
	return out
}

// nonLetters counts apostrophes and hyphens inside a token.
func nonLetters(w string) int {
	n := 0
	for _, r := range w {
		if r == '\'' || r == '’' || r == '-' {
			n++
		}
	}
	return n
}
