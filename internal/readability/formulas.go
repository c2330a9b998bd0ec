package readability

import (
	"fmt"
	"math"

	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/textutil"
)

const (
	FleschReadingEase         = "flesch_reading_ease"
	FleschKincaidGrade        = "flesch_kincaid_grade"
	SMOGIndex                 = "smog_index"
	AutomatedReadabilityIndex = "automated_readability_index"
	DaleChall                 = "dale_chall_formula"
)

const errorDescription = "Error in calculation"

// Formula turns text statistics into one named readability metric.
type Formula interface {
	Name() string
	Compute(Stats) models.ReadabilityMetric
}

// Sentinel is the result for text that cannot be scored.
func Sentinel() models.ReadabilityMetric {
	return models.ReadabilityMetric{Score: 0, Description: errorDescription, Percentage: 0}
}

type fleschReadingEase struct{}

func (fleschReadingEase) Name() string { return FleschReadingEase }

func (fleschReadingEase) Compute(s Stats) models.ReadabilityMetric {
	if !s.Scorable() {
		return Sentinel()
	}
	score := 206.835 - 1.015*s.WordsPerSentence() - 84.6*s.SyllablesPerWord()
	return models.ReadabilityMetric{
		Score:       textutil.Round(score, 1),
		Description: fleschDescription(score),
		Percentage:  textutil.Clamp(math.Round(score), 0, 100),
	}
}

// GradeFormula is a grade-level formula. Its ease percentage maps MaxGrade
// to 0 and MinGrade to 100.
type GradeFormula struct {
	Key      string
	Score    func(Stats) float64
	MaxGrade float64
	MinGrade float64
	Describe func(float64) string
}

func (g GradeFormula) Name() string { return g.Key }

func (g GradeFormula) Compute(s Stats) models.ReadabilityMetric {
	if !s.Scorable() {
		return Sentinel()
	}
	score := textutil.Round(g.Score(s), 1)
	describe := g.Describe
	if describe == nil {
		describe = gradeDescription
	}
	return models.ReadabilityMetric{
		Score:       score,
		Description: describe(score),
		Percentage:  gradePercentage(score, g.MaxGrade, g.MinGrade),
	}
}

func gradePercentage(score, maxGrade, minGrade float64) float64 {
	if maxGrade <= minGrade {
		return 0
	}
	return textutil.Round(textutil.Clamp((maxGrade-score)/(maxGrade-minGrade), 0, 1)*100, 1)
}

var (
	fleschKincaid = GradeFormula{
		Key:      FleschKincaidGrade,
		Score:    fleschKincaidScore,
		MaxGrade: 18,
		MinGrade: 0,
	}
	smog = GradeFormula{
		Key:      SMOGIndex,
		Score:    smogScore,
		MaxGrade: 18,
		MinGrade: 3,
	}
	automatedReadability = GradeFormula{
		Key:      AutomatedReadabilityIndex,
		Score:    automatedReadabilityScore,
		MaxGrade: 14,
		MinGrade: 1,
	}
	daleChall = GradeFormula{
		Key:      DaleChall,
		Score:    daleChallScore,
		MaxGrade: 10,
		MinGrade: 4.9,
		Describe: daleChallDescription,
	}
)

func fleschKincaidScore(s Stats) float64 {
	return 0.39*s.WordsPerSentence() + 11.8*s.SyllablesPerWord() - 15.59
}

func smogScore(s Stats) float64 {
	return 1.0430*math.Sqrt(float64(s.Polysyllables)*30/float64(s.Sentences)) + 3.1291
}

func automatedReadabilityScore(s Stats) float64 {
	return 4.71*float64(s.Letters)/float64(s.Words) + 0.5*s.WordsPerSentence() - 21.43
}

// daleChallScore adds the 3.6365 adjustment once more than 5% of words are difficult.
func daleChallScore(s Stats) float64 {
	difficult := float64(s.DifficultWords) / float64(s.Words) * 100
	score := 0.1579*difficult + 0.0496*s.WordsPerSentence()
	if difficult > 5 {
		score += 3.6365
	}
	return score
}

// DefaultFormulas returns the standard formula set in report order.
func DefaultFormulas() []Formula {
	return []Formula{fleschReadingEase{}, fleschKincaid, smog, automatedReadability, daleChall}
}

func fleschDescription(score float64) string {
	switch {
	case score >= 90:
		return "Very easy to read"
	case score >= 80:
		return "Easy to read"
	case score >= 70:
		return "Fairly easy to read"
	case score >= 60:
		return "Standard"
	case score >= 50:
		return "Fairly difficult to read"
	case score >= 30:
		return "Difficult to read"
	default:
		return "Very difficult to read"
	}
}

func gradeDescription(grade float64) string {
	g := int(math.Round(grade))
	switch {
	case g <= 0:
		return errorDescription
	case g <= 12:
		return fmt.Sprintf("%s grade level", ordinal(g))
	case g <= 16:
		return "College level"
	default:
		return "Graduate level"
	}
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func daleChallDescription(score float64) string {
	switch {
	case score <= 0:
		return errorDescription
	case score < 5:
		return "Easily understood by an average 4th-grade student or lower"
	case score < 6:
		return "Easily understood by an average 5th or 6th-grade student"
	case score < 7:
		return "Easily understood by an average 7th or 8th-grade student"
	case score < 8:
		return "Easily understood by an average 9th or 10th-grade student"
	case score < 9:
		return "Easily understood by an average 11th or 12th-grade student"
	case score < 10:
		return "College level"
	default:
		return "Graduate level"
	}
}
