package analytics

import (
	"strings"

	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/textutil"
)

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	// trendThreshold is the fitted change across the document, relative to
	// the mean length, needed to call a trend.
	trendThreshold = 0.15
)

// SentenceLengthTrends reports the length of every sentence in document
// order with its paragraph position. Length is the number of whitespace
// separated fields, so numbers and symbols count.
func SentenceLengthTrends(paragraphs [][]string) models.SentenceLengthTrends {
	trends := models.SentenceLengthTrends{
		DataPoints: []models.SentenceDataPoint{},
		ChartData:  []models.XYDataPoint{},
		Trend:      TrendStable,
	}

	var lengths []float64
	total := 0
	for pi, p := range paragraphs {
		for si, s := range p {
			n := len(strings.Fields(s))
			total += n
			lengths = append(lengths, float64(n))
			trends.DataPoints = append(trends.DataPoints, models.SentenceDataPoint{
				Sentence:  si + 1,
				Length:    n,
				Paragraph: pi + 1,
			})
			trends.ChartData = append(trends.ChartData, models.XYDataPoint{X: len(lengths), Y: n})
		}
	}

	if len(lengths) > 0 {
		trends.AverageLength = textutil.Round(float64(total)/float64(len(lengths)), 1)
	}
	trends.Trend = classifyTrend(lengths)
	return trends
}

// classifyTrend fits a least-squares line through the lengths and compares
// the change it predicts from first to last sentence against the mean.
func classifyTrend(lengths []float64) string {
	n := len(lengths)
	if n < 2 {
		return TrendStable
	}

	var sumX, sumY float64
	for i, y := range lengths {
		sumX += float64(i)
		sumY += y
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)
	if meanY == 0 {
		return TrendStable
	}

	var cov, varX float64
	for i, y := range lengths {
		dx := float64(i) - meanX
		cov += dx * (y - meanY)
		varX += dx * dx
	}
	slope := cov / varX

	relative := slope * float64(n-1) / meanY
	switch {
	case relative > trendThreshold:
		return TrendIncreasing
	case relative < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
