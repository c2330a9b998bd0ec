package analytics

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/textutil"
)

// TopWords is how many words the frequency table keeps.
const TopWords = 8

// WordFrequency ranks countable words: lowercase, longer than two letters and
// not stop words. Ties keep first-seen order.
func WordFrequency(text string) models.WordFrequencyData {
	counts := make(map[string]int)
	var order []string
	total := 0

	for _, w := range textutil.Words(text) {
		w = strings.ToLower(w)
		if utf8.RuneCountInString(w) <= 2 || textutil.IsStopWord(w) {
			continue
		}
		total++
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > TopWords {
		order = order[:TopWords]
	}

	data := models.WordFrequencyData{
		TopWords:  make([]models.WordCount, 0, len(order)),
		ChartData: make([]models.ChartDataPoint, 0, len(order)),
	}
	for _, w := range order {
		data.TopWords = append(data.TopWords, models.WordCount{
			Word:       w,
			Count:      counts[w],
			Percentage: textutil.Percent(counts[w], total, 2),
		})
		data.ChartData = append(data.ChartData, models.ChartDataPoint{
			Label: w,
			Value: float64(counts[w]),
		})
	}
	return data
}

type lengthRange struct {
	label    string
	min, max int // max 0 means unbounded
}

var lengthRanges = []lengthRange{
	{"1-3", 1, 3},
	{"4-6", 4, 6},
	{"7-9", 7, 9},
	{"10-12", 10, 12},
	{"13+", 13, 0},
}

// WordLengthDistribution buckets every word by its letter count. All buckets
// are present, so their counts always sum to the overview word total.
func WordLengthDistribution(text string) models.WordLengthDistribution {
	words := textutil.Words(text)
	counts := make([]int, len(lengthRanges))

	for _, w := range words {
		n := utf8.RuneCountInString(w)
		for i, r := range lengthRanges {
			if n >= r.min && (r.max == 0 || n <= r.max) {
				counts[i]++
				break
			}
		}
	}

	dist := models.WordLengthDistribution{
		Buckets:   make([]models.LengthBucket, len(lengthRanges)),
		ChartData: make([]models.ChartDataPoint, len(lengthRanges)),
	}
	for i, r := range lengthRanges {
		dist.Buckets[i] = models.LengthBucket{
			Range:      r.label,
			Count:      counts[i],
			Percentage: textutil.Percent(counts[i], len(words), 1),
		}
		dist.ChartData[i] = models.ChartDataPoint{Label: r.label, Value: float64(counts[i])}
	}
	return dist
}
