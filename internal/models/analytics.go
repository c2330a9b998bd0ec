package models

type OverviewMetrics struct {
	TotalWords              int     `json:"total_words"`
	UniqueWords             int     `json:"unique_words"`
	Sentences               int     `json:"sentences"`
	Paragraphs              int     `json:"paragraphs"`
	Characters              int     `json:"characters"`
	AverageWordsPerSentence float64 `json:"average_words_per_sentence"`
	LexicalDiversity        float64 `json:"lexical_diversity"`
}

type ReadabilityMetric struct {
	Score       float64 `json:"score"`
	Description string  `json:"description"`
	Percentage  float64 `json:"percentage"`
}

// ReadabilityMetrics maps a formula name (e.g. "flesch_reading_ease") to its result.
type ReadabilityMetrics map[string]ReadabilityMetric

type BasicAnalytics struct {
	Overview    OverviewMetrics    `json:"overview"`
	Structure   StructureMetrics   `json:"structure"`
	Readability ReadabilityMetrics `json:"readability"`
}

type ChartDataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

type XYDataPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type WordCount struct {
	Word       string  `json:"word"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type WordFrequencyData struct {
	TopWords  []WordCount      `json:"top_words"`
	ChartData []ChartDataPoint `json:"chart_data"`
}

type LengthBucket struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type WordLengthDistribution struct {
	Buckets   []LengthBucket   `json:"buckets"`
	ChartData []ChartDataPoint `json:"chart_data"`
}

type SentenceDataPoint struct {
	Sentence  int `json:"sentence"`
	Length    int `json:"length"`
	Paragraph int `json:"paragraph"`
}

type SentenceLengthTrends struct {
	DataPoints    []SentenceDataPoint `json:"data_points"`
	ChartData     []XYDataPoint       `json:"chart_data"`
	AverageLength float64             `json:"average_length"`
	Trend         string              `json:"trend"`
}

type POSCount struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type PartsOfSpeech struct {
	Breakdown map[string]POSCount `json:"breakdown"`
	Other     POSCount            `json:"other"`
	ChartData []ChartDataPoint    `json:"chart_data"`
}

type VisualAnalytics struct {
	WordFrequency          WordFrequencyData      `json:"word_frequency"`
	WordLengthDistribution WordLengthDistribution `json:"word_length_distribution"`
	SentenceLengthTrends   SentenceLengthTrends   `json:"sentence_length_trends"`
	PartsOfSpeech          PartsOfSpeech          `json:"parts_of_speech"`
}
