package models

import "encoding/json"

// NLPRequest is the body posted to the NLP collaborator.
type NLPRequest struct {
	Text                       string             `json:"text"`
	StandardReadabilityMetrics map[string]float64 `json:"standard_readability_metrics,omitempty"`
}

// AdvancedFeatures is the NLP collaborator response. Only the four required
// sections are decoded into typed structs; optional sections are passed through.
type AdvancedFeatures struct {
	SentimentAnalysis     SentimentAnalysis `json:"sentiment_analysis"`
	KeywordExtraction     KeywordExtraction `json:"keyword_extraction"`
	TopicModeling         TopicModeling     `json:"topic_modeling"`
	LanguagePatterns      LanguagePatterns  `json:"language_patterns"`
	ReadabilityPrediction json.RawMessage   `json:"readability_prediction,omitempty"`
	DocumentSummary       json.RawMessage   `json:"document_summary,omitempty"`
	TextStats             json.RawMessage   `json:"text_stats,omitempty"`
}

type SentimentAnalysis struct {
	OverallSentiment struct {
		Score      float64 `json:"score"`
		Label      string  `json:"label"`
		Percentage float64 `json:"percentage"`
		Confidence float64 `json:"confidence"`
	} `json:"overall_sentiment"`
	SentimentDistribution map[string]SentimentBucket `json:"sentiment_distribution,omitempty"`
	EmotionalTone         map[string]float64         `json:"emotional_tone,omitempty"`
	Description           string                     `json:"description,omitempty"`
}

type SentimentBucket struct {
	Percentage float64 `json:"percentage"`
	Sentences  int     `json:"sentences"`
}

type KeywordExtraction struct {
	Keywords      []KeywordItem `json:"keywords"`
	KeyPhrases    []KeyPhrase   `json:"key_phrases,omitempty"`
	NamedEntities []NamedEntity `json:"named_entities,omitempty"`
}

type KeywordItem struct {
	Word      string  `json:"word"`
	Score     float64 `json:"score"`
	Frequency int     `json:"frequency"`
}

type KeyPhrase struct {
	Phrase    string `json:"phrase"`
	Frequency int    `json:"frequency"`
	Positions []int  `json:"positions,omitempty"`
}

type NamedEntity struct {
	Entity    string `json:"entity"`
	Type      string `json:"type"`
	Frequency int    `json:"frequency"`
}

type TopicModeling struct {
	PrimaryTopics       []Topic          `json:"primary_topics"`
	TopicCoherenceScore *float64         `json:"topic_coherence_score,omitempty"`
	TopicEvolution      []TopicEvolution `json:"topic_evolution,omitempty"`
}

type Topic struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Percentage  float64  `json:"percentage"`
	Keywords    []string `json:"keywords,omitempty"`
	Description string   `json:"description,omitempty"`
}

type TopicEvolution struct {
	Topic          string  `json:"topic"`
	ParagraphRange string  `json:"paragraph_range"`
	Intensity      float64 `json:"intensity"`
}

type LanguagePatterns struct {
	ComplexityMetrics struct {
		AverageSyllablesPerWord float64 `json:"average_syllables_per_word"`
		PolysyllabicWords       int     `json:"polysyllabic_words"`
		TechnicalTerms          int     `json:"technical_terms"`
		PassiveVoicePercentage  float64 `json:"passive_voice_percentage"`
	} `json:"complexity_metrics"`
	StylisticFeatures struct {
		FormalLanguageScore float64 `json:"formal_language_score"`
		AcademicToneScore   float64 `json:"academic_tone_score"`
		ObjectivityScore    float64 `json:"objectivity_score"`
		ClarityScore        float64 `json:"clarity_score"`
	} `json:"stylistic_features"`
}
