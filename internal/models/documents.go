package models

import (
	"time"
)

// ParsedDocument is the canonical representation every metric is computed from.
type ParsedDocument struct {
	Structure StructureMetrics `json:"structure"`
	TextData  TextData         `json:"text_data"`
}

type TextData struct {
	// ParagraphSentences holds paragraphs in document order. No paragraph is empty.
	ParagraphSentences [][]string `json:"paragraph_sentences"`
	FullText           string     `json:"full_text"`
}

type StructureMetrics struct {
	Headings        int `json:"headings"`
	Lists           int `json:"lists"`
	BoldInstances   int `json:"bold_instances"`
	ItalicInstances int `json:"italic_instances"`
	Links           int `json:"links"`
	Images          int `json:"images"`
	Tables          int `json:"tables"`
	Footnotes       int `json:"footnotes"`
}

type AnalyzeRequest struct {
	File        []byte
	Filename    string
	ContentType string
}

type DocumentInfo struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Type         string    `json:"type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Category     string    `json:"category"`
}

type AnalyticsSummary struct {
	TotalWords         int      `json:"total_words"`
	ReadingTimeMinutes float64  `json:"reading_time_minutes"`
	ReadingLevel       float64  `json:"reading_level"`
	ComplexityLevel    string   `json:"complexity_level"`
	SentimentScore     *float64 `json:"sentiment_score,omitempty"`
	WritingStyle       string   `json:"writing_style,omitempty"`
	KeyTopics          []string `json:"key_topics,omitempty"`
}

type AnalysisResponse struct {
	Success          bool              `json:"success"`
	AnalysisID       string            `json:"analysis_id"`
	Timestamp        time.Time         `json:"timestamp"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
	Document         DocumentInfo      `json:"document"`
	Summary          AnalyticsSummary  `json:"summary"`
	BasicAnalytics   BasicAnalytics    `json:"basic_analytics"`
	VisualAnalytics  VisualAnalytics   `json:"visual_analytics"`
	AdvancedFeatures *AdvancedFeatures `json:"advanced_features,omitempty"`
	Errors           []string          `json:"errors"`
	Warnings         []string          `json:"warnings"`
}
