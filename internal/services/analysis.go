package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/BerylCAtieno/document-analytics-api/internal/analytics"
	"github.com/BerylCAtieno/document-analytics-api/internal/analyzer"
	"github.com/BerylCAtieno/document-analytics-api/internal/config"
	"github.com/BerylCAtieno/document-analytics-api/internal/dom"
	"github.com/BerylCAtieno/document-analytics-api/internal/extractor"
	"github.com/BerylCAtieno/document-analytics-api/internal/lexicon"
	"github.com/BerylCAtieno/document-analytics-api/internal/metrics"
	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/readability"
	"github.com/BerylCAtieno/document-analytics-api/internal/segmenter"
	"github.com/BerylCAtieno/document-analytics-api/internal/storage"
	"github.com/BerylCAtieno/document-analytics-api/internal/textutil"
	"github.com/BerylCAtieno/document-analytics-api/internal/utils"
)

const (
	wordsPerMinute = 200
	maxKeyTopics   = 5

	statusSuccess = "success"
	statusPartial = "partial"
	statusFailed  = "failed"
)

// Warnings attached to a response.
const (
	WarningBodyFallback = "No content blocks were found; paragraphs were taken from the document body"
	WarningEmptyText    = "No text could be extracted from the document"
	WarningNLPDisabled  = "NLP analysis is disabled; advanced features were not computed"
	WarningNLPSkipped   = "NLP analysis skipped because the document has no text"
	WarningPOSFailed    = "Part-of-speech tagging failed; counts are reported as zero"
)

type AnalysisService interface {
	Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalysisResponse, error)
	SupportedTypes() []string
}

type analysisService struct {
	cfg        *config.Config
	storage    storage.Storage
	nlp        analyzer.Analyzer
	normalizer *extractor.Normalizer
	builder    *analytics.Builder
	sem        *semaphore.Weighted
	metrics    *metrics.Metrics
	logger     *utils.Logger
	now        func() time.Time
}

// NewService wires the analysis pipeline. nlp may be nil, in which case
// advanced features are never requested.
func NewService(cfg *config.Config, store storage.Storage, nlp analyzer.Analyzer, m *metrics.Metrics, logger *utils.Logger) (AnalysisService, error) {
	if store == nil {
		return nil, errors.New("services: storage is required")
	}
	if logger == nil {
		logger = utils.NopLogger()
	}

	var engineOpts []readability.Option
	if cfg.CMUDictPath != "" {
		dict, err := lexicon.LoadCMU(cfg.CMUDictPath)
		if err != nil {
			return nil, fmt.Errorf("services: load pronouncing dictionary: %w", err)
		}
		logger.Info("Loaded pronouncing dictionary", "path", cfg.CMUDictPath, "words", dict.Len())
		engineOpts = append(engineOpts, readability.WithDictionary(dict))
	}

	denylist := dom.DefaultDenylist().WithClassTokens(cfg.BoilerplateClasses...)

	workers := cfg.MaxConcurrentAnalyses
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &analysisService{
		cfg:        cfg,
		storage:    store,
		nlp:        nlp,
		normalizer: extractor.NewNormalizer(extractor.WithDenylist(denylist)),
		builder:    analytics.NewBuilder(readability.NewEngine(engineOpts...), nil),
		sem:        semaphore.NewWeighted(int64(workers)),
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func (s *analysisService) SupportedTypes() []string {
	return s.normalizer.SupportedTypes()
}

func (s *analysisService) Analyze(ctx context.Context, req *models.AnalyzeRequest) (resp *models.AnalysisResponse, err error) {
	start := s.now()
	analysisID := utils.GenerateID()
	mimeType := extractor.Canonical(req.ContentType)
	fileType := extractor.FileType(mimeType)
	log := s.logger.With("analysis_id", analysisID, "filename", req.Filename, "file_type", fileType)

	defer func() {
		status := statusSuccess
		switch {
		case err != nil:
			status = statusFailed
		case len(resp.Errors) > 0:
			status = statusPartial
		}
		s.metrics.RecordAnalysis(fileType, status, s.now().Sub(start))
	}()

	if !s.normalizer.Supports(mimeType) {
		log.Warn("Unsupported content type", "content_type", req.ContentType)
		return nil, utils.NewBadRequestError(fmt.Sprintf("Unsupported file type '%s'. Supported types: %s", req.ContentType, strings.Join(s.SupportedTypes(), ", ")))
	}

	key := storage.UploadKey(req.Filename)
	if err := s.storage.Upload(ctx, key, req.File, mimeType); err != nil {
		log.Error("Failed to stage upload", "error", err, "key", key)
		return nil, utils.WrapInternal("Failed to store document", err)
	}
	defer s.cleanup(context.WithoutCancel(ctx), log, key)

	data, err := s.storage.Download(ctx, key)
	if err != nil {
		log.Error("Failed to read staged upload", "error", err, "key", key)
		return nil, utils.WrapInternal("Failed to read document", err)
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, utils.WrapInternal("Analysis canceled", err)
	}
	release := sync.OnceFunc(func() { s.sem.Release(1) })
	defer release()

	result, err := s.normalizer.Normalize(data, mimeType)
	if err != nil {
		var unsupported *extractor.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			return nil, utils.NewBadRequestError(err.Error())
		}
		log.Warn("Failed to normalize document", "error", err)
		return nil, utils.NewFileProcessingError(fileType, err)
	}
	s.metrics.RecordSegmentation(string(result.Segmentation))

	doc := result.Document
	basic := s.builder.Basic(doc)
	fullText := doc.TextData.FullText

	var (
		g        errgroup.Group
		visual   models.VisualAnalytics
		posErr   error
		advanced *models.AdvancedFeatures
		nlpErr   error
	)

	callNLP := s.nlp != nil && strings.TrimSpace(fullText) != ""
	if callNLP {
		nlpReq := &models.NLPRequest{Text: fullText}
		if s.cfg.NLP.SendReadability {
			nlpReq.StandardReadabilityMetrics = readability.Scores(basic.Readability)
		}
		g.Go(func() error {
			advanced, nlpErr = s.nlp.Analyze(ctx, nlpReq)
			return nil
		})
	}
	g.Go(func() error {
		defer release()
		visual, posErr = s.builder.Visual(doc, basic.Overview.TotalWords)
		return nil
	})
	_ = g.Wait()

	resp = &models.AnalysisResponse{
		Success:          true,
		AnalysisID:       analysisID,
		Timestamp:        s.now().UTC(),
		Document:         s.documentInfo(req, mimeType, start),
		BasicAnalytics:   basic,
		VisualAnalytics:  visual,
		AdvancedFeatures: advanced,
		Errors:           []string{},
		Warnings:         append([]string{}, result.Warnings...),
	}

	switch result.Segmentation {
	case segmenter.MethodBody:
		resp.Warnings = append(resp.Warnings, WarningBodyFallback)
	case segmenter.MethodEmpty:
		resp.Warnings = append(resp.Warnings, WarningEmptyText)
	}
	if posErr != nil {
		log.Warn("Part-of-speech tagging failed", "error", posErr)
		resp.Warnings = append(resp.Warnings, WarningPOSFailed)
	}

	switch {
	case s.nlp == nil:
		resp.Warnings = append(resp.Warnings, WarningNLPDisabled)
	case !callNLP:
		resp.Warnings = append(resp.Warnings, WarningNLPSkipped)
	case nlpErr != nil:
		status := 0
		if e, ok := analyzer.AsNLPServiceError(nlpErr); ok {
			status = e.StatusCode
		}
		if s.cfg.NLP.Required {
			log.Error("NLP analysis failed", "error", nlpErr)
			return nil, utils.NewNLPServiceError(status, nlpErr)
		}
		log.Warn("NLP analysis failed, returning partial results", "error", nlpErr)
		resp.AdvancedFeatures = nil
		resp.Errors = append(resp.Errors, "NLP analysis failed: "+nlpErr.Error())
	}

	resp.Summary = summarize(basic, resp.AdvancedFeatures)
	resp.ProcessingTimeMs = s.now().Sub(start).Milliseconds()

	log.Info("Document analyzed",
		"words", basic.Overview.TotalWords,
		"segmentation", string(result.Segmentation),
		"advanced", resp.AdvancedFeatures != nil,
		"duration_ms", resp.ProcessingTimeMs)

	return resp, nil
}

func (s *analysisService) cleanup(ctx context.Context, log *utils.Logger, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Warn("Failed to remove staged upload", "error", err, "key", key)
	}
}

func (s *analysisService) documentInfo(req *models.AnalyzeRequest, mimeType string, uploadedAt time.Time) models.DocumentInfo {
	return models.DocumentInfo{
		Filename:     req.Filename,
		OriginalName: req.Filename,
		Type:         mimeType,
		SizeBytes:    int64(len(req.File)),
		UploadedAt:   uploadedAt.UTC(),
		Category:     Category(mimeType),
	}
}

// Category is the display category of a MIME type.
func Category(mimeType string) string {
	switch extractor.Canonical(mimeType) {
	case extractor.MimeHTML:
		return "Web Document"
	case extractor.MimeText:
		return "Text Document"
	case extractor.MimeMarkdown:
		return "Markdown Document"
	case extractor.MimePDF:
		return "PDF Document"
	case extractor.MimeDOCX:
		return "Word Document"
	default:
		return "Unknown"
	}
}

func summarize(basic models.BasicAnalytics, advanced *models.AdvancedFeatures) models.AnalyticsSummary {
	words := basic.Overview.TotalWords
	summary := models.AnalyticsSummary{
		TotalWords:         words,
		ReadingTimeMinutes: textutil.Round(float64(words)/wordsPerMinute, 1),
		ReadingLevel:       basic.Readability[readability.FleschKincaidGrade].Score,
		ComplexityLevel:    complexityLevel(basic.Readability),
	}

	if advanced == nil {
		return summary
	}

	score := advanced.SentimentAnalysis.OverallSentiment.Score
	summary.SentimentScore = &score
	summary.WritingStyle = writingStyle(advanced.LanguagePatterns)
	for _, topic := range advanced.TopicModeling.PrimaryTopics {
		if len(summary.KeyTopics) == maxKeyTopics {
			break
		}
		if name := strings.TrimSpace(topic.Name); name != "" {
			summary.KeyTopics = append(summary.KeyTopics, name)
		}
	}
	return summary
}

// complexityLevel buckets the Flesch Reading Ease score.
func complexityLevel(scores models.ReadabilityMetrics) string {
	flesch, ok := scores[readability.FleschReadingEase]
	if !ok || flesch == readability.Sentinel() {
		return "Unknown"
	}
	switch {
	case flesch.Score >= 70:
		return "Simple"
	case flesch.Score >= 50:
		return "Moderate"
	case flesch.Score >= 30:
		return "Complex"
	default:
		return "Very complex"
	}
}

func writingStyle(p models.LanguagePatterns) string {
	f := p.StylisticFeatures
	switch {
	case f.FormalLanguageScore >= 0.6 && f.AcademicToneScore >= 0.6:
		return "Formal academic"
	case f.FormalLanguageScore >= 0.6:
		return "Formal"
	case f.FormalLanguageScore > 0 && f.FormalLanguageScore <= 0.4:
		return "Conversational"
	default:
		return "Neutral"
	}
}
