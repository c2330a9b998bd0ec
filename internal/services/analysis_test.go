package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/document-analytics-api/internal/analyzer"
	"github.com/BerylCAtieno/document-analytics-api/internal/config"
	"github.com/BerylCAtieno/document-analytics-api/internal/extractor"
	"github.com/BerylCAtieno/document-analytics-api/internal/metrics"
	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/readability"
	"github.com/BerylCAtieno/document-analytics-api/internal/storage"
	"github.com/BerylCAtieno/document-analytics-api/internal/utils"
)

const reportHTML = `<html><body>
<h1>Quarterly Report</h1>
<p>Revenue grew strongly this quarter. Costs stayed flat across every region.</p>
<p>The board approved the new budget for next year. Hiring will resume in spring.</p>
</body></html>`

type fakeAnalyzer struct {
	mu       sync.Mutex
	requests []*models.NLPRequest
	features *models.AdvancedFeatures
	err      error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req *models.NLPRequest) (*models.AdvancedFeatures, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.features, nil
}

func sampleFeatures() *models.AdvancedFeatures {
	var f models.AdvancedFeatures
	f.SentimentAnalysis.OverallSentiment.Score = 0.42
	f.SentimentAnalysis.OverallSentiment.Label = "positive"
	f.TopicModeling.PrimaryTopics = []models.Topic{
		{ID: "t1", Name: "Finance", Percentage: 60},
		{ID: "t2", Name: " ", Percentage: 10},
		{ID: "t3", Name: "Planning", Percentage: 30},
	}
	f.LanguagePatterns.StylisticFeatures.FormalLanguageScore = 0.8
	f.LanguagePatterns.StylisticFeatures.AcademicToneScore = 0.3
	return &f
}

type fixture struct {
	svc     AnalysisService
	nlp     *fakeAnalyzer
	metrics *metrics.Metrics
	root    string
}

func newFixture(t *testing.T, nlp *fakeAnalyzer, mutate func(*config.Config)) *fixture {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		StorageBackend: "local",
		StorageTempDir: root,
		NLP:            config.NLPConfig{Enabled: true, SendReadability: true},
	}
	if mutate != nil {
		mutate(cfg)
	}

	store, err := storage.New(cfg)
	require.NoError(t, err)

	m := metrics.New()
	var a analyzer.Analyzer
	if nlp != nil {
		a = nlp
	}
	svc, err := NewService(cfg, store, a, m, utils.NopLogger())
	require.NoError(t, err)
	return &fixture{svc: svc, nlp: nlp, metrics: m, root: root}
}

func (f *fixture) assertStagingEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged uploads are removed after every request")
}

func (f *fixture) scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	f.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func htmlRequest() *models.AnalyzeRequest {
	return &models.AnalyzeRequest{File: []byte(reportHTML), Filename: "report.html", ContentType: "text/html; charset=utf-8"}
}

func TestAnalyze_HTMLWithNLP(t *testing.T) {
	nlp := &fakeAnalyzer{features: sampleFeatures()}
	f := newFixture(t, nlp, nil)

	resp, err := f.svc.Analyze(context.Background(), htmlRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.AnalysisID)
	assert.Empty(t, resp.Errors)
	assert.NotContains(t, resp.Warnings, WarningNLPDisabled)

	assert.Equal(t, "report.html", resp.Document.Filename)
	assert.Equal(t, extractor.MimeHTML, resp.Document.Type)
	assert.Equal(t, "Web Document", resp.Document.Category)
	assert.Equal(t, int64(len(reportHTML)), resp.Document.SizeBytes)

	basic := resp.BasicAnalytics
	assert.Equal(t, 1, basic.Structure.Headings)
	assert.Equal(t, 4, basic.Overview.Sentences)
	assert.Equal(t, 2, basic.Overview.Paragraphs)
	assert.Len(t, basic.Readability, 5)
	assert.NotEmpty(t, resp.VisualAnalytics.WordFrequency.TopWords)

	require.NotNil(t, resp.AdvancedFeatures)
	require.NotNil(t, resp.Summary.SentimentScore)
	assert.InDelta(t, 0.42, *resp.Summary.SentimentScore, 1e-9)
	assert.Equal(t, []string{"Finance", "Planning"}, resp.Summary.KeyTopics)
	assert.Equal(t, "Formal", resp.Summary.WritingStyle)
	assert.Equal(t, basic.Overview.TotalWords, resp.Summary.TotalWords)
	assert.Equal(t, basic.Readability[readability.FleschKincaidGrade].Score, resp.Summary.ReadingLevel)

	require.Len(t, nlp.requests, 1)
	sent := nlp.requests[0]
	assert.Contains(t, sent.Text, "Revenue grew strongly this quarter.")
	assert.Len(t, sent.StandardReadabilityMetrics, 5)
	assert.Contains(t, sent.StandardReadabilityMetrics, readability.FleschReadingEase)

	f.assertStagingEmpty(t)
	assert.Contains(t, f.scrape(t), `document_analytics_analyses_total{format="html",status="success"} 1`)
}

func TestAnalyze_ReadabilityNotSentWhenDisabled(t *testing.T) {
	nlp := &fakeAnalyzer{features: sampleFeatures()}
	f := newFixture(t, nlp, func(c *config.Config) { c.NLP.SendReadability = false })

	_, err := f.svc.Analyze(context.Background(), htmlRequest())
	require.NoError(t, err)
	require.Len(t, nlp.requests, 1)
	assert.Nil(t, nlp.requests[0].StandardReadabilityMetrics)
}

func TestAnalyze_NLPFailureReturnsPartialResults(t *testing.T) {
	nlp := &fakeAnalyzer{err: &analyzer.NLPServiceError{Reason: analyzer.ReasonTimeout}}
	f := newFixture(t, nlp, nil)

	resp, err := f.svc.Analyze(context.Background(), htmlRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Nil(t, resp.AdvancedFeatures)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "timeout")
	assert.Nil(t, resp.Summary.SentimentScore)
	assert.Empty(t, resp.Summary.KeyTopics)
	assert.Positive(t, resp.BasicAnalytics.Overview.TotalWords)

	f.assertStagingEmpty(t)
	assert.Contains(t, f.scrape(t), `document_analytics_analyses_total{format="html",status="partial"} 1`)
}

func TestAnalyze_NLPFailureWhenRequired(t *testing.T) {
	nlp := &fakeAnalyzer{err: &analyzer.NLPServiceError{StatusCode: http.StatusBadGateway, Reason: analyzer.ReasonStatus}}
	f := newFixture(t, nlp, func(c *config.Config) { c.NLP.Required = true })

	resp, err := f.svc.Analyze(context.Background(), htmlRequest())
	require.Error(t, err)
	assert.Nil(t, resp)

	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode)
	assert.Equal(t, utils.CodeNLPService, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.UpstreamStatus)

	_, isNLP := analyzer.AsNLPServiceError(err)
	assert.True(t, isNLP)
	f.assertStagingEmpty(t)
}

func TestAnalyze_NLPDisabled(t *testing.T) {
	f := newFixture(t, nil, nil)

	resp, err := f.svc.Analyze(context.Background(), htmlRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.AdvancedFeatures)
	assert.Empty(t, resp.Errors)
	assert.Contains(t, resp.Warnings, WarningNLPDisabled)
}

func TestAnalyze_EmptyTextSkipsNLP(t *testing.T) {
	nlp := &fakeAnalyzer{features: sampleFeatures()}
	f := newFixture(t, nlp, nil)

	resp, err := f.svc.Analyze(context.Background(), &models.AnalyzeRequest{
		File:        []byte(`<html><body><img src="https://example.com/chart.png" alt="chart"></body></html>`),
		Filename:    "chart.html",
		ContentType: "text/html",
	})
	require.NoError(t, err)

	assert.Empty(t, nlp.requests)
	assert.Contains(t, resp.Warnings, WarningNLPSkipped)
	assert.Contains(t, resp.Warnings, WarningEmptyText)
	assert.Equal(t, 1, resp.BasicAnalytics.Structure.Images)
	assert.Zero(t, resp.BasicAnalytics.Overview.TotalWords)
	assert.Equal(t, readability.Sentinel(), resp.BasicAnalytics.Readability[readability.FleschReadingEase])
	assert.Equal(t, "Unknown", resp.Summary.ComplexityLevel)
}

func TestAnalyze_PlainText(t *testing.T) {
	f := newFixture(t, nil, nil)

	resp, err := f.svc.Analyze(context.Background(), &models.AnalyzeRequest{
		File:        []byte("Data analysis is fun. Data helps people decide.\n\nAnalysis takes practice."),
		Filename:    "notes.txt",
		ContentType: "text/plain",
	})
	require.NoError(t, err)

	assert.Equal(t, "Text Document", resp.Document.Category)
	assert.Equal(t, 2, resp.BasicAnalytics.Overview.Paragraphs)
	assert.Equal(t, 3, resp.BasicAnalytics.Overview.Sentences)
}

func TestAnalyze_UnsupportedType(t *testing.T) {
	nlp := &fakeAnalyzer{features: sampleFeatures()}
	f := newFixture(t, nlp, nil)

	_, err := f.svc.Analyze(context.Background(), &models.AnalyzeRequest{
		File:        []byte("{}"),
		Filename:    "data.json",
		ContentType: "application/json",
	})
	require.Error(t, err)

	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, utils.CodeInvalidFile, appErr.Code)
	assert.Contains(t, appErr.Message, "application/json")
	assert.Empty(t, nlp.requests)
	f.assertStagingEmpty(t)
}

func TestAnalyze_ConversionFailure(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.svc.Analyze(context.Background(), &models.AnalyzeRequest{
		File:        []byte("this is not a pdf"),
		Filename:    "broken.pdf",
		ContentType: extractor.MimePDF,
	})
	require.Error(t, err)

	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.StatusCode)
	assert.Equal(t, utils.CodeFileProcessing, appErr.Code)
	assert.Equal(t, "pdf", appErr.FileType)

	var convErr *extractor.FormatConversionError
	assert.ErrorAs(t, err, &convErr)

	f.assertStagingEmpty(t)
	assert.Contains(t, f.scrape(t), `document_analytics_analyses_total{format="pdf",status="failed"} 1`)
}

func TestAnalyze_CanceledContext(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Analyze(ctx, htmlRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_Idempotent(t *testing.T) {
	f := newFixture(t, nil, nil)

	first, err := f.svc.Analyze(context.Background(), htmlRequest())
	require.NoError(t, err)
	second, err := f.svc.Analyze(context.Background(), htmlRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.AnalysisID, second.AnalysisID)
	assert.Equal(t, first.BasicAnalytics, second.BasicAnalytics)
	assert.Equal(t, first.VisualAnalytics, second.VisualAnalytics)
}

func TestAnalyze_ConcurrentRequests(t *testing.T) {
	f := newFixture(t, nil, func(c *config.Config) { c.MaxConcurrentAnalyses = 1 })

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Analyze(context.Background(), htmlRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	f.assertStagingEmpty(t)
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(&config.Config{}, nil, nil, nil, nil)
	assert.Error(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	_, err = NewService(&config.Config{CMUDictPath: "/does/not/exist.dict"}, store, nil, nil, nil)
	assert.Error(t, err)
}

func TestSupportedTypes(t *testing.T) {
	f := newFixture(t, nil, nil)
	assert.ElementsMatch(t, []string{
		extractor.MimeHTML,
		extractor.MimeText,
		extractor.MimeMarkdown,
		extractor.MimePDF,
		extractor.MimeDOCX,
	}, f.svc.SupportedTypes())
}

func TestCategory(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"text/html", "Web Document"},
		{"text/plain; charset=utf-8", "Text Document"},
		{"text/markdown", "Markdown Document"},
		{"application/pdf", "PDF Document"},
		{extractor.MimeDOCX, "Word Document"},
		{"image/png", "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Category(tt.mimeType), tt.mimeType)
	}
}

func TestComplexityLevel(t *testing.T) {
	level := func(score float64) string {
		return complexityLevel(models.ReadabilityMetrics{
			readability.FleschReadingEase: {Score: score, Description: "x", Percentage: score},
		})
	}
	assert.Equal(t, "Simple", level(85))
	assert.Equal(t, "Moderate", level(55))
	assert.Equal(t, "Complex", level(30))
	assert.Equal(t, "Very complex", level(10))
	assert.Equal(t, "Unknown", complexityLevel(nil))
}

func TestWritingStyle(t *testing.T) {
	style := func(formal, academic float64) string {
		var p models.LanguagePatterns
		p.StylisticFeatures.FormalLanguageScore = formal
		p.StylisticFeatures.AcademicToneScore = academic
		return writingStyle(p)
	}
	assert.Equal(t, "Formal academic", style(0.7, 0.8))
	assert.Equal(t, "Formal", style(0.7, 0.2))
	assert.Equal(t, "Conversational", style(0.3, 0.9))
	assert.Equal(t, "Neutral", style(0.5, 0.5))
	assert.Equal(t, "Neutral", style(0, 0))
}

func TestSummarize_ReadingTime(t *testing.T) {
	basic := models.BasicAnalytics{Overview: models.OverviewMetrics{TotalWords: 450}}
	s := summarize(basic, nil)
	assert.Equal(t, 2.3, s.ReadingTimeMinutes)
	assert.Nil(t, s.SentimentScore)
}
