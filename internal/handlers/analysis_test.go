package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/document-analytics-api/internal/analyzer"
	"github.com/BerylCAtieno/document-analytics-api/internal/extractor"
	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/utils"
)

type fakeService struct {
	got  *models.AnalyzeRequest
	resp *models.AnalysisResponse
	err  error
}

func (f *fakeService) Analyze(_ context.Context, req *models.AnalyzeRequest) (*models.AnalysisResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeService) SupportedTypes() []string {
	return []string{extractor.MimeHTML, extractor.MimeMarkdown, extractor.MimePDF, extractor.MimeText, extractor.MimeDOCX}
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func multipartBody(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+quoteEscaper.Replace(filename)+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, h *AnalysisHandler, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, "file", filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAnalyze_Success(t *testing.T) {
	svc := &fakeService{resp: &models.AnalysisResponse{Success: true, AnalysisID: "abc", Errors: []string{}, Warnings: []string{}}}
	h := NewAnalysisHandler(svc, 1<<20, utils.NopLogger())

	rec := upload(t, h, "notes.md", "application/octet-stream", []byte("# Title\n\nSome text here."))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp models.AnalysisResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "abc", resp.AnalysisID)

	require.NotNil(t, svc.got)
	assert.Equal(t, "notes.md", svc.got.Filename)
	assert.Equal(t, extractor.MimeMarkdown, svc.got.ContentType, "extension wins over the part header")
	assert.Equal(t, "# Title\n\nSome text here.", string(svc.got.File))
}

func TestAnalyze_HeaderContentTypeFallback(t *testing.T) {
	svc := &fakeService{resp: &models.AnalysisResponse{Success: true}}
	h := NewAnalysisHandler(svc, 1<<20, utils.NopLogger())

	rec := upload(t, h, "page", "text/html; charset=utf-8", []byte("<p>Hello there world</p>"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, extractor.MimeHTML, svc.got.ContentType)
}

func TestAnalyze_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		content     []byte
		wantCode    string
		wantMessage string
	}{
		{"empty file", "a.txt", "text/plain", nil, utils.CodeInvalidFile, "empty"},
		{"too large", "a.txt", "text/plain", bytes.Repeat([]byte("x"), 64), utils.CodeInvalidFile, "File size exceeds 32 bytes limit"},
		{"parent traversal", "..report.txt", "text/plain", []byte("hello"), utils.CodeInvalidFile, "Invalid file name"},
		{"backslash", `dir\report.txt`, "text/plain", []byte("hello"), utils.CodeInvalidFile, "Invalid file name"},
		{"unsupported extension", "image.png", "image/png", []byte("hello"), utils.CodeInvalidFile, "Unsupported file type 'image/png'"},
		{"legacy word", "old.doc", "application/msword", []byte("hello"), utils.CodeInvalidFile, "Unsupported file type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			h := NewAnalysisHandler(svc, 32, utils.NopLogger())

			rec := upload(t, h, tt.filename, tt.contentType, tt.content)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Contains(t, body.Error, tt.wantMessage)
			assert.Nil(t, svc.got, "service is not called for invalid uploads")
		})
	}
}

func TestAnalyze_MissingFile(t *testing.T) {
	h := NewAnalysisHandler(&fakeService{}, 1<<20, utils.NopLogger())

	t.Run("wrong field", func(t *testing.T) {
		body, ct := multipartBody(t, "document", "a.txt", "text/plain", []byte("hello"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		h.Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, utils.CodeMissingFile, decodeError(t, rec).Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"text":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, utils.CodeMissingFile, decodeError(t, rec).Code)
	})
}

func TestAnalyze_OversizedContentLength(t *testing.T) {
	h := NewAnalysisHandler(&fakeService{}, 16, utils.NopLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("x"))
	req.ContentLength = 16 + multipartOverhead + 1
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.CodeInvalidFile, decodeError(t, rec).Code)
}

func TestAnalyze_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   utils.ErrorResponse
	}{
		{
			name:       "file processing",
			err:        utils.NewFileProcessingError("pdf", &extractor.FormatConversionError{MimeType: extractor.MimePDF}),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   utils.ErrorResponse{Error: "Failed to process pdf document", Code: utils.CodeFileProcessing, FileType: "pdf"},
		},
		{
			name:       "nlp service",
			err:        utils.NewNLPServiceError(http.StatusBadGateway, &analyzer.NLPServiceError{StatusCode: http.StatusBadGateway, Reason: analyzer.ReasonStatus}),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   utils.ErrorResponse{Error: "NLP analysis failed", Code: utils.CodeNLPService, Details: "nlp service: bad_status (status 502)", StatusCode: http.StatusBadGateway},
		},
		{
			name:       "unexpected",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantBody:   utils.ErrorResponse{Error: "Analysis failed", Code: utils.CodeInternal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAnalysisHandler(&fakeService{err: tt.err}, 1<<20, utils.NopLogger())
			rec := upload(t, h, "report.pdf", "application/pdf", []byte("%PDF-1.4"))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			if tt.wantBody.Details == "" {
				body.Details = ""
			}
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestFormats(t *testing.T) {
	h := NewAnalysisHandler(&fakeService{}, 2048, utils.NopLogger())
	rec := httptest.NewRecorder()
	h.Formats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Formats     []string `json:"formats"`
		Extensions  []string `json:"extensions"`
		MaxFileSize int64    `json:"max_file_size"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Formats, extractor.MimeDOCX)
	assert.Equal(t, []string{".docx", ".htm", ".html", ".markdown", ".md", ".pdf", ".txt"}, body.Extensions)
	assert.Equal(t, int64(2048), body.MaxFileSize)
}

func TestHealth(t *testing.T) {
	h := NewAnalysisHandler(&fakeService{}, 1, utils.NopLogger())
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestDetermineContentType(t *testing.T) {
	assert.Equal(t, extractor.MimeDOCX, determineContentType("Report.DOCX", ""))
	assert.Equal(t, extractor.MimeHTML, determineContentType("index.htm", "text/plain"))
	assert.Equal(t, extractor.MimeText, determineContentType("README", "text/txt"))
	assert.Equal(t, "application/msword", determineContentType("old.doc", "application/msword"))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "10MB", formatBytes(10<<20))
	assert.Equal(t, "2KB", formatBytes(2048))
	assert.Equal(t, "32 bytes", formatBytes(32))
}
