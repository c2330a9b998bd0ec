package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BerylCAtieno/document-analytics-api/internal/extractor"
	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/services"
	"github.com/BerylCAtieno/document-analytics-api/internal/utils"
)

const (
	// multipartOverhead is allowed on top of the file size for boundaries and headers.
	multipartOverhead = 1 << 20
	formField         = "file"
)

var extensionTypes = map[string]string{
	".html":     extractor.MimeHTML,
	".htm":      extractor.MimeHTML,
	".txt":      extractor.MimeText,
	".md":       extractor.MimeMarkdown,
	".markdown": extractor.MimeMarkdown,
	".pdf":      extractor.MimePDF,
	".docx":     extractor.MimeDOCX,
}

type AnalysisHandler struct {
	service     services.AnalysisService
	maxFileSize int64
	logger      *utils.Logger
}

func NewAnalysisHandler(service services.AnalysisService, maxFileSize int64, logger *utils.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Analyze accepts a multipart upload in the "file" field and returns the full report.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	limit := h.maxFileSize + multipartOverhead

	// Reject oversized requests before reading the body
	if r.ContentLength > limit {
		h.respondError(w, r, h.tooLarge())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.respondError(w, r, h.tooLarge())
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			h.respondError(w, r, utils.NewMissingFileError("No file uploaded"))
		default:
			h.respondError(w, r, utils.NewBadRequestError("Invalid form data"))
		}
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(formField)
	if err != nil {
		h.respondError(w, r, utils.NewMissingFileError("No file uploaded"))
		return
	}
	defer file.Close()

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"))

	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"size", header.Size,
		"reported_content_type", header.Header.Get("Content-Type"),
		"determined_content_type", contentType)

	if appErr := h.validateUpload(header, contentType); appErr != nil {
		h.respondError(w, r, appErr)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, r, utils.WrapInternal("Failed to read file", err))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, r, h.tooLarge())
		return
	}
	if len(data) == 0 {
		h.respondError(w, r, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	resp, err := h.service.Analyze(r.Context(), &models.AnalyzeRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: contentType,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Formats lists the accepted MIME types and the upload size limit.
func (h *AnalysisHandler) Formats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"formats":       h.service.SupportedTypes(),
		"extensions":    supportedExtensions(),
		"max_file_size": h.maxFileSize,
	})
}

func (h *AnalysisHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *AnalysisHandler) validateUpload(header *multipart.FileHeader, contentType string) *utils.AppError {
	name := header.Filename
	if strings.TrimSpace(name) == "" {
		return utils.NewBadRequestError("File name is required")
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return utils.NewBadRequestError("Invalid file name")
	}
	if header.Size == 0 {
		return utils.NewBadRequestError("Uploaded file is empty")
	}
	if header.Size > h.maxFileSize {
		return h.tooLarge()
	}
	if !slices.Contains(h.service.SupportedTypes(), contentType) {
		return utils.NewBadRequestError(fmt.Sprintf("Unsupported file type '%s'. Supported extensions: %s",
			contentType, strings.Join(supportedExtensions(), ", ")))
	}
	return nil
}

func (h *AnalysisHandler) tooLarge() *utils.AppError {
	return utils.NewBadRequestError(fmt.Sprintf("File size exceeds %s limit", formatBytes(h.maxFileSize)))
}

// determineContentType prefers the file extension and falls back to the
// declared part header.
func determineContentType(filename, headerContentType string) string {
	if mt, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mt
	}
	return extractor.Canonical(headerContentType)
}

func supportedExtensions() []string {
	exts := make([]string, 0, len(extensionTypes))
	for ext := range extensionTypes {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

func (h *AnalysisHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	if err := utils.RespondJSON(w, status, data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *AnalysisHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if appErr, ok := utils.AsAppError(err); ok {
		status = appErr.StatusCode
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request error", "status", status, "error", err)
	} else {
		h.logger.WarnContext(r.Context(), "Request rejected", "status", status, "error", err)
	}

	if err := utils.RespondError(w, err); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
