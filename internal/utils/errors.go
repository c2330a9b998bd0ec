package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to API clients.
const (
	CodeMissingFile    = "MISSING_FILE"
	CodeInvalidFile    = "INVALID_FILE"
	CodeFileProcessing = "FILE_PROCESSING_ERROR"
	CodeNLPService     = "NLP_SERVICE_ERROR"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL_ERROR"
)

type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
	// FileType is set for FILE_PROCESSING_ERROR responses.
	FileType string
	// UpstreamStatus is the NLP service status code, 0 when the call never got a response.
	UpstreamStatus int
	Err            error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: CodeInvalidFile, Message: message}
}

func NewMissingFileError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: CodeMissingFile, Message: message}
}

func NewFileProcessingError(fileType string, err error) *AppError {
	return &AppError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       CodeFileProcessing,
		Message:    fmt.Sprintf("Failed to process %s document", fileType),
		Details:    errString(err),
		FileType:   fileType,
		Err:        err,
	}
}

func NewNLPServiceError(upstreamStatus int, err error) *AppError {
	return &AppError{
		StatusCode:     http.StatusServiceUnavailable,
		Code:           CodeNLPService,
		Message:        "NLP analysis failed",
		Details:        errString(err),
		UpstreamStatus: upstreamStatus,
		Err:            err,
	}
}

func NewTooManyRequestsError(message string) *AppError {
	return &AppError{StatusCode: http.StatusTooManyRequests, Code: CodeRateLimited, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: CodeInternal, Message: message}
}

// WrapInternal keeps the cause for logging while the client only sees message.
func WrapInternal(message string, err error) *AppError {
	e := NewInternalError(message)
	e.Err = err
	return e
}

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
