package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Details    string `json:"details,omitempty"`
	FileType   string `json:"fileType,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

func RespondJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// RespondError writes err as an ErrorResponse. Errors that are not an
// *AppError become a generic 500 without leaking their text.
func RespondError(w http.ResponseWriter, err error) error {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = NewInternalError("Analysis failed")
	}

	body := ErrorResponse{
		Error:    appErr.Message,
		Code:     appErr.Code,
		Details:  appErr.Details,
		FileType: appErr.FileType,
	}
	if appErr.Code == CodeNLPService {
		body.StatusCode = appErr.UpstreamStatus
	}
	return RespondJSON(w, appErr.StatusCode, body)
}
