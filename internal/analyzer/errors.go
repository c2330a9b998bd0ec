package analyzer

import (
	"errors"
	"fmt"
)

// Reasons an NLP call failed. They double as metric labels.
const (
	ReasonStatus      = "bad_status"
	ReasonTimeout     = "timeout"
	ReasonNetwork     = "network"
	ReasonMalformed   = "malformed_response"
	ReasonMissingKeys = "missing_keys"
	ReasonCircuitOpen = "circuit_open"
	ReasonRateLimited = "rate_limited"
	ReasonCanceled    = "canceled"
)

// NLPServiceError reports any failure at the NLP collaborator boundary.
// StatusCode is the upstream HTTP status, 0 when no response was received.
type NLPServiceError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *NLPServiceError) Error() string {
	msg := "nlp service: " + e.Reason
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NLPServiceError) Unwrap() error {
	return e.Err
}

// AsNLPServiceError extracts an *NLPServiceError from err's chain.
func AsNLPServiceError(err error) (*NLPServiceError, bool) {
	var nlpErr *NLPServiceError
	if errors.As(err, &nlpErr) {
		return nlpErr, true
	}
	return nil, false
}
