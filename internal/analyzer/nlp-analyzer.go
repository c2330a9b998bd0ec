package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/BerylCAtieno/document-analytics-api/internal/config"
	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/utils"
)

// maxResponseSize bounds how much of the NLP response body is read.
const maxResponseSize = 16 << 20

// RequiredKeys must all be present, and not null, in an NLP response.
var RequiredKeys = []string{"sentiment_analysis", "keyword_extraction", "topic_modeling", "language_patterns"}

type Analyzer interface {
	Analyze(ctx context.Context, req *models.NLPRequest) (*models.AdvancedFeatures, error)
}

// Observer receives the outcome of every NLP call.
type Observer interface {
	ObserveNLP(outcome string, elapsed time.Duration)
}

type nlpAnalyzer struct {
	url      string
	timeout  time.Duration
	logger   *utils.Logger
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[*models.AdvancedFeatures]
	observer Observer
}

type Option func(*nlpAnalyzer)

func WithHTTPClient(c *http.Client) Option {
	return func(a *nlpAnalyzer) { a.client = c }
}

func WithObserver(o Observer) Option {
	return func(a *nlpAnalyzer) { a.observer = o }
}

// NewNLPAnalyzer posts documents to cfg.ServiceURL. Calls are throttled by a
// token bucket and guarded by a circuit breaker that opens after
// cfg.BreakerFailures consecutive failures.
func NewNLPAnalyzer(cfg config.NLPConfig, logger *utils.Logger, opts ...Option) Analyzer {
	burst := max(cfg.RateBurst, 1)
	a := &nlpAnalyzer{
		url:     cfg.ServiceURL,
		timeout: cfg.Timeout,
		logger:  logger,
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
	}
	if a.timeout <= 0 {
		a.timeout = 30 * time.Second
	}
	if cfg.RateLimit <= 0 {
		a.limiter = rate.NewLimiter(rate.Inf, burst)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	a.breaker = gobreaker.NewCircuitBreaker[*models.AdvancedFeatures](gobreaker.Settings{
		Name:    "nlp-service",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsExcluded: func(err error) bool {
			// Caller cancellations do not count as service failures.
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("NLP circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *nlpAnalyzer) Analyze(ctx context.Context, req *models.NLPRequest) (*models.AdvancedFeatures, error) {
	start := time.Now()
	result, err := a.analyze(ctx, req)

	outcome := "success"
	if err != nil {
		outcome = "error"
		if nlpErr, ok := AsNLPServiceError(err); ok {
			outcome = nlpErr.Reason
		}
	}
	if a.observer != nil {
		a.observer.ObserveNLP(outcome, time.Since(start))
	}
	return result, err
}

func (a *nlpAnalyzer) analyze(ctx context.Context, req *models.NLPRequest) (*models.AdvancedFeatures, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		reason := ReasonRateLimited
		if ctx.Err() != nil {
			reason = ReasonCanceled
		}
		return nil, &NLPServiceError{Reason: reason, Err: err}
	}

	result, err := a.breaker.Execute(func() (*models.AdvancedFeatures, error) {
		return a.call(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &NLPServiceError{Reason: ReasonCircuitOpen, Err: err}
	}
	return result, err
}

func (a *nlpAnalyzer) call(ctx context.Context, nlpReq *models.NLPRequest) (*models.AdvancedFeatures, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	jsonData, err := json.Marshal(nlpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.logger.Error("NLP service error", "status", resp.StatusCode, "body", truncate(string(body), 512))
		return nil, &NLPServiceError{
			StatusCode: resp.StatusCode,
			Reason:     ReasonStatus,
			Err:        fmt.Errorf("NLP service returned status %d", resp.StatusCode),
		}
	}

	return decodeFeatures(body)
}

// decodeFeatures checks the top-level shape before decoding so an incomplete
// response is rejected rather than partially accepted.
func decodeFeatures(body []byte) (*models.AdvancedFeatures, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &NLPServiceError{Reason: ReasonMalformed, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	var missing []string
	for _, key := range RequiredKeys {
		v, ok := raw[key]
		if !ok || string(bytes.TrimSpace(v)) == "null" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &NLPServiceError{
			Reason: ReasonMissingKeys,
			Err:    fmt.Errorf("response missing required keys: %s", strings.Join(missing, ", ")),
		}
	}

	var features models.AdvancedFeatures
	if err := json.Unmarshal(body, &features); err != nil {
		return nil, &NLPServiceError{Reason: ReasonMalformed, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &features, nil
}

func transportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &NLPServiceError{Reason: ReasonTimeout, Err: err}
	case errors.Is(ctx.Err(), context.Canceled):
		return &NLPServiceError{Reason: ReasonCanceled, Err: err}
	default:
		return &NLPServiceError{Reason: ReasonNetwork, Err: err}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
