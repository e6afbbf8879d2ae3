package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SearchAPI is the fast-discovery adapter against the Parallel Search
// API. Typical latency is seconds, so it carries a short timeout.
type SearchAPI struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// Timeout bounds one Invoke including retries. Zero means 30s.
	Timeout time.Duration
	// MaxAttempts includes the initial attempt. Zero means 3.
	MaxAttempts int
	// RetryInterval is the initial backoff step; tests shrink it.
	RetryInterval time.Duration

	// Overfetch multiplies the requested result count so the
	// normalizer has surplus candidates to filter. Zero means 3.
	Overfetch int
	// MaxCharsPerResult caps excerpt size per hit. Zero means 1500.
	MaxCharsPerResult int
}

func (s *SearchAPI) Name() string { return "search" }

type searchRequest struct {
	Objective         string `json:"objective"`
	Processor         string `json:"processor"`
	MaxResults        int    `json:"max_results"`
	MaxCharsPerResult int    `json:"max_chars_per_result"`
}

// Invoke issues one search. The raw response body is the payload: its
// results array is picked up downstream by the recovery engine's
// conventional-key rule.
func (s *SearchAPI) Invoke(ctx context.Context, req Request) Outcome {
	start := time.Now()
	if s.BaseURL == "" {
		return failure(ErrTransport, "missing search base URL", 0)
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	overfetch := s.Overfetch
	if overfetch <= 0 {
		overfetch = 3
	}
	maxChars := s.MaxCharsPerResult
	if maxChars <= 0 {
		maxChars = 1500
	}
	body := searchRequest{
		Objective:         req.Objective,
		Processor:         req.Processor,
		MaxResults:        req.MaxResults * overfetch,
		MaxCharsPerResult: maxChars,
	}
	if body.Processor == "" {
		body.Processor = "base"
	}

	url := strings.TrimRight(s.BaseURL, "/") + "/v1beta/search"
	var raw []byte
	err := retryTransient(ctx, s.MaxAttempts, s.RetryInterval, func() error {
		var attemptErr error
		raw, attemptErr = doJSON(ctx, s.HTTPClient, http.MethodPost, url, s.APIKey, body)
		return attemptErr
	})
	elapsed := time.Since(start)
	if err != nil {
		log.Debug().Str("backend", s.Name()).Dur("elapsed", elapsed).Err(err).Msg("search invocation failed")
		return outcomeFor(ctx, err, elapsed)
	}

	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Results) == 0 {
		return empty(elapsed)
	}
	return success(string(raw), elapsed)
}
