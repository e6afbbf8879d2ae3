// Package matcher orchestrates the research backends: it validates the
// request, picks backends per the configured strategy, falls back when
// the primary yields nothing usable, and ranks the combined result.
package matcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/claimsight/gomatch/internal/backend"
	"github.com/claimsight/gomatch/internal/describe"
	"github.com/claimsight/gomatch/internal/extract"
	"github.com/claimsight/gomatch/internal/metrics"
	"github.com/claimsight/gomatch/internal/product"
	"github.com/claimsight/gomatch/internal/rank"
)

// Strategy selects which backends run and in what order.
type Strategy string

const (
	StrategySearchFirst Strategy = "search_first"
	StrategyTaskFirst   Strategy = "task_first"
	StrategySearchOnly  Strategy = "search_only"
	StrategyTaskOnly    Strategy = "task_only"
)

// ParseStrategy validates a strategy name from config or CLI input.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySearchFirst, StrategyTaskFirst, StrategySearchOnly, StrategyTaskOnly:
		return Strategy(s), nil
	}
	return "", &ValidationError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", s)}
}

// ValidationError reports rejected input. It is the only error kind Run
// returns; backend trouble is reported inside the result envelope.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Descriptions longer than this are rejected rather than truncated so
// the caller learns their input was not what got researched.
const maxDescriptionLen = 1000

const fallbackDefaultMax = 10

// Matcher runs item descriptions against the configured backends.
type Matcher struct {
	Fast backend.Adapter // quick web search, seconds
	Deep backend.Adapter // deep research, minutes

	// DefaultMaxResults substitutes for non-positive maxResults
	// arguments. Zero means 10.
	DefaultMaxResults int

	Metrics *metrics.Metrics
}

// Run researches one item description and returns the ranked matches.
// The returned SearchResult is always a complete envelope, even when
// every backend failed; err is non-nil only for invalid input.
func (m *Matcher) Run(ctx context.Context, description string, maxResults int, strategy Strategy) (product.SearchResult, error) {
	start := time.Now()

	desc := strings.TrimSpace(description)
	if desc == "" {
		return product.SearchResult{}, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if len(desc) > maxDescriptionLen {
		return product.SearchResult{}, &ValidationError{
			Field:  "description",
			Reason: fmt.Sprintf("longer than %d characters", maxDescriptionLen),
		}
	}
	legs, err := m.legs(strategy)
	if err != nil {
		return product.SearchResult{}, err
	}
	if maxResults <= 0 {
		maxResults = m.DefaultMaxResults
		if maxResults <= 0 {
			maxResults = fallbackDefaultMax
		}
	}

	parsed := describe.Parse(desc)
	goal := parsed.ResearchGoal()
	req := backend.Request{
		Objective:  goal,
		SchemaHint: describe.OutputSchema(maxResults),
		MaxResults: maxResults,
	}

	requestID := uuid.NewString()
	logger := log.With().Str("request_id", requestID).Str("strategy", string(strategy)).Logger()
	logger.Info().Str("category", parsed.Category).Str("brand", parsed.Brand).
		Int("max_results", maxResults).Msg("matching item description")

	var (
		products       []product.Product
		attempts       []map[string]any
		apiUsed        string
		fallbackReason string
	)
	for i, leg := range legs {
		out := leg.Invoke(ctx, req)
		var usable []product.Product
		if out.Kind == backend.KindSuccess {
			usable = product.FromRecords(extract.Records(out.Payload))
		}
		m.Metrics.ObserveAttempt(leg.Name(), string(out.Kind), out.Elapsed)
		attempts = append(attempts, map[string]any{
			"backend":          leg.Name(),
			"outcome":          out.String(),
			"duration_seconds": out.Elapsed.Seconds(),
			"products":         len(usable),
		})
		logger.Debug().Str("backend", leg.Name()).Stringer("outcome", out).
			Int("products", len(usable)).Dur("elapsed", out.Elapsed).Msg("backend attempt")

		if len(usable) > 0 {
			products = usable
			apiUsed = leg.Name()
			break
		}
		if ctx.Err() != nil {
			break
		}
		if i+1 < len(legs) {
			fallbackReason = reasonFor(out)
			m.Metrics.ObserveFallback()
			logger.Info().Str("from", leg.Name()).Str("reason", fallbackReason).Msg("falling back")
		}
	}

	matched, total := rank.Rank(products, maxResults)
	m.Metrics.ObserveResult(len(matched))

	meta := map[string]any{
		"request_id":     requestID,
		"strategy":       string(strategy),
		"attempts":       attempts,
		"search_queries": parsed.Queries(),
		"research_goal":  goal,
	}
	if apiUsed != "" {
		meta["api_used"] = apiUsed
	}
	if fallbackReason != "" {
		meta["fallback_reason"] = fallbackReason
	}

	logger.Info().Int("matched", len(matched)).Int("total", total).
		Dur("elapsed", time.Since(start)).Msg("match complete")

	return product.SearchResult{
		Query:           desc,
		MatchedProducts: matched,
		ProcessingTime:  time.Since(start).Seconds(),
		TotalResults:    total,
		SearchMetadata:  meta,
	}, nil
}

func (m *Matcher) legs(strategy Strategy) ([]backend.Adapter, error) {
	var plan []backend.Adapter
	switch strategy {
	case StrategySearchFirst:
		plan = []backend.Adapter{m.Fast, m.Deep}
	case StrategyTaskFirst:
		plan = []backend.Adapter{m.Deep, m.Fast}
	case StrategySearchOnly:
		plan = []backend.Adapter{m.Fast}
	case StrategyTaskOnly:
		plan = []backend.Adapter{m.Deep}
	default:
		return nil, &ValidationError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", strategy)}
	}
	legs := plan[:0]
	for _, a := range plan {
		if a != nil {
			legs = append(legs, a)
		}
	}
	if len(legs) == 0 {
		return nil, &ValidationError{Field: "strategy", Reason: fmt.Sprintf("no backend configured for %q", strategy)}
	}
	return legs, nil
}

// reasonFor explains a fallback for the result metadata. A successful
// call can still trigger one when nothing in its payload survived
// extraction and normalization.
func reasonFor(out backend.Outcome) string {
	if out.Kind == backend.KindSuccess {
		return "no usable products in response"
	}
	return out.String()
}
