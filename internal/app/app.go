// Package app wires configuration into a ready-to-run matcher: backend
// adapters with their resilience wrappers, metrics, and the strategy.
package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/claimsight/gomatch/internal/backend"
	"github.com/claimsight/gomatch/internal/llm"
	"github.com/claimsight/gomatch/internal/matcher"
	"github.com/claimsight/gomatch/internal/metrics"
	"github.com/claimsight/gomatch/internal/product"
)

type App struct {
	cfg      Config
	strategy matcher.Strategy
	matcher  *matcher.Matcher
	registry *prometheus.Registry
}

// New validates cfg and builds the backend stack. Defaults are applied
// for any zero timing or limit fields.
func New(cfg Config) (*App, error) {
	applyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	strategy, err := matcher.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	hc := newBackendHTTPClient()
	fast := backend.Adapter(&backend.SearchAPI{
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.APIKey,
		HTTPClient:    hc,
		Timeout:       cfg.SearchTimeout,
		MaxAttempts:   cfg.MaxAttempts,
		RetryInterval: cfg.RetryInterval,
	})

	var deep backend.Adapter
	if cfg.DeepBackend == "chat" {
		transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
		if cfg.LLMBaseURL != "" {
			transportCfg.BaseURL = cfg.LLMBaseURL
		}
		transportCfg.HTTPClient = hc
		deep = &backend.ChatTask{
			Client:        &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)},
			Model:         cfg.LLMModel,
			Timeout:       cfg.TaskTimeout,
			MaxAttempts:   cfg.MaxAttempts,
			RetryInterval: cfg.RetryInterval,
		}
		log.Debug().Str("base", cfg.LLMBaseURL).Str("model", cfg.LLMModel).Msg("deep backend: chat")
	} else {
		deep = &backend.TaskAPI{
			BaseURL:       cfg.BaseURL,
			APIKey:        cfg.APIKey,
			HTTPClient:    hc,
			Timeout:       cfg.TaskTimeout,
			MaxAttempts:   cfg.MaxAttempts,
			RetryInterval: cfg.RetryInterval,
		}
		log.Debug().Str("base", cfg.BaseURL).Msg("deep backend: task")
	}

	fast = resilient(fast, cfg)
	deep = resilient(deep, cfg)

	registry := prometheus.NewRegistry()
	a := &App{
		cfg:      cfg,
		strategy: strategy,
		registry: registry,
		matcher: &matcher.Matcher{
			Fast:              fast,
			Deep:              deep,
			DefaultMaxResults: cfg.DefaultMaxResults,
			Metrics:           metrics.New(registry),
		},
	}
	return a, nil
}

// Match researches one item description. A non-positive maxResults
// falls back to the configured default.
func (a *App) Match(ctx context.Context, description string, maxResults int) (product.SearchResult, error) {
	return a.matcher.Run(ctx, description, maxResults, a.strategy)
}

// Registry exposes the metrics registry for scraping or test assertions.
func (a *App) Registry() *prometheus.Registry { return a.registry }

func (a *App) Close() {
	// nothing yet
}

func applyDefaults(cfg *Config) {
	if cfg.Strategy == "" {
		cfg.Strategy = DefaultStrategy
	}
	if cfg.DeepBackend == "" {
		cfg.DeepBackend = DefaultDeepBackend
	}
	if cfg.DefaultMaxResults == 0 {
		cfg.DefaultMaxResults = DefaultMaxResults
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.TaskTimeout == 0 {
		cfg.TaskTimeout = DefaultTaskTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
}

func resilient(inner backend.Adapter, cfg Config) backend.Adapter {
	r := &backend.Resilient{Inner: inner}
	if !cfg.DisableBreaker {
		r.Breaker = backend.NewBreaker(inner.Name())
	}
	if cfg.RequestsPerSecond > 0 {
		r.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	if r.Breaker == nil && r.Limiter == nil {
		return inner
	}
	return r
}
