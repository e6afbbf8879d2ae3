package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("PARALLEL_BASE_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("PARALLEL_API_KEY")
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}

	if cfg.Strategy == "" {
		cfg.Strategy = os.Getenv("GOMATCH_STRATEGY")
	}
	if cfg.DeepBackend == "" {
		cfg.DeepBackend = os.Getenv("GOMATCH_DEEP_BACKEND")
	}
	if cfg.DefaultMaxResults == 0 {
		if n, err := strconv.Atoi(os.Getenv("GOMATCH_MAX_RESULTS")); err == nil && n > 0 {
			cfg.DefaultMaxResults = n
		}
	}

	setDuration := func(dst *time.Duration, envKey string) {
		if *dst != 0 {
			return
		}
		if s := os.Getenv(envKey); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.SearchTimeout, "GOMATCH_SEARCH_TIMEOUT")
	setDuration(&cfg.TaskTimeout, "GOMATCH_TASK_TIMEOUT")
	setDuration(&cfg.RetryInterval, "GOMATCH_RETRY_INTERVAL")

	if cfg.RequestsPerSecond == 0 {
		if f, err := strconv.ParseFloat(os.Getenv("GOMATCH_RPS"), 64); err == nil && f > 0 {
			cfg.RequestsPerSecond = f
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.DisableBreaker, "GOMATCH_NO_BREAKER")
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when the corresponding env vars are set. This lets env take precedence over
// values coming from a config file while flags remain highest precedence.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("PARALLEL_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PARALLEL_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}
	if v := os.Getenv("GOMATCH_STRATEGY"); v != "" {
		cfg.Strategy = v
	}
	if v := os.Getenv("GOMATCH_DEEP_BACKEND"); v != "" {
		cfg.DeepBackend = v
	}
	if n, err := strconv.Atoi(os.Getenv("GOMATCH_MAX_RESULTS")); err == nil && n > 0 {
		cfg.DefaultMaxResults = n
	}
	if s := os.Getenv("GOMATCH_SEARCH_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.SearchTimeout = d
		}
	}
	if s := os.Getenv("GOMATCH_TASK_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.TaskTimeout = d
		}
	}

	setBool := func(dst *bool, envKey string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.DisableBreaker, "GOMATCH_NO_BREAKER")
}
