package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/claimsight/gomatch/internal/matcher"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags and env variables.
type FileConfig struct {
	Parallel struct {
		BaseURL string `yaml:"base" json:"base"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"parallel" json:"parallel"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Strategy    string `yaml:"strategy" json:"strategy"`
	DeepBackend string `yaml:"deepBackend" json:"deepBackend"`
	MaxResults  int    `yaml:"maxResults" json:"maxResults"`

	Timeouts struct {
		Search time.Duration `yaml:"search" json:"search"`
		Task   time.Duration `yaml:"task" json:"task"`
	} `yaml:"timeouts" json:"timeouts"`

	Retry struct {
		Attempts int           `yaml:"attempts" json:"attempts"`
		Interval time.Duration `yaml:"interval" json:"interval"`
	} `yaml:"retry" json:"retry"`

	Rate struct {
		RequestsPerSecond float64 `yaml:"rps" json:"rps"`
	} `yaml:"rate" json:"rate"`

	Breaker struct {
		Disable bool `yaml:"disable" json:"disable"`
	} `yaml:"breaker" json:"breaker"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for fields that
// are currently unset or still at their flag defaults. Flags should already
// have been parsed; file config supplies defaults without clobbering
// explicit flag values.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if cfg.BaseURL == "" && fc.Parallel.BaseURL != "" {
		cfg.BaseURL = fc.Parallel.BaseURL
	}
	if cfg.APIKey == "" && fc.Parallel.APIKey != "" {
		cfg.APIKey = fc.Parallel.APIKey
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if (cfg.Strategy == "" || cfg.Strategy == DefaultStrategy) && fc.Strategy != "" {
		cfg.Strategy = fc.Strategy
	}
	if (cfg.DeepBackend == "" || cfg.DeepBackend == DefaultDeepBackend) && fc.DeepBackend != "" {
		cfg.DeepBackend = fc.DeepBackend
	}
	if (cfg.DefaultMaxResults == 0 || cfg.DefaultMaxResults == DefaultMaxResults) && fc.MaxResults > 0 {
		cfg.DefaultMaxResults = fc.MaxResults
	}

	if (cfg.SearchTimeout == 0 || cfg.SearchTimeout == DefaultSearchTimeout) && fc.Timeouts.Search > 0 {
		cfg.SearchTimeout = fc.Timeouts.Search
	}
	if (cfg.TaskTimeout == 0 || cfg.TaskTimeout == DefaultTaskTimeout) && fc.Timeouts.Task > 0 {
		cfg.TaskTimeout = fc.Timeouts.Task
	}
	if (cfg.MaxAttempts == 0 || cfg.MaxAttempts == DefaultMaxAttempts) && fc.Retry.Attempts > 0 {
		cfg.MaxAttempts = fc.Retry.Attempts
	}
	if cfg.RetryInterval == 0 && fc.Retry.Interval > 0 {
		cfg.RetryInterval = fc.Retry.Interval
	}
	if cfg.RequestsPerSecond == 0 && fc.Rate.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = fc.Rate.RequestsPerSecond
	}
	if !cfg.DisableBreaker && fc.Breaker.Disable {
		cfg.DisableBreaker = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	strategy, err := matcher.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	switch cfg.DeepBackend {
	case "", DefaultDeepBackend, "chat":
	default:
		return fmt.Errorf("config: unknown deep backend %q (want task or chat)", cfg.DeepBackend)
	}

	usesParallel := strategy != matcher.StrategyTaskOnly || cfg.DeepBackend != "chat"
	if usesParallel && cfg.APIKey == "" {
		return errors.New("config: api key is required (set PARALLEL_API_KEY)")
	}
	if cfg.DeepBackend == "chat" && strategy != matcher.StrategySearchOnly && cfg.LLMModel == "" {
		return errors.New("config: llm.model is required for the chat deep backend (or set LLM_MODEL)")
	}
	if cfg.DefaultMaxResults < 0 || cfg.MaxAttempts < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.SearchTimeout < 0 || cfg.TaskTimeout < 0 || cfg.RetryInterval < 0 {
		return errors.New("config: negative timeouts are not allowed")
	}
	return nil
}
