package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// Parallel research service
	BaseURL string
	APIKey  string

	// Deep backend selection: "task" uses the research service's task
	// endpoint, "chat" drives an OpenAI-compatible chat model instead.
	DeepBackend string

	// LLM (chat deep backend only)
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Matching behavior
	Strategy          string
	DefaultMaxResults int

	// Timeouts / retries
	SearchTimeout time.Duration
	TaskTimeout   time.Duration
	MaxAttempts   int
	RetryInterval time.Duration

	// Resilience
	DisableBreaker    bool
	RequestsPerSecond float64

	Verbose bool
}

// Defaults shared between flag registration and config overlays.
const (
	DefaultStrategy      = "search_first"
	DefaultMaxResults    = 10
	DefaultSearchTimeout = 30 * time.Second
	DefaultTaskTimeout   = 5 * time.Minute
	DefaultMaxAttempts   = 3
	DefaultDeepBackend   = "task"
)
