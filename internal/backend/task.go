package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// TaskAPI is the deep-research adapter against the Parallel Task API.
// A run is created first, then its result is fetched with a blocking
// long poll; the whole exchange may take minutes, so the timeout budget
// is long.
type TaskAPI struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// Timeout bounds one Invoke including the result wait. Zero means 5m.
	Timeout time.Duration
	// MaxAttempts includes the initial attempt (run creation only; the
	// result poll is not replayed since the run already exists). Zero
	// means 3.
	MaxAttempts int
	// RetryInterval is the initial backoff step; tests shrink it.
	RetryInterval time.Duration
}

func (t *TaskAPI) Name() string { return "task" }

type taskSpec struct {
	OutputSchema string `json:"output_schema"`
}

type taskCreateRequest struct {
	Input     string   `json:"input"`
	Processor string   `json:"processor"`
	TaskSpec  taskSpec `json:"task_spec"`
}

// Invoke creates one task run and waits for its result. The payload is
// the raw result body; the recovery engine digs the product array out
// of the output field.
func (t *TaskAPI) Invoke(ctx context.Context, req Request) Outcome {
	start := time.Now()
	if t.BaseURL == "" {
		return failure(ErrTransport, "missing task base URL", 0)
	}
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	create := taskCreateRequest{
		Input:     req.Objective,
		Processor: req.Processor,
		TaskSpec:  taskSpec{OutputSchema: req.SchemaHint},
	}
	if create.Processor == "" {
		create.Processor = "base"
	}

	base := strings.TrimRight(t.BaseURL, "/")
	var created struct {
		RunID string `json:"run_id"`
	}
	err := retryTransient(ctx, t.MaxAttempts, t.RetryInterval, func() error {
		raw, attemptErr := doJSON(ctx, t.HTTPClient, http.MethodPost, base+"/v1/tasks/runs", t.APIKey, create)
		if attemptErr != nil {
			return attemptErr
		}
		return json.Unmarshal(raw, &created)
	})
	elapsed := time.Since(start)
	if err != nil {
		log.Debug().Str("backend", t.Name()).Dur("elapsed", elapsed).Err(err).Msg("task creation failed")
		return outcomeFor(ctx, err, elapsed)
	}
	if created.RunID == "" {
		return failure(ErrBackend, "task run created without run_id", time.Since(start))
	}

	resultURL := fmt.Sprintf("%s/v1/tasks/runs/%s/result", base, created.RunID)
	raw, err := doJSON(ctx, t.HTTPClient, http.MethodGet, resultURL, t.APIKey, nil)
	elapsed = time.Since(start)
	if err != nil {
		log.Debug().Str("backend", t.Name()).Str("run_id", created.RunID).Dur("elapsed", elapsed).Err(err).Msg("task result failed")
		return outcomeFor(ctx, err, elapsed)
	}

	var envelope struct {
		Output json.RawMessage `json:"output"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		trimmed := strings.TrimSpace(string(envelope.Output))
		if trimmed == "" || trimmed == "null" || trimmed == `""` || trimmed == "{}" {
			return empty(elapsed)
		}
	}
	return success(string(raw), elapsed)
}
