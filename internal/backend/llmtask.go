package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/claimsight/gomatch/internal/llm"
)

// ChatTask is an alternate deep-research adapter that drives an
// OpenAI-compatible chat endpoint under a strict JSON-only contract.
// Useful for self-hosted models and for local stubs; selected by config
// in place of TaskAPI.
type ChatTask struct {
	Client llm.Client
	Model  string

	// Timeout bounds one Invoke including retries. Zero means 5m.
	Timeout time.Duration
	// MaxAttempts includes the initial attempt. Zero means 3.
	MaxAttempts int
	// RetryInterval is the initial backoff step; tests shrink it.
	RetryInterval time.Duration
}

func (c *ChatTask) Name() string { return "chat-task" }

const chatSystemMessage = "You are a product research assistant. Respond with strict JSON only, no narration. "

// Invoke asks the model for the product array described by the schema
// hint. The assistant content is the payload; non-JSON damage is the
// recovery engine's problem, not this adapter's.
func (c *ChatTask) Invoke(ctx context.Context, req Request) Outcome {
	start := time.Now()
	if c.Client == nil || strings.TrimSpace(c.Model) == "" {
		return failure(ErrTransport, "chat task adapter not configured", 0)
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	system := chatSystemMessage + req.SchemaHint
	chatReq := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: req.Objective},
		},
		Temperature: 0.1,
		N:           1,
	}

	var resp openai.ChatCompletionResponse
	err := retryTransient(ctx, c.MaxAttempts, c.RetryInterval, func() error {
		var attemptErr error
		resp, attemptErr = c.Client.CreateChatCompletion(ctx, chatReq)
		return classifyOpenAIErr(attemptErr)
	})
	elapsed := time.Since(start)
	if err != nil {
		return outcomeFor(ctx, err, elapsed)
	}
	if len(resp.Choices) == 0 {
		return empty(elapsed)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return empty(elapsed)
	}
	return success(content, elapsed)
}

// classifyOpenAIErr rewraps go-openai API errors as statusError so the
// shared retry/outcome classification applies.
func classifyOpenAIErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &statusError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &statusError{Status: reqErr.HTTPStatusCode, Body: http.StatusText(reqErr.HTTPStatusCode)}
	}
	return err
}
