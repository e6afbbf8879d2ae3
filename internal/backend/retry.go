package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// statusError carries an HTTP status so retry classification and auth
// detection can key off it.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, snippet(e.Body, 200))
}

// isTransient reports whether an attempt is worth retrying: network
// errors, 5xx and rate limiting. Other 4xx are the caller's fault and
// retrying cannot help.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.Status >= 500 || se.Status == http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Anything that never produced an HTTP status is a transport fault.
	return true
}

// retryTransient runs op with exponential backoff, up to maxAttempts
// total attempts, bounded by ctx. Non-transient errors abort
// immediately.
func retryTransient(ctx context.Context, maxAttempts int, initial time.Duration, op func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initial
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxAttempts-1)), ctx)
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

// outcomeFor maps an invocation error to its Outcome: context expiry to
// Timeout, auth statuses to Failure(auth), other HTTP statuses to
// Failure(backend), everything else to Failure(transport).
func outcomeFor(ctx context.Context, err error, elapsed time.Duration) Outcome {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return timeout(elapsed)
	}
	var se *statusError
	if errors.As(err, &se) {
		if se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden {
			return failure(ErrAuth, err.Error(), elapsed)
		}
		return failure(ErrBackend, err.Error(), elapsed)
	}
	return failure(ErrTransport, err.Error(), elapsed)
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
