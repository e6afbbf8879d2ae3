package backend

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Resilient wraps an Adapter with an optional circuit breaker and an
// optional client-side rate limiter. Both backends share one outbound
// connection pool across concurrent pipeline runs, so this is where
// misbehaving-backend pressure is absorbed.
type Resilient struct {
	Inner   Adapter
	Breaker *gobreaker.CircuitBreaker
	Limiter *rate.Limiter
}

// NewBreaker builds breaker settings tuned for slow research backends:
// trip after a burst of consecutive failures, probe again after a
// cooldown.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

func (r *Resilient) Name() string { return r.Inner.Name() }

// errOutcome lets the breaker count Failure/Timeout outcomes without
// losing the outcome itself.
var errOutcome = errors.New("backend outcome counted as failure")

func (r *Resilient) Invoke(ctx context.Context, req Request) Outcome {
	start := time.Now()
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return outcomeFor(ctx, err, time.Since(start))
		}
	}
	if r.Breaker == nil {
		return r.Inner.Invoke(ctx, req)
	}
	v, err := r.Breaker.Execute(func() (interface{}, error) {
		out := r.Inner.Invoke(ctx, req)
		if out.Kind == KindFailure || out.Kind == KindTimeout {
			return out, errOutcome
		}
		return out, nil
	})
	if out, ok := v.(Outcome); ok {
		return out
	}
	// Breaker open: the inner adapter was never called.
	return failure(ErrBackend, r.Inner.Name()+": "+err.Error(), time.Since(start))
}
