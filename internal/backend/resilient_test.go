package backend

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

type scriptedAdapter struct {
	name     string
	outcomes []Outcome
	calls    atomic.Int32
}

func (s *scriptedAdapter) Name() string { return s.name }

func (s *scriptedAdapter) Invoke(context.Context, Request) Outcome {
	n := int(s.calls.Add(1)) - 1
	if n >= len(s.outcomes) {
		n = len(s.outcomes) - 1
	}
	return s.outcomes[n]
}

func TestResilient_PassesThroughSuccess(t *testing.T) {
	inner := &scriptedAdapter{name: "fake", outcomes: []Outcome{success("payload", time.Millisecond)}}
	r := &Resilient{Inner: inner, Breaker: NewBreaker("fake"), Limiter: rate.NewLimiter(rate.Inf, 1)}
	out := r.Invoke(context.Background(), Request{})
	if out.Kind != KindSuccess || out.Payload != "payload" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if r.Name() != "fake" {
		t.Fatalf("name not delegated")
	}
}

func TestResilient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &scriptedAdapter{name: "flaky", outcomes: []Outcome{failure(ErrBackend, "down", 0)}}
	br := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "flaky",
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 2
		},
	})
	r := &Resilient{Inner: inner, Breaker: br}

	for i := 0; i < 2; i++ {
		if out := r.Invoke(context.Background(), Request{}); out.Kind != KindFailure {
			t.Fatalf("call %d: outcome = %s, want failure", i, out)
		}
	}
	// Breaker now open: inner must not be reached.
	before := inner.calls.Load()
	out := r.Invoke(context.Background(), Request{})
	if out.Kind != KindFailure {
		t.Fatalf("open breaker outcome = %s, want failure", out)
	}
	if inner.calls.Load() != before {
		t.Fatalf("inner adapter invoked while breaker open")
	}
}

func TestResilient_NoBreakerNoLimiter(t *testing.T) {
	inner := &scriptedAdapter{name: "plain", outcomes: []Outcome{empty(0)}}
	r := &Resilient{Inner: inner}
	if out := r.Invoke(context.Background(), Request{}); out.Kind != KindEmpty {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}
