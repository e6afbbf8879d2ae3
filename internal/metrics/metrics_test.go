package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAttempt(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveAttempt("search", "success", 250*time.Millisecond)
	m.ObserveAttempt("search", "success", 100*time.Millisecond)
	m.ObserveAttempt("task", "timeout", time.Second)

	if got := testutil.ToFloat64(m.backendAttempts.WithLabelValues("search", "success")); got != 2 {
		t.Fatalf("search success attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.backendAttempts.WithLabelValues("task", "timeout")); got != 1 {
		t.Fatalf("task timeout attempts = %v, want 1", got)
	}
}

func TestObserveFallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveFallback()
	if got := testutil.ToFloat64(m.fallbacks); got != 1 {
		t.Fatalf("fallbacks = %v, want 1", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAttempt("search", "success", time.Second)
	m.ObserveResult(3)
	m.ObserveFallback()
}
