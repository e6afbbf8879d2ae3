package main

import (
	"flag"
	"testing"
	"time"

	"github.com/claimsight/gomatch/internal/app"
)

func TestEnvSeedsFlagDefaults(t *testing.T) {
	t.Setenv("GOMATCH_STRATEGY", "task_only")
	t.Setenv("GOMATCH_DEEP_BACKEND", "chat")
	t.Setenv("GOMATCH_SEARCH_TIMEOUT", "45s")
	t.Setenv("GOMATCH_TASK_TIMEOUT", "2m")

	if got := envOr("GOMATCH_STRATEGY", app.DefaultStrategy); got != "task_only" {
		t.Fatalf("strategy default = %q, want env value", got)
	}
	if got := envOr("GOMATCH_DEEP_BACKEND", app.DefaultDeepBackend); got != "chat" {
		t.Fatalf("deep backend default = %q, want env value", got)
	}
	if got := envDurationOr("GOMATCH_SEARCH_TIMEOUT", app.DefaultSearchTimeout); got != 45*time.Second {
		t.Fatalf("search timeout default = %v, want 45s", got)
	}
	if got := envDurationOr("GOMATCH_TASK_TIMEOUT", app.DefaultTaskTimeout); got != 2*time.Minute {
		t.Fatalf("task timeout default = %v, want 2m", got)
	}
}

func TestEnvDefaultsFallBackWhenUnsetOrInvalid(t *testing.T) {
	t.Setenv("GOMATCH_STRATEGY", "")
	t.Setenv("GOMATCH_SEARCH_TIMEOUT", "not-a-duration")

	if got := envOr("GOMATCH_STRATEGY", app.DefaultStrategy); got != app.DefaultStrategy {
		t.Fatalf("strategy default = %q, want %q", got, app.DefaultStrategy)
	}
	if got := envDurationOr("GOMATCH_SEARCH_TIMEOUT", app.DefaultSearchTimeout); got != app.DefaultSearchTimeout {
		t.Fatalf("search timeout default = %v, want %v", got, app.DefaultSearchTimeout)
	}
}

func TestExplicitFlagBeatsEnvDefault(t *testing.T) {
	t.Setenv("GOMATCH_STRATEGY", "task_only")

	newSet := func() (*flag.FlagSet, *string) {
		fs := flag.NewFlagSet("gomatch", flag.ContinueOnError)
		strategy := fs.String("strategy", envOr("GOMATCH_STRATEGY", app.DefaultStrategy), "")
		return fs, strategy
	}

	fs, strategy := newSet()
	if err := fs.Parse([]string{"-strategy", "search_only"}); err != nil {
		t.Fatal(err)
	}
	if *strategy != "search_only" {
		t.Fatalf("explicit flag lost to env: %q", *strategy)
	}

	fs, strategy = newSet()
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if *strategy != "task_only" {
		t.Fatalf("env-seeded default not applied: %q", *strategy)
	}
}
