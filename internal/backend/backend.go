// Package backend talks to the external research services. Each adapter
// issues one logical request to one backend and reports a tagged Outcome
// so callers never have to disambiguate "no results" from "error" by
// inspecting nullable fields.
package backend

import (
	"context"
	"fmt"
	"time"
)

// Request carries one research invocation. Objective is the natural
// language research goal; SchemaHint describes the desired structured
// output for backends that accept one; Processor selects the backend's
// quality/cost tier.
type Request struct {
	Objective  string
	SchemaHint string
	Processor  string
	MaxResults int
}

// Adapter is the narrow contract against one external backend. Invoke
// must honor its configured timeout strictly and never panic; every
// failure mode is expressed through the returned Outcome.
type Adapter interface {
	Invoke(ctx context.Context, req Request) Outcome
	Name() string
}

// OutcomeKind tags the result of one adapter invocation.
type OutcomeKind string

const (
	KindSuccess OutcomeKind = "success"
	KindEmpty   OutcomeKind = "empty"
	KindFailure OutcomeKind = "failure"
	KindTimeout OutcomeKind = "timeout"
)

// ErrorKind classifies Failure outcomes.
type ErrorKind string

const (
	ErrTransport ErrorKind = "transport"
	ErrAuth      ErrorKind = "auth"
	ErrBackend   ErrorKind = "backend"
)

// Outcome is the tagged result of one adapter invocation. Payload is
// set only for KindSuccess; ErrKind/Detail only for KindFailure.
type Outcome struct {
	Kind    OutcomeKind
	Payload string
	ErrKind ErrorKind
	Detail  string
	Elapsed time.Duration
}

func success(payload string, elapsed time.Duration) Outcome {
	return Outcome{Kind: KindSuccess, Payload: payload, Elapsed: elapsed}
}

func empty(elapsed time.Duration) Outcome {
	return Outcome{Kind: KindEmpty, Elapsed: elapsed}
}

func failure(kind ErrorKind, detail string, elapsed time.Duration) Outcome {
	return Outcome{Kind: KindFailure, ErrKind: kind, Detail: detail, Elapsed: elapsed}
}

func timeout(elapsed time.Duration) Outcome {
	return Outcome{Kind: KindTimeout, Elapsed: elapsed}
}

// String renders the outcome for logs and metadata.
func (o Outcome) String() string {
	if o.Kind == KindFailure {
		return fmt.Sprintf("%s(%s: %s)", o.Kind, o.ErrKind, o.Detail)
	}
	return string(o.Kind)
}
