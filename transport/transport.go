// Package transport defines the collaborator interface through which the
// agent registry performs remote skill invocations, and the typed failure
// every implementation normalizes errors into.
//
// Implementations live in subpackages (connectrpc, mcp). Calls are
// request/response, individually cancellable through the context, and
// carry no retry logic; retry policy belongs to callers.
package transport

import (
	"context"
	"errors"
	"fmt"
)

// Invoker performs one remote skill call against an agent endpoint.
// Implementations must honor context cancellation and deadlines and return
// either a payload or an error wrapping a *Failure.
type Invoker interface {
	Invoke(ctx context.Context, endpoint, skill string, params map[string]any) (map[string]any, error)
}

// Kind classifies a remote invocation failure. Unreachable and Timeout are
// transient; Rejected is a definitive answer from the agent.
type Kind int

const (
	KindUnreachable Kind = iota
	KindTimeout
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindTimeout:
		return "timeout"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Failure is the typed error all invokers return. Code carries the remote
// rejection code when Kind is KindRejected.
type Failure struct {
	Kind   Kind
	Code   string
	Detail string
	Err    error
}

func (f *Failure) Error() string {
	if f.Code != "" {
		return fmt.Sprintf("remote invocation %s (%s): %s", f.Kind, f.Code, f.Detail)
	}
	return fmt.Sprintf("remote invocation %s: %s", f.Kind, f.Detail)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Unreachable builds a Failure for an endpoint that could not be reached.
func Unreachable(err error) *Failure {
	return &Failure{Kind: KindUnreachable, Detail: err.Error(), Err: err}
}

// Timeout builds a Failure for a call abandoned on deadline or cancellation.
func Timeout(err error) *Failure {
	return &Failure{Kind: KindTimeout, Detail: err.Error(), Err: err}
}

// Rejected builds a Failure for a call the agent answered with an error.
func Rejected(code, detail string) *Failure {
	return &Failure{Kind: KindRejected, Code: code, Detail: detail}
}

// AsFailure extracts the typed Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
