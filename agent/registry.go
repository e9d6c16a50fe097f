// Package agent maps agent identifiers to connection endpoints and performs
// remote skill invocations through an injected transport collaborator.
//
// The registry is a pure mapping plus passthrough: it applies each binding's
// deadline and delegates to the protocol's invoker. It never retries; retry
// policy, if any, belongs to the transport or to the caller.
package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xmmersia/hubcore/core/config"
	"github.com/xmmersia/hubcore/transport"
)

// Binding ties an agent identifier to an endpoint, the protocol it speaks,
// and an optional per-call timeout.
type Binding struct {
	Name     string
	Endpoint string
	Protocol config.Protocol
	Timeout  time.Duration
}

// Registry holds the fixed set of agent bindings for one hub instance.
// Bindings are registered at startup and read-only afterwards; the mutex
// only guards the registration phase against concurrent setup.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
	invokers map[config.Protocol]transport.Invoker
}

// NewRegistry creates a Registry dispatching to the given per-protocol
// invokers.
func NewRegistry(invokers map[config.Protocol]transport.Invoker) *Registry {
	return &Registry{
		bindings: make(map[string]Binding),
		invokers: invokers,
	}
}

// Register adds an agent binding. Binding an agent whose protocol has no
// invoker is a configuration error surfaced here, at startup, not at
// request time.
func (r *Registry) Register(b Binding) error {
	if b.Name == "" {
		return ErrEmptyAgentName
	}
	if b.Endpoint == "" {
		return fmt.Errorf("%w: %s", ErrEmptyEndpoint, b.Name)
	}
	if b.Protocol == "" {
		b.Protocol = config.ProtocolConnect
	}
	if _, ok := r.invokers[b.Protocol]; !ok {
		return fmt.Errorf("%w: %s (agent %s)", ErrUnknownProtocol, b.Protocol, b.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[b.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAgentExists, b.Name)
	}
	r.bindings[b.Name] = b
	return nil
}

// Resolve returns the binding for an agent identifier.
func (r *Registry) Resolve(name string) (Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[name]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %s", ErrUnknownAgent, name)
	}
	return b, nil
}

// Has reports whether an agent identifier is bound.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.bindings[name]
	return ok
}

// List returns all bindings sorted by agent name.
func (r *Registry) List() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bindings := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		bindings = append(bindings, b)
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Name < bindings[j].Name
	})
	return bindings
}

// Invoke performs a remote skill call on the named agent. The binding's
// timeout bounds the call when the caller's context carries no earlier
// deadline. Transport failures propagate verbatim.
func (r *Registry) Invoke(ctx context.Context, name, skill string, params map[string]any) (map[string]any, error) {
	b, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	invoker := r.invokers[b.Protocol]
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	return invoker.Invoke(ctx, b.Endpoint, skill, params)
}
