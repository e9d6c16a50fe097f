// Package hub is the composition root: it assembles the policy, catalog,
// registry, gates, and dispatcher from a Definition, validates the whole
// configuration at startup, and exposes the operations a serving surface
// needs.
//
// Validation runs twice: once at construction and again on every reload.
// A definition that binds an action to a skill its agent does not expose is
// rejected up front, but the dispatcher still re-checks exposure at request
// time, so a reload that slips past validation can never open a hidden
// skill.
package hub

import (
	"context"
	"net/http"
	"time"

	"github.com/xmmersia/hubcore/agent"
	"github.com/xmmersia/hubcore/auth"
	"github.com/xmmersia/hubcore/catalog"
	"github.com/xmmersia/hubcore/consent"
	"github.com/xmmersia/hubcore/core/config"
	"github.com/xmmersia/hubcore/core/protocol"
	"github.com/xmmersia/hubcore/dispatch"
	"github.com/xmmersia/hubcore/observability"
	"github.com/xmmersia/hubcore/policy"
	"github.com/xmmersia/hubcore/transport"
	"github.com/xmmersia/hubcore/transport/connectrpc"
	"github.com/xmmersia/hubcore/transport/mcp"
)

// Hub is one assembled, validated hub instance.
type Hub struct {
	definition Definition
	agents     *agent.Registry
	dispatcher *dispatch.Dispatcher
	observer   observability.Observer

	identity auth.Identity
	store    consent.Store
	invokers map[config.Protocol]transport.Invoker

	// Built-in collaborators; nil when a custom one was injected.
	sessions *auth.SessionManager
	memory   *consent.MemoryStore

	started time.Time
}

// Option configures a Hub at construction.
type Option func(*Hub)

// WithObserver sets the observer wired into the dispatcher and hub events.
func WithObserver(observer observability.Observer) Option {
	return func(h *Hub) {
		if observer != nil {
			h.observer = observer
		}
	}
}

// WithIdentity replaces the built-in magic-link session manager with an
// external identity collaborator.
func WithIdentity(identity auth.Identity) Option {
	return func(h *Hub) {
		h.identity = identity
		h.sessions = nil
	}
}

// WithConsentStore replaces the built-in in-memory consent store.
func WithConsentStore(store consent.Store) Option {
	return func(h *Hub) {
		h.store = store
		h.memory = nil
	}
}

// WithInvoker replaces or adds the transport invoker for a protocol. Useful
// for tests and for deployments with custom transports.
func WithInvoker(p config.Protocol, invoker transport.Invoker) Option {
	return func(h *Hub) {
		h.invokers[p] = invoker
	}
}

// New assembles a Hub from a definition. The definition is validated in
// full; the first fault aborts construction with a ConfigError naming the
// offending component.
func New(def Definition, opts ...Option) (*Hub, error) {
	if def.Hub.Slug == "" {
		return nil, &ConfigError{Component: "hub", Name: def.Hub.Name, Detail: "slug is required"}
	}

	h := &Hub{
		definition: def,
		observer:   observability.NoOpObserver{},
		invokers: map[config.Protocol]transport.Invoker{
			config.ProtocolConnect: connectrpc.NewInvoker(http.DefaultClient),
			config.ProtocolMCP:     mcp.NewInvoker(def.Hub.Version),
		},
		started: time.Now(),
	}

	if def.Hub.AuthRequired {
		h.sessions = auth.NewSessionManager(def.Auth)
		h.identity = h.sessions
	}
	if def.Hub.ConsentRequired {
		h.memory = consent.NewMemoryStore(def.Consent)
		h.store = h.memory
	}

	for _, opt := range opts {
		opt(h)
	}

	h.agents = agent.NewRegistry(h.invokers)
	for name, cfg := range def.Agents {
		err := h.agents.Register(agent.Binding{
			Name:     name,
			Endpoint: cfg.Endpoint,
			Protocol: cfg.Protocol,
			Timeout:  cfg.Timeout(),
		})
		if err != nil {
			return nil, &ConfigError{Component: "agent", Name: name, Detail: err.Error()}
		}
	}

	pol := policy.New(def.Exposure)
	cat, err := catalog.New(def.Actions)
	if err != nil {
		return nil, &ConfigError{Component: "action", Name: "", Detail: err.Error()}
	}
	if err := h.validate(pol, cat); err != nil {
		return nil, err
	}

	h.dispatcher = dispatch.New(
		def.Hub,
		&dispatch.Snapshot{Policy: pol, Catalog: cat},
		h.agents,
		auth.NewGate(h.identity),
		consent.NewGate(h.store),
		dispatch.WithObserver(h.observer),
	)
	return h, nil
}

// validate cross-checks exposure policy and catalog against the agent
// bindings. Every exposure entry must name a bound agent; every action must
// target a bound agent and a user-invokable skill; every precondition must
// target a bound agent and a hub-invokable skill.
func (h *Hub) validate(pol *policy.Policy, cat *catalog.Catalog) error {
	for _, name := range pol.Agents() {
		if !h.agents.Has(name) {
			return &ConfigError{Component: "exposure", Name: name, Detail: "agent is not bound"}
		}
	}

	for _, action := range cat.List() {
		if !h.agents.Has(action.Agent) {
			return &ConfigError{Component: "action", Name: action.ID, Detail: "agent " + action.Agent + " is not bound"}
		}
		if !pol.UserInvokable(action.Agent, action.Skill).Allowed() {
			return &ConfigError{Component: "action", Name: action.ID, Detail: "skill " + action.Skill + " is not exposed by " + action.Agent}
		}

		preAgent, preSkill, ok := action.PreconditionTarget()
		if !ok {
			continue
		}
		if !h.agents.Has(preAgent) {
			return &ConfigError{Component: "action", Name: action.ID, Detail: "precondition agent " + preAgent + " is not bound"}
		}
		if !pol.HubInvokable(preAgent, preSkill).Allowed() {
			return &ConfigError{Component: "action", Name: action.ID, Detail: "precondition skill " + preSkill + " is not invokable on " + preAgent}
		}
	}
	return nil
}

// Dispatch runs one user action through the gate sequence.
func (h *Hub) Dispatch(ctx context.Context, user protocol.User, actionID string, params map[string]any) protocol.DispatchResult {
	return h.dispatcher.Dispatch(ctx, user, actionID, params)
}

// Actions returns the current action catalog in declaration order.
func (h *Hub) Actions() []catalog.Action {
	return h.dispatcher.Snapshot().Catalog.List()
}

// Reload validates a new exposure policy and action catalog against the
// fixed agent bindings and, if valid, swaps them in atomically. In-flight
// dispatches finish on the snapshot they started with.
func (h *Hub) Reload(exposure map[string]policy.Exposure, actions []catalog.Action) error {
	pol := policy.New(exposure)
	cat, err := catalog.New(actions)
	if err != nil {
		return &ConfigError{Component: "action", Name: "", Detail: err.Error()}
	}
	if err := h.validate(pol, cat); err != nil {
		return err
	}

	h.dispatcher.Swap(&dispatch.Snapshot{Policy: pol, Catalog: cat})
	h.observer.OnEvent(context.Background(), observability.Event{
		Type:      "hub.reload",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "hub.Reload",
		Data:      map[string]any{"hub": h.definition.Hub.Slug, "actions": cat.Len()},
	})
	return nil
}

// Config returns the hub's deployment configuration.
func (h *Hub) Config() config.HubConfig {
	return h.definition.Hub
}

// Metrics returns a copy of the dispatch counters.
func (h *Hub) Metrics() dispatch.MetricsSnapshot {
	return h.dispatcher.Metrics()
}

// Sessions returns the built-in magic-link session manager, or nil when a
// custom identity collaborator is in use or auth is not required.
func (h *Hub) Sessions() *auth.SessionManager {
	return h.sessions
}

// ConsentStore returns the built-in consent store, or nil when a custom
// store is in use or consent is not required.
func (h *Hub) ConsentStore() *consent.MemoryStore {
	return h.memory
}

// ConsentForm returns the consent form content for this hub.
func (h *Hub) ConsentForm() consent.Form {
	return consent.Form{
		Title:          h.definition.Consent.Title,
		Text:           h.definition.Consent.Text,
		DataUsage:      h.definition.Consent.DataUsage,
		DataSharedWith: h.definition.Consent.DataSharedWith,
		Revocable:      h.definition.Consent.Revocable,
	}
}
