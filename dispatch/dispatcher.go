// Package dispatch implements the action-dispatch engine: the strictly
// ordered gate sequence that turns a user-initiated action into a remote
// skill invocation, or into a normalized denial.
//
// The gate order is fixed: action resolution, auth, consent, exposure
// re-check, precondition, invocation. Every gate fails closed and stops the
// sequence; the remote call is never attempted after a failed gate. The
// dispatcher is stateless across requests — one instance serves unbounded
// concurrent callers.
package dispatch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/xmmersia/hubcore/agent"
	"github.com/xmmersia/hubcore/auth"
	"github.com/xmmersia/hubcore/catalog"
	"github.com/xmmersia/hubcore/consent"
	"github.com/xmmersia/hubcore/core/config"
	"github.com/xmmersia/hubcore/core/protocol"
	"github.com/xmmersia/hubcore/observability"
	"github.com/xmmersia/hubcore/policy"
)

// Snapshot bundles the reloadable configuration a dispatch reads: exposure
// policy and action catalog. A dispatch loads one snapshot at entry and uses
// it throughout, so a concurrent reload never shows it a half-updated view.
type Snapshot struct {
	Policy  *policy.Policy
	Catalog *catalog.Catalog
}

// Dispatcher runs the gate sequence. Construct once per hub and share
// across callers.
type Dispatcher struct {
	config   config.HubConfig
	snapshot atomic.Pointer[Snapshot]
	agents   *agent.Registry
	auth     *auth.Gate
	consent  *consent.Gate
	observer observability.Observer
	metrics  *Metrics
}

// Option configures a Dispatcher at construction.
type Option func(*Dispatcher)

// WithObserver replaces the default NoOp observer.
func WithObserver(observer observability.Observer) Option {
	return func(d *Dispatcher) {
		if observer != nil {
			d.observer = observer
		}
	}
}

// New creates a Dispatcher over an initial snapshot. The snapshot is
// expected to be validated by the composition root before it is handed in.
func New(cfg config.HubConfig, snap *Snapshot, agents *agent.Registry, authGate *auth.Gate, consentGate *consent.Gate, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		config:   cfg,
		agents:   agents,
		auth:     authGate,
		consent:  consentGate,
		observer: observability.NoOpObserver{},
		metrics:  NewMetrics(),
	}
	d.snapshot.Store(snap)

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Swap atomically replaces the policy/catalog snapshot. In-flight
// dispatches keep the snapshot they started with.
func (d *Dispatcher) Swap(snap *Snapshot) {
	d.snapshot.Store(snap)
}

// Snapshot returns the current policy/catalog snapshot.
func (d *Dispatcher) Snapshot() *Snapshot {
	return d.snapshot.Load()
}

// Metrics returns a copy of the dispatch counters.
func (d *Dispatcher) Metrics() MetricsSnapshot {
	return d.metrics.Snapshot()
}

// Dispatch runs the full gate sequence for one user action and returns the
// normalized result. The caller's context bounds all remote work; dispatch
// itself performs no writes, so cancellation mid-flight simply abandons the
// remote call.
func (d *Dispatcher) Dispatch(ctx context.Context, user protocol.User, actionID string, params map[string]any) protocol.DispatchResult {
	dispatchID := uuid.Must(uuid.NewV7()).String()
	started := time.Now()
	snap := d.snapshot.Load()

	d.metrics.RecordDispatch()
	d.emit(ctx, EventStart, observability.LevelInfo, map[string]any{
		"dispatch_id": dispatchID,
		"action_id":   actionID,
		"user_id":     user.ID,
	})

	// Gate 1: action resolution.
	action, err := snap.Catalog.Resolve(actionID)
	if err != nil {
		return d.denied(ctx, dispatchID, actionID, protocol.ReasonUnknownAction, EventDenied)
	}

	// Gate 2: authentication.
	if verdict := d.auth.Check(ctx, user, d.config); !verdict.Passed() {
		return d.denied(ctx, dispatchID, actionID, verdict.Reason, EventDenied)
	}

	// Gate 3: consent.
	if verdict := d.consent.Check(ctx, user, d.config); !verdict.Passed() {
		return d.denied(ctx, dispatchID, actionID, verdict.Reason, EventDenied)
	}

	// Gate 4: exposure re-check. Startup validation already vetted the
	// catalog, but policy may have been reloaded since; never trust stale
	// validation. A hidden, non-internal skill must not be reachable here
	// no matter what the catalog says.
	switch decision := snap.Policy.UserInvokable(action.Agent, action.Skill); decision {
	case policy.DecisionAllowed:
	case policy.DecisionUnknownAgent:
		// Configuration fault, not a permission denial: surfaced loudly in
		// the log while the caller still gets a closed gate.
		d.emit(ctx, EventPolicyMissing, observability.LevelError, map[string]any{
			"dispatch_id": dispatchID,
			"action_id":   actionID,
			"agent":       action.Agent,
		})
		fallthrough
	default:
		d.metrics.RecordDenial(true)
		d.emit(ctx, EventExposureDenied, observability.LevelWarning, map[string]any{
			"dispatch_id": dispatchID,
			"action_id":   actionID,
			"agent":       action.Agent,
			"skill":       action.Skill,
			"decision":    decision.String(),
		})
		return protocol.Denied(protocol.ReasonSkillNotExposed)
	}

	// Gate 5: precondition.
	if preAgent, preSkill, ok := action.PreconditionTarget(); ok {
		if result, stop := d.checkPrecondition(ctx, snap, dispatchID, action, preAgent, preSkill, user, params); stop {
			return result
		}
	}

	// Invoke the primary skill with the caller-supplied params.
	payload, err := d.agents.Invoke(ctx, action.Agent, action.Skill, params)
	if err != nil {
		d.metrics.RecordInvocationFailure()
		d.emit(ctx, EventInvocationFailed, observability.LevelError, map[string]any{
			"dispatch_id": dispatchID,
			"action_id":   actionID,
			"agent":       action.Agent,
			"skill":       action.Skill,
			"error":       err.Error(),
		})
		return protocol.InvocationFailed(err)
	}

	d.metrics.RecordSuccess()
	d.emit(ctx, EventComplete, observability.LevelInfo, map[string]any{
		"dispatch_id": dispatchID,
		"action_id":   actionID,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return protocol.Success(payload)
}

// checkPrecondition invokes the precondition skill and decides whether
// dispatch may continue. The precondition target must itself be
// hub-invokable: hidden-only skills stay unreachable even as preconditions.
func (d *Dispatcher) checkPrecondition(ctx context.Context, snap *Snapshot, dispatchID string, action catalog.Action, preAgent, preSkill string, user protocol.User, params map[string]any) (protocol.DispatchResult, bool) {
	if decision := snap.Policy.HubInvokable(preAgent, preSkill); !decision.Allowed() {
		d.metrics.RecordDenial(true)
		d.emit(ctx, EventExposureDenied, observability.LevelWarning, map[string]any{
			"dispatch_id": dispatchID,
			"action_id":   action.ID,
			"agent":       preAgent,
			"skill":       preSkill,
			"decision":    decision.String(),
			"gate":        "precondition",
		})
		return protocol.Denied(protocol.ReasonSkillNotExposed), true
	}

	payload, err := d.agents.Invoke(ctx, preAgent, preSkill, userScoped(user, params))
	if err != nil {
		d.metrics.RecordPreconditionFailure()
		d.emit(ctx, EventPreconditionFailed, observability.LevelInfo, map[string]any{
			"dispatch_id": dispatchID,
			"action_id":   action.ID,
			"skill":       preSkill,
			"error":       err.Error(),
		})
		return protocol.PreconditionFailed(protocol.ReasonPreconditionNotMet), true
	}

	if satisfied, _ := payload["satisfied"].(bool); satisfied {
		return protocol.DispatchResult{}, false
	}

	reason := protocol.ReasonPreconditionNotMet
	if message, ok := payload["message"].(string); ok && message != "" {
		reason = message
	}
	d.metrics.RecordPreconditionFailure()
	d.emit(ctx, EventPreconditionFailed, observability.LevelInfo, map[string]any{
		"dispatch_id": dispatchID,
		"action_id":   action.ID,
		"skill":       preSkill,
		"reason":      reason,
	})
	return protocol.PreconditionFailed(reason), true
}

func (d *Dispatcher) denied(ctx context.Context, dispatchID, actionID, reason string, eventType observability.EventType) protocol.DispatchResult {
	d.metrics.RecordDenial(false)
	d.emit(ctx, eventType, observability.LevelInfo, map[string]any{
		"dispatch_id": dispatchID,
		"action_id":   actionID,
		"reason":      reason,
	})
	return protocol.Denied(reason)
}

func (d *Dispatcher) emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any) {
	data["hub"] = d.config.Slug
	d.observer.OnEvent(ctx, observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "dispatch.Dispatch",
		Data:      data,
	})
}

// userScoped builds the precondition params: the caller's params plus the
// requesting user's id. The caller's map is not mutated.
func userScoped(user protocol.User, params map[string]any) map[string]any {
	scoped := make(map[string]any, len(params)+1)
	for k, v := range params {
		scoped[k] = v
	}
	scoped["user_id"] = user.ID
	return scoped
}
