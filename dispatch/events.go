package dispatch

import "github.com/xmmersia/hubcore/observability"

// Dispatch event types emitted through the observer. Exposure denials have
// their own type: they indicate either an attack attempt or a catalog/policy
// mismatch and must stand out from ordinary denials in logs.
const (
	EventStart              observability.EventType = "dispatch.start"
	EventDenied             observability.EventType = "dispatch.denied"
	EventExposureDenied     observability.EventType = "dispatch.denied.exposure"
	EventPolicyMissing      observability.EventType = "dispatch.policy.missing"
	EventPreconditionFailed observability.EventType = "dispatch.precondition_failed"
	EventInvocationFailed   observability.EventType = "dispatch.invocation_failed"
	EventComplete           observability.EventType = "dispatch.complete"
)
