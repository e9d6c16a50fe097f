// Package protocol defines the wire-level types shared between the dispatch
// core and its callers: the user identity attached to a request and the
// tagged DispatchResult every dispatch normalizes into.
package protocol

// Status tags a DispatchResult with its outcome category.
type Status string

const (
	StatusSuccess            Status = "success"
	StatusDenied             Status = "denied"
	StatusPreconditionFailed Status = "precondition_failed"
	StatusInvocationFailed   Status = "invocation_failed"
)

// Machine-readable denial reasons. Each reason drives a distinct recovery
// path in the UI layer (login prompt, consent form, nothing to recover).
const (
	ReasonUnknownAction       = "unknown_action"
	ReasonSkillNotExposed     = "skill_not_exposed"
	ReasonAuthRequired        = "auth_required"
	ReasonSessionMissing      = "session_missing"
	ReasonSessionInvalid      = "session_invalid"
	ReasonSessionExpired      = "session_expired"
	ReasonIdentityUnavailable = "identity_unavailable"
	ReasonConsentAbsent       = "consent_absent"
	ReasonConsentRevoked      = "consent_revoked"
	ReasonConsentExpired      = "consent_expired"
	ReasonConsentUnavailable  = "consent_unavailable"
	ReasonPreconditionNotMet  = "precondition_not_met"
)

// User identifies the caller of a dispatch. ID is the stable user
// identifier; Session carries the opaque session token presented with the
// request. Email is set once a session has been resolved.
type User struct {
	ID      string `json:"user_id"`
	Email   string `json:"email,omitempty"`
	Session string `json:"session,omitempty"`
}

// DispatchResult is the normalized outcome of one dispatch call. Exactly one
// of the optional fields is meaningful for a given Status: Reason for denied
// and precondition failures, Error for invocation failures, Payload for
// success.
type DispatchResult struct {
	Status  Status         `json:"status"`
	Reason  string         `json:"reason,omitempty"`
	Error   string         `json:"error,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Denied builds a denial result with a machine-readable reason code.
func Denied(reason string) DispatchResult {
	return DispatchResult{Status: StatusDenied, Reason: reason}
}

// PreconditionFailed builds a result for a declared precondition that did
// not hold. The primary skill was not invoked.
func PreconditionFailed(reason string) DispatchResult {
	return DispatchResult{Status: StatusPreconditionFailed, Reason: reason}
}

// InvocationFailed builds a result for a remote invocation that failed.
// The transport error is surfaced verbatim so callers can decide on retry.
func InvocationFailed(err error) DispatchResult {
	return DispatchResult{Status: StatusInvocationFailed, Error: err.Error()}
}

// Success builds a success result carrying the agent's payload.
func Success(payload map[string]any) DispatchResult {
	return DispatchResult{Status: StatusSuccess, Payload: payload}
}

// IsSuccess reports whether the dispatch reached the primary skill and the
// remote call succeeded.
func (r DispatchResult) IsSuccess() bool {
	return r.Status == StatusSuccess
}
