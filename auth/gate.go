// Package auth validates a caller's session against hub configuration.
//
// The gate consults an external identity collaborator only when the hub
// requires authentication; hubs that opt out short-circuit without any
// identity I/O. Verdicts are never cached: sessions can expire mid-use, so
// every dispatch re-checks.
//
// SessionManager is a reference identity collaborator implementing
// magic-link login with in-memory sessions.
package auth

import (
	"context"

	"github.com/xmmersia/hubcore/core/config"
	"github.com/xmmersia/hubcore/core/protocol"
)

// Decision is the outcome category of an auth check.
type Decision int

const (
	DecisionNotRequired Decision = iota
	DecisionAllowed
	DecisionDenied
)

func (d Decision) String() string {
	switch d {
	case DecisionNotRequired:
		return "not_required"
	case DecisionAllowed:
		return "allowed"
	case DecisionDenied:
		return "denied"
	default:
		return "invalid"
	}
}

// Verdict is the result of one auth check. Reason is set only for denials
// and carries a machine-readable code.
type Verdict struct {
	Decision Decision
	Reason   string
}

// Passed reports whether dispatch may proceed past this gate.
func (v Verdict) Passed() bool {
	return v.Decision != DecisionDenied
}

// Verification is an identity collaborator's answer for one user.
type Verification struct {
	Valid  bool
	Reason string
}

// Identity is the external collaborator that verifies a user's session.
type Identity interface {
	Verify(ctx context.Context, user protocol.User) (Verification, error)
}

// Gate performs the auth check for dispatches.
type Gate struct {
	identity Identity
}

// NewGate creates a Gate delegating to the given identity collaborator.
func NewGate(identity Identity) *Gate {
	return &Gate{identity: identity}
}

// Check validates the user against the hub's auth requirement. When
// AuthRequired is false it returns NotRequired without consulting the
// identity collaborator. Collaborator failures fail closed.
func (g *Gate) Check(ctx context.Context, user protocol.User, cfg config.HubConfig) Verdict {
	if !cfg.AuthRequired {
		return Verdict{Decision: DecisionNotRequired}
	}
	if g.identity == nil {
		return Verdict{Decision: DecisionDenied, Reason: protocol.ReasonIdentityUnavailable}
	}

	verification, err := g.identity.Verify(ctx, user)
	if err != nil {
		return Verdict{Decision: DecisionDenied, Reason: protocol.ReasonIdentityUnavailable}
	}
	if !verification.Valid {
		reason := verification.Reason
		if reason == "" {
			reason = protocol.ReasonSessionInvalid
		}
		return Verdict{Decision: DecisionDenied, Reason: reason}
	}
	return Verdict{Decision: DecisionAllowed}
}
