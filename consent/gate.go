// Package consent validates recorded user consent against hub
// configuration. Denial reasons distinguish never-consented, revoked, and
// expired consent because each drives a different recovery path in the UI
// layer.
//
// MemoryStore is a reference consent collaborator; production deployments
// persist consent records behind the Store interface.
package consent

import (
	"context"

	"github.com/xmmersia/hubcore/core/config"
	"github.com/xmmersia/hubcore/core/protocol"
)

// Status is the recorded consent state for one user in one hub.
type Status int

const (
	StatusAbsent Status = iota
	StatusGranted
	StatusRevoked
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusGranted:
		return "granted"
	case StatusRevoked:
		return "revoked"
	case StatusExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// Store is the external collaborator holding consent records.
type Store interface {
	Status(ctx context.Context, userID, hubSlug string) (Status, error)
}

// Decision is the outcome category of a consent check.
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

// Verdict is the result of one consent check.
type Verdict struct {
	Decision Decision
	Reason   string
}

// Passed reports whether dispatch may proceed past this gate.
func (v Verdict) Passed() bool {
	return v.Decision != DecisionDenied
}

// Gate performs the consent check for dispatches.
type Gate struct {
	store Store
}

// NewGate creates a Gate delegating to the given consent store.
func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// Check validates the user's consent against the hub's requirement. When
// ConsentRequired is false it returns NotRequired without consulting the
// store. Store failures fail closed.
func (g *Gate) Check(ctx context.Context, user protocol.User, cfg config.HubConfig) Verdict {
	if !cfg.ConsentRequired {
		return Verdict{Decision: DecisionNotRequired}
	}
	if g.store == nil {
		return Verdict{Decision: DecisionDenied, Reason: protocol.ReasonConsentUnavailable}
	}

	status, err := g.store.Status(ctx, user.ID, cfg.Slug)
	if err != nil {
		return Verdict{Decision: DecisionDenied, Reason: protocol.ReasonConsentUnavailable}
	}

	switch status {
	case StatusGranted:
		return Verdict{Decision: DecisionAllowed}
	case StatusRevoked:
		return Verdict{Decision: DecisionDenied, Reason: protocol.ReasonConsentRevoked}
	case StatusExpired:
		return Verdict{Decision: DecisionDenied, Reason: protocol.ReasonConsentExpired}
	default:
		return Verdict{Decision: DecisionDenied, Reason: protocol.ReasonConsentAbsent}
	}
}
