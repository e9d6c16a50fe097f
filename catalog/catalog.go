// Package catalog holds the ordered set of user-facing actions a hub
// declares. Each action binds a UI affordance to one agent skill, optionally
// gated by a precondition skill.
//
// The catalog is pure data: resolution and listing only. Startup validation
// against the agent registry and exposure policy happens in the hub
// composition root, once, before the hub serves.
package catalog

import (
	"fmt"
	"strings"
)

// Action is one user-facing action. Agent and Skill name the invocation
// target; Precondition optionally names a skill checked before the primary
// skill runs. A bare precondition name targets the action's own agent; an
// "agent.skill" form targets another agent. The remaining fields are UI
// hints carried through to clients unchanged.
type Action struct {
	ID           string `json:"id" yaml:"id"`
	Label        string `json:"label" yaml:"label"`
	Icon         string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Agent        string `json:"agent" yaml:"agent"`
	Skill        string `json:"skill" yaml:"skill"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Precondition string `json:"precondition,omitempty" yaml:"precondition,omitempty"`

	Confirm        bool   `json:"confirm,omitempty" yaml:"confirm,omitempty"`
	ConfirmMessage string `json:"confirm_message,omitempty" yaml:"confirm_message,omitempty"`
	Primary        bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
	Position       int    `json:"position,omitempty" yaml:"position,omitempty"`
	Group          string `json:"group,omitempty" yaml:"group,omitempty"`
}

// PreconditionTarget resolves the precondition declaration into its target
// agent and skill. The second return is false when no precondition is
// declared.
func (a Action) PreconditionTarget() (agent, skill string, ok bool) {
	if a.Precondition == "" {
		return "", "", false
	}
	if before, after, found := strings.Cut(a.Precondition, "."); found {
		return before, after, true
	}
	return a.Agent, a.Precondition, true
}

// Catalog is the ordered action set. Order is preserved from the
// declaration; it matters for display only, never for dispatch semantics.
// Immutable after construction.
type Catalog struct {
	actions []Action
	byID    map[string]int
}

// New builds a Catalog, rejecting duplicate or empty action ids.
func New(actions []Action) (*Catalog, error) {
	byID := make(map[string]int, len(actions))
	for i, action := range actions {
		if action.ID == "" {
			return nil, fmt.Errorf("%w at position %d", ErrEmptyActionID, i)
		}
		if _, exists := byID[action.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAction, action.ID)
		}
		byID[action.ID] = i
	}
	return &Catalog{
		actions: append([]Action(nil), actions...),
		byID:    byID,
	}, nil
}

// Resolve returns the action with the given id, or ErrUnknownAction.
func (c *Catalog) Resolve(id string) (Action, error) {
	i, ok := c.byID[id]
	if !ok {
		return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, id)
	}
	return c.actions[i], nil
}

// List returns the actions in declaration order. The slice is a copy.
func (c *Catalog) List() []Action {
	return append([]Action(nil), c.actions...)
}

// Len returns the number of declared actions.
func (c *Catalog) Len() int {
	return len(c.actions)
}
