// Package policy implements per-agent skill exposure: which skills a user
// may invoke directly, which only hub-internal logic may reach, and which
// are present on the agent but unavailable in this deployment.
//
// The authoritative rule: user-facing invocation requires membership in the
// exposed set; hub-internal invocation requires membership in exposed or
// internal; everything else is rejected. Hidden is a UI classification, not
// a grant.
//
// A Policy is an immutable snapshot built once from configuration. Runtime
// reloads swap in a whole new Policy; a Policy itself never changes.
package policy

import "sort"

// Exposure declares the three skill sets for one agent, as written in a hub
// definition. Sets may overlap in storage; callability is decided solely by
// the exposed/internal membership rules.
type Exposure struct {
	Exposed  []string `json:"exposed,omitempty" yaml:"exposed,omitempty"`
	Hidden   []string `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Internal []string `json:"internal,omitempty" yaml:"internal,omitempty"`
}

// Decision is the three-valued outcome of an exposure query. An unknown
// agent is a configuration fault, not a permission denial, and must never be
// conflated with Denied by callers.
type Decision int

const (
	DecisionUnknownAgent Decision = iota
	DecisionDenied
	DecisionAllowed
)

func (d Decision) String() string {
	switch d {
	case DecisionUnknownAgent:
		return "unknown_agent"
	case DecisionDenied:
		return "denied"
	case DecisionAllowed:
		return "allowed"
	default:
		return "invalid"
	}
}

// Allowed reports whether the query decided in favor of invocation.
func (d Decision) Allowed() bool {
	return d == DecisionAllowed
}

type exposure struct {
	exposed  map[string]struct{}
	hidden   map[string]struct{}
	internal map[string]struct{}
}

// Policy answers exposure queries for a fixed set of agents. Safe for
// unbounded concurrent use; it has no mutable state.
type Policy struct {
	agents map[string]exposure
}

// New builds a Policy from per-agent exposure declarations.
func New(exposures map[string]Exposure) *Policy {
	agents := make(map[string]exposure, len(exposures))
	for name, e := range exposures {
		agents[name] = exposure{
			exposed:  toSet(e.Exposed),
			hidden:   toSet(e.Hidden),
			internal: toSet(e.Internal),
		}
	}
	return &Policy{agents: agents}
}

// UserInvokable decides whether a user may invoke the skill directly.
// Only membership in the exposed set allows it.
func (p *Policy) UserInvokable(agent, skill string) Decision {
	e, ok := p.agents[agent]
	if !ok {
		return DecisionUnknownAgent
	}
	if _, ok := e.exposed[skill]; ok {
		return DecisionAllowed
	}
	return DecisionDenied
}

// HubInvokable decides whether hub-internal logic may invoke the skill.
// Membership in exposed or internal allows it; hidden alone never does.
func (p *Policy) HubInvokable(agent, skill string) Decision {
	e, ok := p.agents[agent]
	if !ok {
		return DecisionUnknownAgent
	}
	if _, ok := e.exposed[skill]; ok {
		return DecisionAllowed
	}
	if _, ok := e.internal[skill]; ok {
		return DecisionAllowed
	}
	return DecisionDenied
}

// Describe returns the declared exposure for an agent with each set sorted,
// for introspection and UI building. The second return is false when no
// policy is defined for the agent.
func (p *Policy) Describe(agent string) (Exposure, bool) {
	e, ok := p.agents[agent]
	if !ok {
		return Exposure{}, false
	}
	return Exposure{
		Exposed:  toSorted(e.exposed),
		Hidden:   toSorted(e.hidden),
		Internal: toSorted(e.internal),
	}, true
}

// Agents returns the names of all agents with a declared policy, sorted.
func (p *Policy) Agents() []string {
	names := make([]string, 0, len(p.agents))
	for name := range p.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func toSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[s] = struct{}{}
	}
	return set
}

func toSorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	skills := make([]string, 0, len(set))
	for s := range set {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}
