package agent

import "errors"

// Sentinel errors for the agent registry.
var (
	ErrUnknownAgent    = errors.New("unknown agent")
	ErrAgentExists     = errors.New("agent already bound")
	ErrEmptyAgentName  = errors.New("agent name is empty")
	ErrEmptyEndpoint   = errors.New("agent endpoint is empty")
	ErrUnknownProtocol = errors.New("no invoker for protocol")
)
