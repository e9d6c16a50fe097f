package hub

import (
	"errors"
	"fmt"
)

var ErrUnsupportedFormat = errors.New("unsupported definition format")

// ConfigError reports a definition fault found during startup or reload
// validation, naming the offending component so the operator can fix the
// definition file directly.
type ConfigError struct {
	Component string // "hub", "agent", "exposure", "action"
	Name      string
	Detail    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Component, e.Name, e.Detail)
}
