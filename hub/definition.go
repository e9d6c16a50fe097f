package hub

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/xmmersia/hubcore/catalog"
	"github.com/xmmersia/hubcore/core/config"
	"github.com/xmmersia/hubcore/policy"
)

// Definition is the complete declarative description of one hub: identity,
// collaborator settings, agent bindings, exposure policy, and the action
// catalog. A definition file (JSON or YAML) unmarshals over
// DefaultDefinition, so omitted fields keep their defaults while explicit
// false values in the file are honored.
type Definition struct {
	Hub     config.HubConfig     `json:"hub" yaml:"hub"`
	Auth    config.AuthConfig    `json:"auth,omitempty" yaml:"auth,omitempty"`
	Consent config.ConsentConfig `json:"consent,omitempty" yaml:"consent,omitempty"`

	Agents   map[string]config.AgentConfig `json:"agents" yaml:"agents"`
	Exposure map[string]policy.Exposure    `json:"exposure" yaml:"exposure"`
	Actions  []catalog.Action              `json:"actions" yaml:"actions"`
}

// DefaultDefinition returns a Definition with all collaborator defaults
// applied and no agents, exposure, or actions.
func DefaultDefinition() Definition {
	return Definition{
		Hub:     config.DefaultHubConfig(),
		Auth:    config.DefaultAuthConfig(),
		Consent: config.DefaultConsentConfig(),
	}
}

// LoadDefinition reads a definition file, chosen by extension: .json, .yaml,
// or .yml. The file's values layer over DefaultDefinition.
func LoadDefinition(path string) (Definition, error) {
	def := DefaultDefinition()

	data, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("read definition: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".json":
		if err := json.Unmarshal(data, &def); err != nil {
			return def, fmt.Errorf("parse definition %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return def, fmt.Errorf("parse definition %s: %w", path, err)
		}
	default:
		return def, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	return def, nil
}
