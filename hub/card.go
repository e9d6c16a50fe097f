package hub

import (
	"time"

	"github.com/xmmersia/hubcore/catalog"
)

// Card is the public description of a hub: identity, presentation metadata,
// and the user-facing actions. It carries only what an unauthenticated
// client may see; agent endpoints and hidden skills never appear.
type Card struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Tagline     string `json:"tagline,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Course      string `json:"course,omitempty"`
	Semester    string `json:"semester,omitempty"`

	AuthRequired    bool `json:"auth_required"`
	ConsentRequired bool `json:"consent_required"`

	Agents  []string         `json:"agents"`
	Actions []catalog.Action `json:"actions"`
}

// Card builds the hub card from the current configuration and catalog.
func (h *Hub) Card() Card {
	bindings := h.agents.List()
	names := make([]string, 0, len(bindings))
	for _, b := range bindings {
		names = append(names, b.Name)
	}

	cfg := h.definition.Hub
	return Card{
		Name:            cfg.Name,
		Slug:            cfg.Slug,
		Description:     cfg.Description,
		Version:         cfg.Version,
		Theme:           string(cfg.Theme),
		Tagline:         cfg.Tagline,
		Icon:            cfg.Icon,
		Course:          cfg.Course,
		Semester:        cfg.Semester,
		AuthRequired:    cfg.AuthRequired,
		ConsentRequired: cfg.ConsentRequired,
		Agents:          names,
		Actions:         h.Actions(),
	}
}

// Health is the liveness report for a hub instance.
type Health struct {
	Status        string `json:"status"`
	Hub           string `json:"hub"`
	Agents        int    `json:"agents"`
	Actions       int    `json:"actions"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Health reports the instance's liveness and basic shape.
func (h *Hub) Health() Health {
	return Health{
		Status:        "ok",
		Hub:           h.definition.Hub.Slug,
		Agents:        len(h.agents.List()),
		Actions:       h.dispatcher.Snapshot().Catalog.Len(),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	}
}
