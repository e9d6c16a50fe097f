// Package config holds the deployment configuration structures consumed by
// the hub composition root: hub identity and behavior flags, per-agent
// connection settings, and the auth/consent collaborator settings.
//
// Configuration is data, created once at startup and never mutated after the
// hub initializes. Structures follow the Default + Merge pattern so partial
// definitions layer over defaults.
package config

import (
	"strings"
	"time"
)

// Theme identifies the UI theme a hub renders with. Themes are deployment
// data; the core never interprets them beyond carrying the value.
type Theme string

const (
	ThemeOrganic  Theme = "organic"
	ThemeMinimal  Theme = "minimal"
	ThemeDark     Theme = "dark"
	ThemeAcademic Theme = "academic"
)

// HubConfig is the immutable deployment identity of a hub. AuthRequired and
// ConsentRequired decide whether the corresponding gates are mandatory;
// everything else is display metadata.
type HubConfig struct {
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`

	AuthRequired    bool `json:"auth_required" yaml:"auth_required"`
	ConsentRequired bool `json:"consent_required" yaml:"consent_required"`

	Theme   Theme  `json:"theme,omitempty" yaml:"theme,omitempty"`
	Tagline string `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty"`

	Course   string `json:"course,omitempty" yaml:"course,omitempty"`
	Semester string `json:"semester,omitempty" yaml:"semester,omitempty"`
}

// DefaultHubConfig returns a HubConfig with both gates required and the
// organic theme.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		Version:         "1.0.0",
		AuthRequired:    true,
		ConsentRequired: true,
		Theme:           ThemeOrganic,
	}
}

// Merge applies non-zero values from source into c. The required flags are
// not merged here: they unmarshal directly over the defaults so an explicit
// false in a definition file is honored.
func (c *HubConfig) Merge(source *HubConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.Slug != "" {
		c.Slug = source.Slug
	}
	if source.Description != "" {
		c.Description = source.Description
	}
	if source.Version != "" {
		c.Version = source.Version
	}
	if source.Theme != "" {
		c.Theme = source.Theme
	}
	if source.Tagline != "" {
		c.Tagline = source.Tagline
	}
	if source.Icon != "" {
		c.Icon = source.Icon
	}
	if source.Course != "" {
		c.Course = source.Course
	}
	if source.Semester != "" {
		c.Semester = source.Semester
	}
}

// Protocol selects the transport an agent binding speaks.
type Protocol string

const (
	ProtocolConnect Protocol = "connect"
	ProtocolMCP     Protocol = "mcp"
)

// AgentConfig describes one agent binding: where it lives and how to call it.
type AgentConfig struct {
	Endpoint       string   `json:"endpoint" yaml:"endpoint"`
	Protocol       Protocol `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the per-call deadline for this binding, or zero when the
// caller's deadline alone applies.
func (c AgentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AuthConfig configures the built-in magic-link identity collaborator.
type AuthConfig struct {
	Method               string `json:"method,omitempty" yaml:"method,omitempty"`
	EmailDomain          string `json:"email_domain,omitempty" yaml:"email_domain,omitempty"`
	SessionDurationHours int    `json:"session_duration_hours,omitempty" yaml:"session_duration_hours,omitempty"`
	LinkTTLMinutes       int    `json:"link_ttl_minutes,omitempty" yaml:"link_ttl_minutes,omitempty"`
}

// DefaultAuthConfig returns magic-link auth with 24h sessions and 15m links.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		Method:               "magic_link",
		SessionDurationHours: 24,
		LinkTTLMinutes:       15,
	}
}

// Merge applies non-zero values from source into c.
func (c *AuthConfig) Merge(source *AuthConfig) {
	if source.Method != "" {
		c.Method = source.Method
	}
	if source.EmailDomain != "" {
		c.EmailDomain = source.EmailDomain
	}
	if source.SessionDurationHours > 0 {
		c.SessionDurationHours = source.SessionDurationHours
	}
	if source.LinkTTLMinutes > 0 {
		c.LinkTTLMinutes = source.LinkTTLMinutes
	}
}

// SessionDuration returns the configured session lifetime.
func (c AuthConfig) SessionDuration() time.Duration {
	return time.Duration(c.SessionDurationHours) * time.Hour
}

// LinkTTL returns the configured magic-link lifetime.
func (c AuthConfig) LinkTTL() time.Duration {
	return time.Duration(c.LinkTTLMinutes) * time.Minute
}

// ValidEmail reports whether an email address is acceptable for this hub.
// An empty EmailDomain accepts any address.
func (c AuthConfig) ValidEmail(email string) bool {
	if c.EmailDomain == "" {
		return email != ""
	}
	return strings.HasSuffix(email, "@"+c.EmailDomain)
}

// ConsentConfig carries the consent-form content and the policies of the
// built-in consent store.
type ConsentConfig struct {
	Title          string   `json:"title,omitempty" yaml:"title,omitempty"`
	Text           string   `json:"text,omitempty" yaml:"text,omitempty"`
	DataUsage      []string `json:"data_usage,omitempty" yaml:"data_usage,omitempty"`
	DataSharedWith []string `json:"data_shared_with,omitempty" yaml:"data_shared_with,omitempty"`
	Revocable      bool     `json:"revocable" yaml:"revocable"`
	MaxAgeDays     int      `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
}

// DefaultConsentConfig returns revocable, non-expiring consent.
func DefaultConsentConfig() ConsentConfig {
	return ConsentConfig{
		Title:     "Consent Required",
		Revocable: true,
	}
}

// Merge applies non-zero values from source into c. Revocable unmarshals
// directly over the default, like the HubConfig required flags.
func (c *ConsentConfig) Merge(source *ConsentConfig) {
	if source.Title != "" {
		c.Title = source.Title
	}
	if source.Text != "" {
		c.Text = source.Text
	}
	if len(source.DataUsage) > 0 {
		c.DataUsage = source.DataUsage
	}
	if len(source.DataSharedWith) > 0 {
		c.DataSharedWith = source.DataSharedWith
	}
	if source.MaxAgeDays > 0 {
		c.MaxAgeDays = source.MaxAgeDays
	}
}

// MaxAge returns the consent expiry window, or zero when consent never
// expires.
func (c ConsentConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}
