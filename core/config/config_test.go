package config_test

import (
	"testing"
	"time"

	"github.com/xmmersia/hubcore/core/config"
)

func TestHubConfig_Merge(t *testing.T) {
	cfg := config.DefaultHubConfig()
	cfg.Merge(&config.HubConfig{
		Name:  "Training Hub",
		Slug:  "training",
		Theme: config.ThemeDark,
	})

	if cfg.Name != "Training Hub" || cfg.Slug != "training" {
		t.Errorf("Merge() identity = %q/%q", cfg.Name, cfg.Slug)
	}
	if cfg.Theme != config.ThemeDark {
		t.Errorf("Theme = %q, want dark", cfg.Theme)
	}
	if cfg.Version != "1.0.0" {
		t.Errorf("Version = %q, want default preserved", cfg.Version)
	}
	if !cfg.AuthRequired || !cfg.ConsentRequired {
		t.Error("Merge() disturbed the required flags")
	}
}

func TestAuthConfig_Defaults(t *testing.T) {
	cfg := config.DefaultAuthConfig()

	if cfg.Method != "magic_link" {
		t.Errorf("Method = %q, want magic_link", cfg.Method)
	}
	if cfg.SessionDuration() != 24*time.Hour {
		t.Errorf("SessionDuration() = %v, want 24h", cfg.SessionDuration())
	}
	if cfg.LinkTTL() != 15*time.Minute {
		t.Errorf("LinkTTL() = %v, want 15m", cfg.LinkTTL())
	}
}

func TestAuthConfig_ValidEmail(t *testing.T) {
	tests := []struct {
		domain string
		email  string
		want   bool
	}{
		{"", "anyone@example.com", true},
		{"", "", false},
		{"virginia.edu", "mst3k@virginia.edu", true},
		{"virginia.edu", "mst3k@example.com", false},
		{"virginia.edu", "", false},
	}

	for _, tt := range tests {
		cfg := config.AuthConfig{EmailDomain: tt.domain}
		if got := cfg.ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) with domain %q = %v, want %v", tt.email, tt.domain, got, tt.want)
		}
	}
}

func TestAgentConfig_Timeout(t *testing.T) {
	if got := (config.AgentConfig{TimeoutSeconds: 30}).Timeout(); got != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", got)
	}
	if got := (config.AgentConfig{}).Timeout(); got != 0 {
		t.Errorf("Timeout() with no setting = %v, want 0", got)
	}
}

func TestConsentConfig_Merge(t *testing.T) {
	cfg := config.DefaultConsentConfig()
	cfg.Merge(&config.ConsentConfig{
		Text:       "We store your submissions for grading.",
		MaxAgeDays: 180,
	})

	if cfg.Title != "Consent Required" {
		t.Errorf("Title = %q, want default preserved", cfg.Title)
	}
	if cfg.MaxAge() != 180*24*time.Hour {
		t.Errorf("MaxAge() = %v, want 180 days", cfg.MaxAge())
	}
	if !cfg.Revocable {
		t.Error("Merge() disturbed Revocable")
	}
}
