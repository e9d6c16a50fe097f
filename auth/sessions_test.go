package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xmmersia/hubcore/core/config"
	"github.com/xmmersia/hubcore/core/protocol"
)

func testManager(domain string) (*SessionManager, *time.Time) {
	cfg := config.DefaultAuthConfig()
	cfg.EmailDomain = domain
	m := NewSessionManager(cfg)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestSessionManager_LinkFlow(t *testing.T) {
	m, _ := testManager("virginia.edu")

	token, err := m.IssueLink("mst3k@virginia.edu")
	if err != nil {
		t.Fatalf("IssueLink() error = %v", err)
	}

	session, err := m.VerifyLink(token)
	if err != nil {
		t.Fatalf("VerifyLink() error = %v", err)
	}
	if session.UserID != "mst3k" {
		t.Errorf("UserID = %q, want computing id %q", session.UserID, "mst3k")
	}
	if session.Email != "mst3k@virginia.edu" {
		t.Errorf("Email = %q, want original address", session.Email)
	}

	// Links are single-use.
	if _, err := m.VerifyLink(token); !errors.Is(err, ErrLinkInvalid) {
		t.Errorf("second VerifyLink() error = %v, want ErrLinkInvalid", err)
	}
}

func TestSessionManager_IssueLink_DomainRestriction(t *testing.T) {
	m, _ := testManager("virginia.edu")

	if _, err := m.IssueLink("intruder@example.com"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("IssueLink() error = %v, want ErrInvalidEmail", err)
	}
}

func TestSessionManager_LinkExpiry(t *testing.T) {
	m, now := testManager("")

	token, err := m.IssueLink("someone@example.com")
	if err != nil {
		t.Fatalf("IssueLink() error = %v", err)
	}

	*now = now.Add(16 * time.Minute)
	if _, err := m.VerifyLink(token); !errors.Is(err, ErrLinkExpired) {
		t.Errorf("VerifyLink() error = %v, want ErrLinkExpired", err)
	}
}

func TestSessionManager_HashedUserIDOutsideDomain(t *testing.T) {
	m, _ := testManager("")

	token, _ := m.IssueLink("someone@example.com")
	session, err := m.VerifyLink(token)
	if err != nil {
		t.Fatalf("VerifyLink() error = %v", err)
	}
	if len(session.UserID) != 12 {
		t.Errorf("UserID = %q, want 12-char hash prefix", session.UserID)
	}
}

func TestSessionManager_Verify(t *testing.T) {
	m, now := testManager("virginia.edu")
	token, _ := m.IssueLink("mst3k@virginia.edu")
	session, _ := m.VerifyLink(token)

	ctx := context.Background()

	t.Run("valid session", func(t *testing.T) {
		v, err := m.Verify(ctx, protocol.User{ID: "mst3k", Session: session.Token})
		if err != nil || !v.Valid {
			t.Errorf("Verify() = (%+v, %v), want valid", v, err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		v, _ := m.Verify(ctx, protocol.User{ID: "mst3k"})
		if v.Valid || v.Reason != protocol.ReasonSessionMissing {
			t.Errorf("Verify() = %+v, want reason %s", v, protocol.ReasonSessionMissing)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		v, _ := m.Verify(ctx, protocol.User{Session: "bogus"})
		if v.Valid || v.Reason != protocol.ReasonSessionInvalid {
			t.Errorf("Verify() = %+v, want reason %s", v, protocol.ReasonSessionInvalid)
		}
	})

	t.Run("user mismatch", func(t *testing.T) {
		v, _ := m.Verify(ctx, protocol.User{ID: "other", Session: session.Token})
		if v.Valid || v.Reason != protocol.ReasonSessionInvalid {
			t.Errorf("Verify() = %+v, want reason %s", v, protocol.ReasonSessionInvalid)
		}
	})

	t.Run("expired session", func(t *testing.T) {
		*now = now.Add(25 * time.Hour)
		v, _ := m.Verify(ctx, protocol.User{ID: "mst3k", Session: session.Token})
		if v.Valid || v.Reason != protocol.ReasonSessionExpired {
			t.Errorf("Verify() = %+v, want reason %s", v, protocol.ReasonSessionExpired)
		}
	})
}

func TestSessionManager_InvalidateAndCleanup(t *testing.T) {
	m, now := testManager("")
	token, _ := m.IssueLink("a@example.com")
	session, _ := m.VerifyLink(token)

	if !m.Invalidate(session.Token) {
		t.Error("Invalidate() = false for live session")
	}
	if m.Invalidate(session.Token) {
		t.Error("Invalidate() = true for already removed session")
	}

	m.IssueLink("b@example.com")
	t2, _ := m.IssueLink("c@example.com")
	s2, _ := m.VerifyLink(t2)

	*now = now.Add(48 * time.Hour)
	links, sessions := m.CleanupExpired()
	if links != 1 || sessions != 1 {
		t.Errorf("CleanupExpired() = (%d, %d), want (1, 1)", links, sessions)
	}
	if _, ok := m.Lookup(s2.Token); ok {
		t.Error("Lookup() found session after expiry cleanup")
	}
}
