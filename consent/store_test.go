package consent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xmmersia/hubcore/core/config"
)

func testStore(revocable bool, maxAgeDays int) (*MemoryStore, *time.Time) {
	cfg := config.DefaultConsentConfig()
	cfg.Revocable = revocable
	cfg.MaxAgeDays = maxAgeDays

	s := NewMemoryStore(cfg)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	s, _ := testStore(true, 0)
	ctx := context.Background()

	status, err := s.Status(ctx, "mst3k", "training")
	if err != nil || status != StatusAbsent {
		t.Fatalf("Status() before grant = (%v, %v), want absent", status, err)
	}

	s.RecordConsent("mst3k", "training")
	status, _ = s.Status(ctx, "mst3k", "training")
	if status != StatusGranted {
		t.Errorf("Status() after grant = %v, want granted", status)
	}

	// Records are scoped per hub slug.
	status, _ = s.Status(ctx, "mst3k", "practice")
	if status != StatusAbsent {
		t.Errorf("Status() for other hub = %v, want absent", status)
	}

	if err := s.RevokeConsent("mst3k", "training"); err != nil {
		t.Fatalf("RevokeConsent() error = %v", err)
	}
	status, _ = s.Status(ctx, "mst3k", "training")
	if status != StatusRevoked {
		t.Errorf("Status() after revoke = %v, want revoked", status)
	}

	// Re-consent replaces the revoked record.
	s.RecordConsent("mst3k", "training")
	status, _ = s.Status(ctx, "mst3k", "training")
	if status != StatusGranted {
		t.Errorf("Status() after re-consent = %v, want granted", status)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s, now := testStore(true, 30)
	ctx := context.Background()

	s.RecordConsent("mst3k", "training")

	*now = now.Add(29 * 24 * time.Hour)
	if status, _ := s.Status(ctx, "mst3k", "training"); status != StatusGranted {
		t.Errorf("Status() within max age = %v, want granted", status)
	}

	*now = now.Add(2 * 24 * time.Hour)
	if status, _ := s.Status(ctx, "mst3k", "training"); status != StatusExpired {
		t.Errorf("Status() past max age = %v, want expired", status)
	}
}

func TestMemoryStore_Revoke_Errors(t *testing.T) {
	s, _ := testStore(true, 0)
	if err := s.RevokeConsent("nobody", "training"); !errors.Is(err, ErrNoRecord) {
		t.Errorf("RevokeConsent() error = %v, want ErrNoRecord", err)
	}

	fixed, _ := testStore(false, 0)
	fixed.RecordConsent("mst3k", "training")
	if err := fixed.RevokeConsent("mst3k", "training"); !errors.Is(err, ErrNotRevocable) {
		t.Errorf("RevokeConsent() error = %v, want ErrNotRevocable", err)
	}
}

func TestMemoryStore_Export(t *testing.T) {
	s, _ := testStore(true, 0)
	s.RecordConsent("zz9", "training")
	s.RecordConsent("mst3k", "training")
	s.RevokeConsent("zz9", "training")

	records := s.Export()
	if len(records) != 2 {
		t.Fatalf("Export() returned %d records, want 2", len(records))
	}
	if records[0].UserID != "mst3k" || records[1].UserID != "zz9" {
		t.Errorf("Export() order = [%s %s], want sorted by user id", records[0].UserID, records[1].UserID)
	}
	if !records[1].Revoked || records[1].RevokedAt == nil {
		t.Error("Export() lost revocation state")
	}
}
