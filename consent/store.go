package consent

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xmmersia/hubcore/core/config"
)

// Record is one stored consent grant.
type Record struct {
	UserID    string     `json:"user_id"`
	HubSlug   string     `json:"hub_slug"`
	GrantedAt time.Time  `json:"granted_at"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	Version   string     `json:"consent_version"`
}

// Form is the consent-form content served to clients.
type Form struct {
	Title          string   `json:"title"`
	Text           string   `json:"text"`
	DataUsage      []string `json:"data_usage"`
	DataSharedWith []string `json:"data_shared_with"`
	Revocable      bool     `json:"revocable"`
}

type recordKey struct {
	userID  string
	hubSlug string
}

// MemoryStore keeps consent records in memory. It implements Store and adds
// the write-side operations the consent endpoints need: record, revoke, and
// compliance export.
type MemoryStore struct {
	cfg config.ConsentConfig
	now func() time.Time

	mu      sync.Mutex
	records map[recordKey]Record
}

// NewMemoryStore creates a MemoryStore governed by the given consent
// configuration.
func NewMemoryStore(cfg config.ConsentConfig) *MemoryStore {
	return &MemoryStore{
		cfg:     cfg,
		now:     time.Now,
		records: make(map[recordKey]Record),
	}
}

// Status implements Store. Expiry is evaluated lazily against the
// configured max age; a zero max age never expires.
func (s *MemoryStore) Status(ctx context.Context, userID, hubSlug string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[recordKey{userID, hubSlug}]
	if !ok {
		return StatusAbsent, nil
	}
	if record.Revoked {
		return StatusRevoked, nil
	}
	if maxAge := s.cfg.MaxAge(); maxAge > 0 && s.now().After(record.GrantedAt.Add(maxAge)) {
		return StatusExpired, nil
	}
	return StatusGranted, nil
}

// RecordConsent stores a fresh grant for the user, replacing any earlier
// record (including a revoked one — re-consent is always possible).
func (s *MemoryStore) RecordConsent(userID, hubSlug string) Record {
	record := Record{
		UserID:    userID,
		HubSlug:   hubSlug,
		GrantedAt: s.now(),
		Version:   "1.0",
	}

	s.mu.Lock()
	s.records[recordKey{userID, hubSlug}] = record
	s.mu.Unlock()

	return record
}

// RevokeConsent marks the user's grant as revoked. Returns ErrNotRevocable
// when the hub's consent policy forbids revocation and ErrNoRecord when
// there is nothing to revoke.
func (s *MemoryStore) RevokeConsent(userID, hubSlug string) error {
	if !s.cfg.Revocable {
		return ErrNotRevocable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{userID, hubSlug}
	record, ok := s.records[key]
	if !ok {
		return ErrNoRecord
	}

	when := s.now()
	record.Revoked = true
	record.RevokedAt = &when
	s.records[key] = record
	return nil
}

// Lookup returns the raw record for a user, if any.
func (s *MemoryStore) Lookup(userID, hubSlug string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[recordKey{userID, hubSlug}]
	return record, ok
}

// Export returns all records sorted by user id, for compliance reporting.
func (s *MemoryStore) Export() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].UserID != records[j].UserID {
			return records[i].UserID < records[j].UserID
		}
		return records[i].HubSlug < records[j].HubSlug
	})
	return records
}

// Form returns the consent-form content for this hub.
func (s *MemoryStore) Form() Form {
	return Form{
		Title:          s.cfg.Title,
		Text:           s.cfg.Text,
		DataUsage:      s.cfg.DataUsage,
		DataSharedWith: s.cfg.DataSharedWith,
		Revocable:      s.cfg.Revocable,
	}
}
