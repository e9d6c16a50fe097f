package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xmmersia/hubcore/core/config"
	"github.com/xmmersia/hubcore/core/protocol"
)

// Session is an authenticated user session.
type Session struct {
	Token   string    `json:"session_token"`
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires"`
}

type pendingLink struct {
	email   string
	expires time.Time
}

// SessionManager is the built-in magic-link identity collaborator. Links
// and sessions live in memory; production deployments back the Identity
// interface with a real identity provider instead.
type SessionManager struct {
	cfg config.AuthConfig
	now func() time.Time

	mu       sync.Mutex
	links    map[string]pendingLink
	sessions map[string]Session
}

// NewSessionManager creates a SessionManager from auth configuration.
func NewSessionManager(cfg config.AuthConfig) *SessionManager {
	return &SessionManager{
		cfg:      cfg,
		now:      time.Now,
		links:    make(map[string]pendingLink),
		sessions: make(map[string]Session),
	}
}

// IssueLink generates a magic-link token for the email address. The caller
// delivers the link; in development the token is returned to the client
// directly.
func (m *SessionManager) IssueLink(email string) (string, error) {
	if !m.cfg.ValidEmail(email) {
		return "", ErrInvalidEmail
	}

	token := newToken()
	m.mu.Lock()
	m.links[token] = pendingLink{email: email, expires: m.now().Add(m.cfg.LinkTTL())}
	m.mu.Unlock()

	return token, nil
}

// VerifyLink redeems a magic-link token and creates a session. Links are
// single-use.
func (m *SessionManager) VerifyLink(token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[token]
	if !ok {
		return Session{}, ErrLinkInvalid
	}
	delete(m.links, token)

	if m.now().After(link.expires) {
		return Session{}, ErrLinkExpired
	}

	session := Session{
		Token:   newToken(),
		UserID:  m.userID(link.email),
		Email:   link.email,
		Created: m.now(),
		Expires: m.now().Add(m.cfg.SessionDuration()),
	}
	m.sessions[session.Token] = session
	return session, nil
}

// Verify implements Identity. Expired sessions are removed on sight.
func (m *SessionManager) Verify(ctx context.Context, user protocol.User) (Verification, error) {
	if user.Session == "" {
		return Verification{Reason: protocol.ReasonSessionMissing}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[user.Session]
	if !ok {
		return Verification{Reason: protocol.ReasonSessionInvalid}, nil
	}
	if m.now().After(session.Expires) {
		delete(m.sessions, user.Session)
		return Verification{Reason: protocol.ReasonSessionExpired}, nil
	}
	if user.ID != "" && user.ID != session.UserID {
		return Verification{Reason: protocol.ReasonSessionInvalid}, nil
	}
	return Verification{Valid: true}, nil
}

// Lookup returns the session for a token, if valid and unexpired.
func (m *SessionManager) Lookup(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok || m.now().After(session.Expires) {
		return Session{}, false
	}
	return session, true
}

// Invalidate removes a session (logout). Returns whether it existed.
func (m *SessionManager) Invalidate(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[token]
	delete(m.sessions, token)
	return ok
}

// CleanupExpired removes expired links and sessions and reports how many of
// each were dropped. Call periodically.
func (m *SessionManager) CleanupExpired() (links, sessions int) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, link := range m.links {
		if now.After(link.expires) {
			delete(m.links, token)
			links++
		}
	}
	for token, session := range m.sessions {
		if now.After(session.Expires) {
			delete(m.sessions, token)
			sessions++
		}
	}
	return links, sessions
}

// userID derives a stable user identifier from an email address: the local
// part when the hub restricts to a single domain, a hash prefix otherwise.
func (m *SessionManager) userID(email string) string {
	if m.cfg.EmailDomain != "" && strings.HasSuffix(email, "@"+m.cfg.EmailDomain) {
		return strings.SplitN(email, "@", 2)[0]
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])[:12]
}

func newToken() string {
	return uuid.Must(uuid.NewV7()).String()
}
