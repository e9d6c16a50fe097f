package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xmmersia/hubcore/auth"
	"github.com/xmmersia/hubcore/consent"
	"github.com/xmmersia/hubcore/core/protocol"
)

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.hub.Card())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.hub.Health())
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"actions": s.hub.Actions()})
}

func (s *Server) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	sessions := s.hub.Sessions()
	if sessions == nil {
		s.writeError(w, http.StatusNotImplemented, "authentication is not enabled on this hub")
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := sessions.IssueLink(req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidEmail) {
			s.writeError(w, http.StatusBadRequest, "email address is not accepted by this hub")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "could not issue link")
		return
	}

	// The link token is returned directly; deployments with a mail sender
	// deliver it out of band instead.
	s.writeJSON(w, http.StatusOK, map[string]string{"link_token": token})
}

func (s *Server) handleVerifyLink(w http.ResponseWriter, r *http.Request) {
	sessions := s.hub.Sessions()
	if sessions == nil {
		s.writeError(w, http.StatusNotImplemented, "authentication is not enabled on this hub")
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := sessions.VerifyLink(req.Token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrLinkExpired):
			s.writeError(w, http.StatusUnauthorized, "link has expired")
		case errors.Is(err, auth.ErrLinkInvalid):
			s.writeError(w, http.StatusUnauthorized, "link is invalid or already used")
		default:
			s.writeError(w, http.StatusInternalServerError, "could not verify link")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessions := s.hub.Sessions()
	if sessions == nil {
		s.writeError(w, http.StatusNotImplemented, "authentication is not enabled on this hub")
		return
	}

	sessions.Invalidate(r.Header.Get(SessionHeader))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleConsentForm(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.hub.ConsentForm())
}

func (s *Server) handleGrantConsent(w http.ResponseWriter, r *http.Request) {
	store, user, ok := s.consentContext(w, r)
	if !ok {
		return
	}

	store.RecordConsent(user.ID, s.hub.Config().Slug)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRevokeConsent(w http.ResponseWriter, r *http.Request) {
	store, user, ok := s.consentContext(w, r)
	if !ok {
		return
	}

	if err := store.RevokeConsent(user.ID, s.hub.Config().Slug); err != nil {
		switch {
		case errors.Is(err, consent.ErrNoRecord):
			s.writeError(w, http.StatusNotFound, "no consent on record")
		case errors.Is(err, consent.ErrNotRevocable):
			s.writeError(w, http.StatusConflict, "consent is not revocable on this hub")
		default:
			s.writeError(w, http.StatusInternalServerError, "could not revoke consent")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// consentContext resolves the consent store and the requesting user for the
// consent endpoints, writing the error response itself when either is
// unavailable.
func (s *Server) consentContext(w http.ResponseWriter, r *http.Request) (*consent.MemoryStore, protocol.User, bool) {
	store := s.hub.ConsentStore()
	if store == nil {
		s.writeError(w, http.StatusNotImplemented, "consent is not enabled on this hub")
		return nil, protocol.User{}, false
	}

	user := s.requestUser(r)
	if user.ID == "" {
		s.writeError(w, http.StatusUnauthorized, "a valid session is required")
		return nil, protocol.User{}, false
	}
	return store, user, true
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActionID string         `json:"action_id"`
		UserID   string         `json:"user_id,omitempty"`
		Params   map[string]any `json:"params,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ActionID == "" {
		s.writeError(w, http.StatusBadRequest, "action_id is required")
		return
	}

	user := s.requestUser(r)
	if user.ID == "" {
		// Hubs without auth identify callers by the id they claim.
		user.ID = req.UserID
	}

	result := s.hub.Dispatch(r.Context(), user, req.ActionID, req.Params)
	s.writeJSON(w, statusCode(result), result)
}

// requestUser builds the dispatching user from the session header. When the
// built-in session manager holds a live session, the identity comes from it;
// otherwise only the raw token is carried and the auth gate decides.
func (s *Server) requestUser(r *http.Request) protocol.User {
	token := r.Header.Get(SessionHeader)
	user := protocol.User{Session: token}

	if sessions := s.hub.Sessions(); sessions != nil && token != "" {
		if session, ok := sessions.Lookup(token); ok {
			user.ID = session.UserID
			user.Email = session.Email
		}
	}
	return user
}

// statusCode maps a dispatch outcome to an HTTP status. The body always
// carries the full tagged result; the code is a convenience for plain HTTP
// clients.
func statusCode(result protocol.DispatchResult) int {
	switch result.Status {
	case protocol.StatusSuccess:
		return http.StatusOK
	case protocol.StatusDenied:
		return http.StatusForbidden
	case protocol.StatusPreconditionFailed:
		return http.StatusConflict
	case protocol.StatusInvocationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
