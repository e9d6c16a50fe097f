// Package server exposes a hub over HTTP: the public hub card, the auth and
// consent lifecycle endpoints, and the dispatch endpoint itself.
//
// The server is a thin adapter. All policy decisions live behind
// hub.Dispatch; handlers only translate HTTP to hub calls and back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/xmmersia/hubcore/hub"
)

// SessionHeader carries the session token on authenticated requests.
const SessionHeader = "X-Session-Token"

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID returns the request id from the context, or "".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Server serves one hub instance.
type Server struct {
	hub    *hub.Hub
	mux    *http.ServeMux
	logger *slog.Logger
}

// New creates a Server for the given hub.
func New(h *hub.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		hub:    h,
		mux:    http.NewServeMux(),
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.withMiddleware(s.handleCard))
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /actions", s.withMiddleware(s.handleActions))

	s.mux.HandleFunc("POST /auth/magic-link", s.withMiddleware(s.handleMagicLink))
	s.mux.HandleFunc("POST /auth/verify", s.withMiddleware(s.handleVerifyLink))
	s.mux.HandleFunc("POST /auth/logout", s.withMiddleware(s.handleLogout))

	s.mux.HandleFunc("GET /consent/form", s.withMiddleware(s.handleConsentForm))
	s.mux.HandleFunc("POST /consent", s.withMiddleware(s.handleGrantConsent))
	s.mux.HandleFunc("DELETE /consent", s.withMiddleware(s.handleRevokeConsent))

	s.mux.HandleFunc("POST /dispatch", s.withMiddleware(s.handleDispatch))
}

// Handler returns the server's root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on addr until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("hub serving", "addr", addr, "hub", s.hub.Config().Slug)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-done:
	}

	s.logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// withMiddleware adds request id, logging, and panic recovery.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panic", "path", r.URL.Path, "panic", rec)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.Must(uuid.NewV7()).String()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)

		start := time.Now()
		next(w, r.WithContext(ctx))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "request_id", reqID, "duration", time.Since(start))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
