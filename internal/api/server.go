// Package api exposes the HTTP interface for the microsite service.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/getsitespark/sitespark/internal/config"
	"github.com/getsitespark/sitespark/internal/microsite"
	"github.com/getsitespark/sitespark/internal/store"
	"github.com/getsitespark/sitespark/internal/telemetry"
)

// Generator creates a microsite for a target URL.
type Generator interface {
	Generate(ctx context.Context, rawURL string) (microsite.Microsite, error)
}

// IDGenerator fabricates identifiers for leads and visitors.
type IDGenerator interface {
	NewID() (string, error)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Server wires HTTP handlers to the generator and store.
type Server struct {
	router    chi.Router
	store     store.Store
	generator Generator
	idGen     IDGenerator
	clock     Clock
	cfg       config.Config
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	st store.Store,
	generator Generator,
	idGen IDGenerator,
	clock Clock,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:     st,
		generator: generator,
		idGen:     idGen,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
	telemetry.Init()

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))
	r.Use(telemetry.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/v1", func(r chi.Router) {
		if cfg.Auth.Enabled {
			r.Use(s.apiKeyMiddleware(cfg.Auth.APIKey))
		}
		r.Route("/microsites", func(r chi.Router) {
			r.Post("/", s.createMicrosite)
			r.Get("/", s.listMicrosites)
			r.Route("/{microsite_id}", func(r chi.Router) {
				r.Get("/", s.getMicrosite)
				r.Patch("/", s.updateMicrosite)
				r.Delete("/", s.deleteMicrosite)
				r.Get("/analytics", s.getAnalytics)
			})
		})
		r.Get("/m/{slug}", s.getMicrositePage)
		r.Route("/leads", func(r chi.Router) {
			r.Post("/", s.createLead)
			r.Get("/", s.listLeads)
			r.Patch("/{lead_id}/status", s.updateLeadStatus)
		})
		r.Post("/track", s.trackEvent)
		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.putSettings)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	// The store is the only downstream; a list call covers all backends.
	if _, err := s.store.ListMicrosites(r.Context()); err != nil {
		writeError(s.logger, w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) viewURL(slug string) string {
	base := strings.TrimRight(s.cfg.Server.BaseURL, "/")
	return fmt.Sprintf("%s/m/%s", base, slug)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		reqID, _ := r.Context().Value(requestIDKey{}).(string)
		s.logger.Info("request completed",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				writeError(s.logger, w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

func (s *Server) apiKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key != expected {
				writeError(s.logger, w, http.StatusForbidden, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := rw.ResponseWriter.(http.Hijacker); ok {
		conn, buf, err := h.Hijack()
		if err != nil {
			return nil, nil, fmt.Errorf("hijack connection: %w", err)
		}
		return conn, buf, nil
	}
	return nil, nil, errors.New("hijacker not supported")
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write JSON failed", zap.Error(err))
	}
}

func writeError(logger *zap.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(logger, w, status, map[string]string{"error": msg})
}
