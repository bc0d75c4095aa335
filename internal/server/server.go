// Package server provides the HTTP REST API for resume analysis.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-insight/internal/config"
	"github.com/jonathan/resume-insight/internal/jobs"
	"github.com/jonathan/resume-insight/internal/pipeline"
	"github.com/jonathan/resume-insight/internal/server/middleware"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	analyzer   *pipeline.Analyzer
	aggregator *jobs.Aggregator
	jwtService *JWTService // nil when authentication is disabled
	authConfig *config.AuthConfig
	log        zerolog.Logger
}

// New creates a new server instance. When cfg.AuthEnabled is set the
// analysis endpoints require a bearer token issued by POST /auth/token;
// otherwise the API is open.
func New(cfg *config.Config, analyzer *pipeline.Analyzer, aggregator *jobs.Aggregator, log zerolog.Logger) (*Server, error) {
	s := &Server{
		analyzer:   analyzer,
		aggregator: aggregator,
		log:        log,
	}

	if cfg.AuthEnabled {
		authConfig, err := config.NewAuthConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create auth config: %w", err)
		}
		s.authConfig = authConfig
		s.jwtService = NewJWTService(authConfig)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for streamed analysis runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router. Analysis endpoints go through the auth
// guard; health and token issuance stay open.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /analyses", s.protected(s.handleAnalyze))
	mux.Handle("POST /analyses/stream", s.protected(s.handleAnalyzeStream))
	mux.Handle("POST /skill-gap", s.protected(s.handleSkillGap))
	mux.Handle("GET /cache/stats", s.protected(s.handleCacheStats))
	mux.Handle("POST /cache/clear", s.protected(s.handleCacheClear))
	mux.HandleFunc("POST /auth/token", s.handleToken)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// protected wraps a handler with the bearer-token guard when
// authentication is enabled, and passes it through otherwise.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return h
	}
	return middleware.RequireAuth(s.jwtService)(h)
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging with a per-request id
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Msg("request")

		next.ServeHTTP(w, r)

		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request completed")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
