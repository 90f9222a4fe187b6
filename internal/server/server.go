// Package server provides the local HTTP control surface: health, tuning
// presets, trace templates and tracking snapshots.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pranaysuyash/advay-learning-sub002/internal/monitoring"
	"github.com/pranaysuyash/advay-learning-sub002/internal/server/api"
	"github.com/pranaysuyash/advay-learning-sub002/internal/store"
	"github.com/pranaysuyash/advay-learning-sub002/internal/trace"
)

// Config holds the server configuration. Every field is optional; routes
// whose dependency is missing are not registered.
type Config struct {
	StaticDir string
	Store     *store.Store
	Matcher   *trace.Matcher
	Tracker   api.Tracker
}

// Server is the HTTP server of the application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		presets := api.NewPresetHandler(s.config.Store, s.config.Tracker)
		s.mux.Handle("/api/presets", presets)
		s.mux.Handle("/api/presets/", presets)

		templates := api.NewTemplateHandler(s.config.Store, s.config.Matcher)
		s.mux.Handle("/api/templates", templates)
		s.mux.Handle("/api/templates/", templates)
	}

	if s.config.Tracker != nil {
		tracking := api.NewTrackingHandler(s.config.Tracker)
		s.mux.Handle("/api/tracking", tracking)
		s.mux.Handle("/api/tracking/", tracking)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "Method not allowed"})
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Tracker != nil {
		latest := s.config.Tracker.Latest()
		response["tracking"] = map[string]interface{}{
			"hand_detected": latest.HandDetected,
			"timestamp_ms":  latest.TimestampMs,
		}
	}
	if s.config.Matcher != nil {
		response["templates"] = len(s.config.Matcher.Templates())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	monitoring.Logf("HTTP server listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
