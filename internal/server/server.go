// Package server provides the HTTP surface for the rps-vision browser UI.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aimatochysia/rps-vision/internal/server/api"
	"github.com/aimatochysia/rps-vision/internal/session"
	"github.com/aimatochysia/rps-vision/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Session   *session.Session
}

// Server represents the HTTP server for the rps-vision application.
type Server struct {
	config Config
	router *mux.Router
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: mux.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	if s.config.Session != nil {
		detectHandler := api.NewDetectHandler(s.config.Session)
		s.router.Handle("/api/detect", detectHandler).Methods(http.MethodPost)

		liveHandler := api.NewLiveHandler(s.config.Session)
		s.router.HandleFunc("/api/live/start", liveHandler.Start).Methods(http.MethodPost)
		s.router.HandleFunc("/api/live/stop", liveHandler.Stop).Methods(http.MethodPost)
		s.router.HandleFunc("/api/live/background", liveHandler.CaptureBackground).Methods(http.MethodPost)
		s.router.HandleFunc("/api/live/state", liveHandler.State).Methods(http.MethodGet)

		s.router.Handle("/api/stream", NewStreamHandler(s.config.Session)).Methods(http.MethodGet)
		s.router.Handle("/ws", NewResultsHandler(s.config.Session))
	}

	if s.config.Store != nil {
		settingsHandler := api.NewSettingsHandler(s.config.Store)
		s.router.HandleFunc("/api/settings", settingsHandler.List).Methods(http.MethodGet)
		s.router.HandleFunc("/api/settings", settingsHandler.Update).Methods(http.MethodPut)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.PathPrefix("/").Handler(fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
