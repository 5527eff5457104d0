package api

import (
	"errors"
	"net/http"

	"github.com/aimatochysia/rps-vision/internal/session"
)

// LiveHandler controls the live capture session.
type LiveHandler struct {
	session *session.Session
}

// NewLiveHandler creates a new LiveHandler for the given session.
func NewLiveHandler(s *session.Session) *LiveHandler {
	return &LiveHandler{session: s}
}

// Start handles POST /api/live/start.
func (h *LiveHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.session.StartLive(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start camera")
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// Stop handles POST /api/live/stop.
func (h *LiveHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.session.StopLive()
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// CaptureBackground handles POST /api/live/background.
func (h *LiveHandler) CaptureBackground(w http.ResponseWriter, r *http.Request) {
	if err := h.session.CaptureBackground(); err != nil {
		if errors.Is(err, session.ErrNotLive) {
			writeError(w, http.StatusConflict, "No live session running")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to capture background")
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// State handles GET /api/live/state.
func (h *LiveHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}
