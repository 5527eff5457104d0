package api

import (
	"encoding/json"
	"net/http"

	"github.com/aimatochysia/rps-vision/internal/store"
)

// SettingsHandler reads and updates persisted settings. Updated values are
// picked up on the next application start.
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler creates a new SettingsHandler with the given store.
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

type settingsResponse struct {
	Settings map[string]string `json:"settings"`
}

// List handles GET /api/settings.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list settings")
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: settings})
}

// Update handles PUT /api/settings with a JSON object of key-value pairs.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	for key, value := range updates {
		if err := h.store.Settings().Set(key, value); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
	}

	settings, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list settings")
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: settings})
}
