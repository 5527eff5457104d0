package api

import (
	"errors"
	"net/http"

	"github.com/disintegration/imaging"

	"github.com/aimatochysia/rps-vision/internal/session"
)

// maxUploadBytes bounds the multipart form held in memory per upload.
const maxUploadBytes = 10 << 20

// DetectHandler runs single-shot detection on an uploaded image.
type DetectHandler struct {
	session *session.Session
}

// NewDetectHandler creates a new DetectHandler for the given session.
func NewDetectHandler(s *session.Session) *DetectHandler {
	return &DetectHandler{session: s}
}

// ServeHTTP handles POST /api/detect. The body is a multipart form with a
// "file" field holding the image. Passing raw=1 skips the edge+skin mask.
func (h *DetectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unreadable image file")
		return
	}

	raw := r.FormValue("raw") == "1"

	result, err := h.session.ProcessImage(img, raw)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrLiveActive):
			writeError(w, http.StatusConflict, "Live session is active")
		case errors.Is(err, session.ErrBusy):
			writeError(w, http.StatusConflict, "Detection already in progress")
		default:
			writeError(w, http.StatusBadGateway, session.DetectionFailedMessage)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
