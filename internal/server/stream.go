package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aimatochysia/rps-vision/internal/session"
)

// StreamHandler serves MJPEG frames annotated with the current detections.
type StreamHandler struct {
	session *session.Session
}

// NewStreamHandler creates a new StreamHandler for the given session.
func NewStreamHandler(s *session.Session) *StreamHandler {
	return &StreamHandler{session: s}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, err := h.session.AnnotatedFrame()
		if err != nil || frame == nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
		w.Write(frame)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(100 * time.Millisecond)
	}
}
