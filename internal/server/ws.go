package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aimatochysia/rps-vision/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ResultsHandler pushes per-cycle session state to connected browsers via
// WebSocket.
type ResultsHandler struct {
	session *session.Session
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewResultsHandler creates a new ResultsHandler for the given session.
func NewResultsHandler(s *session.Session) *ResultsHandler {
	h := &ResultsHandler{
		session: s,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends the session state to all connected clients on the loop's
// cadence.
func (h *ResultsHandler) broadcast() {
	ticker := time.NewTicker(session.DefaultCaptureDelay)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		state := h.session.Snapshot()

		h.mu.RLock()
		for conn := range h.clients {
			if err := conn.WriteJSON(state); err != nil {
				log.Printf("websocket write error: %v", err)
			}
		}
		h.mu.RUnlock()
	}
}
