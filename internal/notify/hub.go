// Package notify pushes lottery events to connected display clients over
// WebSocket.
package notify

import (
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/gorilla/websocket"
)

// Event is the JSON envelope sent to every connected client.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// Event types.
const (
	EventConnected        = "CONNECTED"
	EventResultsAnnounced = "RESULTS_ANNOUNCED"
)

// Hub tracks connected WebSocket clients and broadcasts events to all of
// them. Writes are serialized under the hub lock; a failed write drops the
// client.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// Register adds a client and greets it with the current client count.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()

	logger.Infof("display client connected, %d total", count)
	h.sendTo(conn, Event{
		Type:      EventConnected,
		Payload:   map[string]int{"totalClients": count},
		Timestamp: time.Now().UnixMilli(),
	})
}

// Unregister removes a client and closes its connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()

	conn.Close()
	logger.Infof("display client disconnected, %d remaining", count)
}

// ResultsAnnounced broadcasts a settlement announcement to every client.
func (h *Hub) ResultsAnnounced(winningNumber, settledCount int) {
	h.broadcast(Event{
		Type: EventResultsAnnounced,
		Payload: map[string]int{
			"winningNumber": winningNumber,
			"settledCount":  settledCount,
		},
		Timestamp: time.Now().UnixMilli(),
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(event); err != nil {
			logger.Warningf("dropping display client after write error: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

func (h *Hub) sendTo(conn *websocket.Conn, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[conn] {
		return
	}
	if err := conn.WriteJSON(event); err != nil {
		delete(h.clients, conn)
		conn.Close()
	}
}
