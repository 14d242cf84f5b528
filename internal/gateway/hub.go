// Package gateway exposes the screener over HTTP and WebSocket: REST routes
// for running a pass and fetching the detail dashboard, plus a WS fan-out
// that streams per-symbol progress while a pass is in flight.
package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub manages WebSocket clients and event fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	seq     int64

	// latest holds the most recent envelope per event type, replayed to
	// newly connected clients so they see current state immediately.
	latest map[string][]byte
}

// NewHub creates a new Hub for managing WS clients.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		latest:  make(map[string][]byte),
	}
}

// Broadcast sends an event of the given type to every connected client.
// Slow clients are dropped-from, never waited on.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("[gateway] marshal %s event: %v", event, err)
		return
	}

	h.mu.Lock()
	h.seq++
	envelope, _ := json.Marshal(map[string]interface{}{
		"type": event,
		"data": json.RawMessage(payload),
		"ts":   time.Now().UTC().Format(time.RFC3339Nano),
		"seq":  h.seq,
	})
	h.latest[event] = envelope
	for client := range h.clients {
		select {
		case client.send <- envelope:
		default:
		}
	}
	h.mu.Unlock()
}

// HandleWSRequest registers an upgraded connection and starts its pumps.
func (h *Hub) HandleWSRequest(conn *websocket.Conn) {
	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	log.Printf("[gateway] ws client connected (%d total)", count)

	go client.sendInitialState()
	go client.writePump()
	go client.readPump()
}

// RemoveClient removes a client from the hub.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected WS clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
