package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/flatroutes-dev/flatroutes/pkg/flatroutes"
)

// MessageType represents the type of hub message.
type MessageType string

const (
	MessageTypeManifest MessageType = "manifest"
	MessageTypeError    MessageType = "error"
	MessageTypeClear    MessageType = "clear"
)

// Message is sent to connected clients via WebSocket.
type Message struct {
	Type     MessageType              `json:"type"`
	Manifest flatroutes.RouteManifest `json:"manifest,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// Hub manages WebSocket connections for live manifest updates. Every
// successful compile is broadcast as a manifest message; compile errors
// are broadcast as error messages until a compile succeeds again.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Keep connection alive until client disconnects
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// NotifyManifest sends a fresh manifest to all clients.
func (h *Hub) NotifyManifest(manifest flatroutes.RouteManifest) {
	h.broadcast(Message{Type: MessageTypeManifest, Manifest: manifest})
}

// NotifyError sends a compile error to all clients.
func (h *Hub) NotifyError(errMsg string) {
	h.broadcast(Message{Type: MessageTypeError, Error: errMsg})
}

// ClearError tells all clients the last compile error is resolved.
func (h *Hub) ClearError() {
	h.broadcast(Message{Type: MessageTypeClear})
}

// broadcast sends a message to all connected clients.
func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		err := client.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
