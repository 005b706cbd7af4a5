// Package ws provides the live update channel: connected clients receive a
// stream of change events for their own documents plus the shared donation
// feed, mirroring the snapshot-then-deltas behavior of a live query.
package ws

import (
	"log"
	"sync"
)

// Hub tracks active clients per user and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool // user id -> connections
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]bool)}
}

// Client is one WebSocket connection belonging to one user.
type Client struct {
	UserID string
	send   chan []byte
}

func NewClient(userID string) *Client {
	return &Client{
		UserID: userID,
		send:   make(chan []byte, 64),
	}
}

// Send returns the channel the connection writer drains.
func (c *Client) Send() chan []byte {
	return c.send
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[client.UserID]; ok {
		if _, ok := conns[client]; ok {
			delete(conns, client)
			close(client.send)
			if len(conns) == 0 {
				delete(h.clients, client.UserID)
			}
		}
	}
}

// SendToUser delivers a message to every open connection of one user.
// Connections with a full buffer are dropped rather than blocking the caller.
func (h *Hub) SendToUser(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- message:
		default:
			log.Printf("ws: client buffer full, dropping message for user %s", userID)
		}
	}
}

// Broadcast delivers a message to every connected client.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.clients {
		for client := range conns {
			select {
			case client.send <- message:
			default:
			}
		}
	}
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}
