// Package progresshub streams live batch-grade progress over
// WebSocket (supplemented feature D.5): one channel per assignment,
// broadcasting a ProgressEvent as each student's grading completes.
// Read-only — it never changes grading semantics, only observes it.
package progresshub

import (
	"encoding/json"
	"sync"
)

// Client is one connected WebSocket subscriber, scoped to a single
// assignment's progress feed.
type Client struct {
	Send         chan []byte
	AssignmentID uint
}

// Hub fans ProgressEvents out to every client subscribed to the
// matching assignment.
type Hub struct {
	clients map[uint]map[*Client]bool

	broadcast  chan *ProgressEvent
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub constructs a Hub. Call Run in a goroutine to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		broadcast:  make(chan *ProgressEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop; it blocks, so callers invoke it as
// a single `go hub.Run()` at process start.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.AssignmentID] == nil {
		h.clients[client.AssignmentID] = make(map[*Client]bool)
	}
	h.clients[client.AssignmentID][client] = true
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[client.AssignmentID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.Send)
			if len(clients) == 0 {
				delete(h.clients, client.AssignmentID)
			}
		}
	}
}

func (h *Hub) broadcastEvent(event *ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[event.AssignmentID]
	if !ok {
		return
	}

	message, err := json.Marshal(event)
	if err != nil {
		return
	}

	for client := range clients {
		select {
		case client.Send <- message:
		default:
			h.mu.RUnlock()
			h.unregisterClient(client)
			h.mu.RLock()
		}
	}
}

// Register adds client to the hub.
func (h *Hub) Register(client *Client) { h.register <- client }

// Unregister removes client from the hub.
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

// Broadcast publishes event to every client subscribed to its assignment.
func (h *Hub) Broadcast(event *ProgressEvent) { h.broadcast <- event }

// SubscriberCount reports how many clients are watching assignmentID.
func (h *Hub) SubscriberCount(assignmentID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[assignmentID])
}
