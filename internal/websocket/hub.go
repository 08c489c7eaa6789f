package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/models"
)

// Message is the envelope pushed to dashboard clients.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients (client ID -> Client)
	clients map[string]*Client

	// Outbound messages for every client
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	mu  sync.RWMutex
	log logger.Logger
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logger.New("websocket"),
	}
}

// Run starts the hub's main loop and closes every client when ctx ends.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Infof("client %s connected from %s (%d connected)", client.ID, client.RemoteAddr, n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				h.log.Infof("client %s disconnected (%d connected)", client.ID, len(h.clients))
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Client buffer full, disconnect
					close(client.send)
					delete(h.clients, id)
					h.log.Warnf("client %s buffer full, disconnecting", id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for every connected client.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	payload, err := json.Marshal(Message{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		h.log.Errorf("failed to marshal broadcast message: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warnf("broadcast queue full, dropping %s", msgType)
	}
}

// HandleEvent forwards registry events to dashboards.
func (h *Hub) HandleEvent(ev models.Event) {
	switch ev.Type {
	case models.EventTripAssigned, models.EventTripUpdated:
		h.Broadcast(ev.Type, map[string]interface{}{
			"trip":   ev.Trip,
			"bin":    ev.Bin,
			"driver": ev.Driver,
		})
	case models.EventBinUpdated:
		h.Broadcast(ev.Type, ev.Bin)
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetConnectedClientIDs returns a list of all connected client IDs
func (h *Hub) GetConnectedClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}
