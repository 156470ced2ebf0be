package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/quickbite/merchant/internal/model"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EventPendingOrders carries the full pending list after every decision.
const EventPendingOrders = "pending_orders"

// Hub maintains the set of connected back-office clients and broadcasts
// pending-order snapshots to them. Polling stays the source of truth for
// clients; the feed only shortens the wait between polls.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, exists := h.clients[client]; exists {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishPending broadcasts the current pending list to every connected
// client. Implements handler.OrderFeed.
func (h *Hub) PublishPending(orders []model.Order) {
	if orders == nil {
		orders = []model.Order{}
	}
	payload, err := json.Marshal(map[string][]model.Order{"orders": orders})
	if err != nil {
		log.Printf("ERROR: marshal pending orders event: %v", err)
		return
	}
	h.broadcast <- Event{Type: EventPendingOrders, Payload: payload}
}
