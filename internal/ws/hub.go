package ws

import (
	"context"
	"log"
)

// Hub fans incoming telemetry frames out to every connected viewer.
// One producer path (the rig's desktop agent pushing binary frames)
// feeds N viewers; a slow or dead viewer gets frames dropped rather
// than blocking the producer.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	// done is closed when Run returns; lifecycle sends select against
	// it so connections never block on a stopped hub.
	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// add registers client for fan-out. Reports false when the hub has
// already stopped.
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// remove takes client out of the fan-out set. Safe to call after the
// hub has stopped.
func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a frame for fan-out. Drops the frame when the hub
// queue is full; live telemetry tolerates gaps, not stalls.
func (h *Hub) Broadcast(frame []byte) {
	select {
	case h.broadcast <- frame:
	default:
	}
}

// Run owns the client set until ctx is canceled. Lifecycle events
// take priority over frames so the set is consistent before fan-out.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case frame := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// Viewer cannot keep up; skip it for this frame.
				}
			}

		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			close(h.done)
			log.Println("WebSocket hub stopped")
			return
		}
	}
}
