package ws

import (
	"encoding/json"
	"log"
)

// Event types pushed to connected feed clients.
const (
	EventNewPost    = "new_post"
	EventNewComment = "new_comment"
	EventLike       = "like"
)

// Message is the envelope broadcast to clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub keeps the set of active clients and broadcasts feed events to them.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish marshals an event and queues it for broadcast without blocking the
// caller; events are dropped if the broadcast buffer is full.
func (h *Hub) Publish(eventType string, data interface{}) {
	msg, err := json.Marshal(Message{Type: eventType, Data: data})
	if err != nil {
		log.Printf("Error marshalling WS message: %v", err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
	}
}
