package ws

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Hub manages all active WebSocket clients and routes nearby-feed
// events to location subscribers.
type Hub struct {
	// clients maps device id → client.
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
}

type broadcastMsg struct {
	locationID    uuid.UUID
	data          []byte
	excludeDevice string // optional: skip this device (e.g. the new user itself)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.deviceID] = client
			log.Info("ws hub: device connected", "device_id", client.deviceID, "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client.deviceID]; ok {
				delete(h.clients, client.deviceID)
				close(client.send)
				close(client.done)
				log.Info("ws hub: device disconnected", "device_id", client.deviceID, "total", len(h.clients))
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				if msg.excludeDevice != "" && client.deviceID == msg.excludeDevice {
					continue
				}
				if !client.IsSubscribed(msg.locationID) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, client.deviceID)
					close(client.send)
					close(client.done)
				}
			}
		}
	}
}

// BroadcastToLocation sends an event to all subscribers of a location
// feed.
func (h *Hub) BroadcastToLocation(locationID uuid.UUID, event *Event, excludeDevice string) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error("ws hub: marshal error", "error", err)
		return
	}
	h.broadcast <- &broadcastMsg{
		locationID:    locationID,
		data:          data,
		excludeDevice: excludeDevice,
	}
}
