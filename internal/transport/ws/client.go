package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 64
)

// Client represents a single WebSocket connection.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	deviceID string

	// subscribedLocations tracks which location feeds this client
	// listens to.
	subscribedLocations map[uuid.UUID]struct{}
	mu                  sync.RWMutex

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, deviceID string) *Client {
	return &Client{
		hub:                 hub,
		conn:                conn,
		deviceID:            deviceID,
		subscribedLocations: make(map[uuid.UUID]struct{}),
		send:                make(chan []byte, sendBufSize),
		done:                make(chan struct{}),
	}
}

// IsSubscribed checks if this client is subscribed to a location feed.
func (c *Client) IsSubscribed(locationID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscribedLocations[locationID]
	return ok
}

// Subscribe adds a location feed subscription.
func (c *Client) Subscribe(locationID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribedLocations[locationID] = struct{}{}
}

// Unsubscribe removes a location feed subscription.
func (c *Client) Unsubscribe(locationID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscribedLocations, locationID)
}

// ReadPump reads messages from the WebSocket and routes them to the Hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Debug("ws: client disconnected", "device_id", c.deviceID)
			} else {
				log.Warn("ws: read error", "device_id", c.deviceID, "error", err)
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Warn("ws: write error", "device_id", c.deviceID, "error", err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Warn("ws: ping error", "device_id", c.deviceID, "error", err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeLocationSubscribe:
		var p LocationPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid location.subscribe payload")
			return
		}
		c.Subscribe(p.LocationID)
		log.Debug("ws: subscribed", "device_id", c.deviceID, "location_id", p.LocationID)

	case EventTypeLocationUnsubscribe:
		var p LocationPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid location.unsubscribe payload")
			return
		}
		c.Unsubscribe(p.LocationID)
		log.Debug("ws: unsubscribed", "device_id", c.deviceID, "location_id", p.LocationID)

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, nil, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
