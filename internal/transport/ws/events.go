package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/roomiehq/roomie/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeLocationSubscribe   = "location.subscribe"
	EventTypeLocationUnsubscribe = "location.unsubscribe"
	EventTypePing                = "ping"
)

// Event types - Server → Client
const (
	EventTypeNearbyUserNew = "nearby.user_new"
	EventTypePong          = "pong"
	EventTypeError         = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type       string          `json:"type"`
	LocationID *uuid.UUID      `json:"location_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Timestamp  int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type LocationPayload struct {
	LocationID uuid.UUID `json:"location_id"`
}

// --- Server → Client payloads ---

// NearbyUserPayload announces a user newly linked into a location's
// nearby-set.
type NearbyUserPayload struct {
	User domain.User `json:"user"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, locationID *uuid.UUID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:       eventType,
		LocationID: locationID,
		Payload:    data,
		Timestamp:  time.Now().Unix(),
	}, nil
}
