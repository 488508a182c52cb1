package ws

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/roomiehq/roomie/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// NotifyNearbyUser pushes the newly registered user to every subscribed
// feed of the locations whose nearby-sets just gained them. The user's
// own device is excluded; it was part of the registration.
func (n *HubNotifier) NotifyNearbyUser(locationIDs []uuid.UUID, user *domain.User) {
	for _, locationID := range locationIDs {
		evt, err := NewEvent(EventTypeNearbyUserNew, &locationID, NearbyUserPayload{User: *user})
		if err != nil {
			log.Error("ws notifier: marshal error", "error", err)
			return
		}
		n.hub.BroadcastToLocation(locationID, evt, user.DeviceID)
	}
}
