package ws

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"nhooyr.io/websocket"

	"github.com/roomiehq/roomie/internal/service"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Clients identify with ?device_id=xxx; the device must belong to a
// registered user.
func ServeWS(hub *Hub, matching *service.MatchingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.URL.Query().Get("device_id")
		if deviceID == "" {
			http.Error(w, "missing device_id", http.StatusBadRequest)
			return
		}

		if _, err := matching.GetUser(r.Context(), deviceID); err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				http.Error(w, "unknown device", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			log.Error("ws: accept error", "error", err)
			return
		}

		client := NewClient(hub, conn, deviceID)
		hub.register <- client

		// Start read/write pumps in goroutines
		go client.WritePump()
		go client.ReadPump()
	}
}
