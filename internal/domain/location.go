package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is a geocoded place shared by every user whose address
// resolves to the same coordinate pair. The (Latitude, Longitude) pair
// is the deduplication key.
type Location struct {
	ID        uuid.UUID `json:"id"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Address   *string   `json:"address,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"-"`
}
