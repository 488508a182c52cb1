package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered roommate candidate. DeviceID is the primary key
// supplied by the client app. Gender, SleepTime and Cleanliness are
// small categorical codes chosen by the frontend.
type User struct {
	DeviceID    string    `json:"device_id"`
	Name        string    `json:"name"`
	NetID       string    `json:"netid"`
	GradYear    int       `json:"grad_year"`
	Age         int       `json:"age"`
	Gender      int       `json:"gender"`
	SleepTime   int       `json:"sleep_time"`
	Cleanliness int       `json:"cleanliness"`
	Bio         string    `json:"bio"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	LocationID  uuid.UUID `json:"-"`
	CreatedAt   time.Time `json:"-"`
	// Joined fields
	Location *Location `json:"location,omitempty"`
}

// Match pairs a candidate with the similarity score computed against
// the requesting user.
type Match struct {
	Similarity float64 `json:"similarity"`
	User       *User   `json:"user"`
}
