package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/roomiehq/roomie/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByDeviceID(ctx context.Context, deviceID string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, deviceID string) error
}

type LocationRepository interface {
	// Create inserts the location unless another row already holds the
	// same coordinate pair. It returns the winning row and whether this
	// call created it.
	Create(ctx context.Context, loc *domain.Location) (*domain.Location, bool, error)
	GetByCoordinate(ctx context.Context, lat, lon float64) (*domain.Location, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
}

// NearbyRepository maintains each location's nearby-set. All membership
// mutation goes through Link; nothing else appends to the set.
type NearbyRepository interface {
	// Link adds a user to a location's nearby-set. Inserting an existing
	// member is a no-op, so concurrent callers can race safely.
	Link(ctx context.Context, locationID uuid.UUID, deviceID string) error
	// ListUsers returns the members of a location's nearby-set with
	// their own locations attached, in persisted order.
	ListUsers(ctx context.Context, locationID uuid.UUID) ([]domain.User, error)
	// RemoveUser drops the user from every nearby-set it appears in.
	RemoveUser(ctx context.Context, deviceID string) error
}

// Store bundles the repositories and the transaction boundary.
// Registration spans location resolution, the user insert and both
// nearby scans, and must commit or roll back as a unit.
type Store interface {
	Users() UserRepository
	Locations() LocationRepository
	Nearby() NearbyRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
