// Package memory is an in-process Store used by tests. It mirrors the
// postgres implementation's observable behavior: coordinate uniqueness,
// insertion-ordered scans and idempotent nearby links.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/roomiehq/roomie/internal/domain"
	"github.com/roomiehq/roomie/internal/repository"
)

type Store struct {
	mu        sync.RWMutex
	users     []domain.User
	locations []domain.Location
	// nearby holds each location's member device ids in link order.
	nearby map[uuid.UUID][]string
}

func NewStore() *Store {
	return &Store{nearby: make(map[uuid.UUID][]string)}
}

func (s *Store) Users() repository.UserRepository         { return (*userRepo)(s) }
func (s *Store) Locations() repository.LocationRepository { return (*locationRepo)(s) }
func (s *Store) Nearby() repository.NearbyRepository      { return (*nearbyRepo)(s) }

// InTx runs fn against the store itself. Single-process tests don't
// need rollback; each repository call is individually atomic.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type userRepo Store

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	u.Location = nil
	r.users = append(r.users, u)
	return nil
}

func (r *userRepo) GetByDeviceID(ctx context.Context, deviceID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.users {
		if r.users[i].DeviceID == deviceID {
			return r.joined(r.users[i]), nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *r.joined(u))
	}
	return out, nil
}

func (r *userRepo) Delete(ctx context.Context, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].DeviceID == deviceID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

// joined attaches a copy of the user's location, like the SQL join does.
func (r *userRepo) joined(u domain.User) *domain.User {
	for i := range r.locations {
		if r.locations[i].ID == u.LocationID {
			loc := r.locations[i]
			u.Location = &loc
			break
		}
	}
	return &u
}

type locationRepo Store

func (r *locationRepo) Create(ctx context.Context, loc *domain.Location) (*domain.Location, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.locations {
		if r.locations[i].Latitude == loc.Latitude && r.locations[i].Longitude == loc.Longitude {
			existing := r.locations[i]
			return &existing, false, nil
		}
	}
	r.locations = append(r.locations, *loc)
	created := *loc
	return &created, true, nil
}

func (r *locationRepo) GetByCoordinate(ctx context.Context, lat, lon float64) (*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.locations {
		if r.locations[i].Latitude == lat && r.locations[i].Longitude == lon {
			loc := r.locations[i]
			return &loc, nil
		}
	}
	return nil, nil
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.locations {
		if r.locations[i].ID == id {
			loc := r.locations[i]
			return &loc, nil
		}
	}
	return nil, nil
}

func (r *locationRepo) List(ctx context.Context) ([]domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Location, len(r.locations))
	copy(out, r.locations)
	return out, nil
}

type nearbyRepo Store

func (r *nearbyRepo) Link(ctx context.Context, locationID uuid.UUID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.nearby[locationID] {
		if id == deviceID {
			return nil
		}
	}
	r.nearby[locationID] = append(r.nearby[locationID], deviceID)
	return nil
}

func (r *nearbyRepo) ListUsers(ctx context.Context, locationID uuid.UUID) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.User
	for _, deviceID := range r.nearby[locationID] {
		for i := range r.users {
			if r.users[i].DeviceID == deviceID {
				out = append(out, *(*userRepo)(r).joined(r.users[i]))
				break
			}
		}
	}
	return out, nil
}

func (r *nearbyRepo) RemoveUser(ctx context.Context, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for locID, members := range r.nearby {
		for i, id := range members {
			if id == deviceID {
				r.nearby[locID] = append(members[:i], members[i+1:]...)
				break
			}
		}
	}
	return nil
}
