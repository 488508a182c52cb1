package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/roomiehq/roomie/internal/domain"
	"github.com/roomiehq/roomie/internal/match"
	"github.com/roomiehq/roomie/internal/repository"
)

var (
	ErrDuplicateUser = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
)

// DefaultMatchLimit caps how many candidates a match query returns.
const DefaultMatchLimit = 10

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// Notifier receives nearby-set changes after a registration commits.
type Notifier interface {
	NotifyNearbyUser(locationIDs []uuid.UUID, user *domain.User)
}

// MatchingService orchestrates registration, nearby-set maintenance and
// ranked match queries.
type MatchingService struct {
	store     repository.Store
	locations *LocationService
	notifier  Notifier
}

func NewMatchingService(store repository.Store, locations *LocationService, notifier Notifier) *MatchingService {
	return &MatchingService{store: store, locations: locations, notifier: notifier}
}

type RegisterUserInput struct {
	DeviceID    string `json:"device_id"`
	Name        string `json:"name"`
	NetID       string `json:"netid"`
	GradYear    int    `json:"grad_year"`
	Age         int    `json:"age"`
	Gender      int    `json:"gender"`
	SleepTime   int    `json:"sleep_time"`
	Cleanliness int    `json:"cleanliness"`
	Bio         string `json:"bio"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	State       string `json:"state"`
	Address     string `json:"address"`
}

// RegisterUser geocodes the address, then atomically resolves the
// location, inserts the user and links both directions of the nearby
// relation. A failed geocode aborts before anything is written.
func (s *MatchingService) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	existing, err := s.store.Users().GetByDeviceID(ctx, input.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("checking device id: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}

	// The geocoder is the one slow external call; keep it outside the
	// transaction.
	place, err := s.locations.Locate(ctx, input.City, input.State, input.Address)
	if err != nil {
		return nil, err
	}

	var (
		user   *domain.User
		linked []uuid.UUID
	)
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		// Re-check inside the transaction; a concurrent identical
		// registration may have won since the first look.
		existing, err := tx.Users().GetByDeviceID(ctx, input.DeviceID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateUser
		}

		loc, err := s.locations.Resolve(ctx, tx, place)
		if err != nil {
			return err
		}

		user = &domain.User{
			DeviceID:    input.DeviceID,
			Name:        input.Name,
			NetID:       input.NetID,
			GradYear:    input.GradYear,
			Age:         input.Age,
			Gender:      input.Gender,
			SleepTime:   input.SleepTime,
			Cleanliness: input.Cleanliness,
			Bio:         input.Bio,
			Email:       optional(input.Email),
			Phone:       optional(input.Phone),
			LocationID:  loc.ID,
			CreatedAt:   nowFunc(),
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		linked, err = s.locations.AttachUser(ctx, tx, user, loc.Latitude, loc.Longitude)
		if err != nil {
			return err
		}

		user.Location = loc
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && len(linked) > 0 {
		s.notifier.NotifyNearbyUser(linked, user)
	}
	return user, nil
}

func (s *MatchingService) GetUser(ctx context.Context, deviceID string) (*domain.User, error) {
	user, err := s.store.Users().GetByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *MatchingService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// DeleteUser removes the user and scrubs it from every nearby-set, so
// no location keeps a dangling reference.
func (s *MatchingService) DeleteUser(ctx context.Context, deviceID string) (*domain.User, error) {
	var user *domain.User
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		user, err = tx.Users().GetByDeviceID(ctx, deviceID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		if err := tx.Nearby().RemoveUser(ctx, deviceID); err != nil {
			return fmt.Errorf("removing nearby membership: %w", err)
		}
		return tx.Users().Delete(ctx, deviceID)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetNearbyUsers returns the members of the requester's location's
// nearby-set, excluding the requester itself.
func (s *MatchingService) GetNearbyUsers(ctx context.Context, deviceID string) ([]domain.User, error) {
	user, err := s.GetUser(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.Nearby().ListUsers(ctx, user.LocationID)
	if err != nil {
		return nil, err
	}

	nearby := make([]domain.User, 0, len(candidates))
	for _, c := range candidates {
		if c.DeviceID == deviceID {
			continue
		}
		nearby = append(nearby, c)
	}
	return nearby, nil
}

// GetMatches scores every nearby candidate against the requester and
// returns at most limit of them, best first. Ties keep the nearby-set's
// order.
func (s *MatchingService) GetMatches(ctx context.Context, deviceID string, limit int) ([]domain.Match, error) {
	user, err := s.GetUser(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.GetNearbyUsers(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		matches = append(matches, domain.Match{
			Similarity: match.Score(user, &c),
			User:       &c,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit <= 0 || limit > DefaultMatchLimit {
		limit = DefaultMatchLimit
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
