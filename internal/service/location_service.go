package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roomiehq/roomie/internal/domain"
	"github.com/roomiehq/roomie/internal/geo"
	"github.com/roomiehq/roomie/internal/geocode"
	"github.com/roomiehq/roomie/internal/repository"
	"github.com/roomiehq/roomie/pkg/states"
)

// ErrInvalidLocation means the address could not be geocoded, either
// because the provider found nothing or because the lookup timed out.
var ErrInvalidLocation = errors.New("invalid location")

// LocationService resolves addresses to canonical locations and keeps
// every location's nearby-set current as locations and users appear.
type LocationService struct {
	geocoder geocode.Geocoder
}

func NewLocationService(geocoder geocode.Geocoder) *LocationService {
	return &LocationService{geocoder: geocoder}
}

// ResolvedPlace is a normalized, geocoded address, produced before the
// registration transaction opens so the slow external call stays
// outside it.
type ResolvedPlace struct {
	City      string
	State     string
	Address   string
	Latitude  float64
	Longitude float64
}

// Locate normalizes city and state and geocodes the full address.
func (s *LocationService) Locate(ctx context.Context, city, state, address string) (ResolvedPlace, error) {
	// Casers are stateful, so build one per call.
	city = cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(city)))
	state = states.Normalize(state)
	address = strings.TrimSpace(address)

	query := fmt.Sprintf("%s, %s, %s", address, city, state)
	point, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		if errors.Is(err, geocode.ErrNoResult) || isTimeout(err) {
			return ResolvedPlace{}, ErrInvalidLocation
		}
		return ResolvedPlace{}, fmt.Errorf("geocoding %q: %w", query, err)
	}

	return ResolvedPlace{
		City:      city,
		State:     state,
		Address:   address,
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
	}, nil
}

// Resolve returns the canonical location for a geocoded place, creating
// it if the coordinate pair is new. A new location pulls every existing
// user within the radius into its nearby-set; an existing location is
// returned untouched, since an identical coordinate cannot produce new
// nearby pairs.
func (s *LocationService) Resolve(ctx context.Context, store repository.Store, place ResolvedPlace) (*domain.Location, error) {
	loc := &domain.Location{
		ID:        uuid.New(),
		City:      place.City,
		State:     place.State,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		CreatedAt: nowFunc(),
	}
	if place.Address != "" {
		addr := place.Address
		loc.Address = &addr
	}

	loc, created, err := store.Locations().Create(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}
	if !created {
		return loc, nil
	}

	users, err := store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning users for new location: %w", err)
	}
	for i := range users {
		u := &users[i]
		if err := s.linkIfNearby(ctx, store, loc, u.DeviceID, u.Location.Latitude, u.Location.Longitude); err != nil {
			return nil, err
		}
	}
	return loc, nil
}

// AttachUser adds a freshly registered user to the nearby-set of every
// location within the radius, including the user's own. It returns the
// ids of the locations that qualified.
func (s *LocationService) AttachUser(ctx context.Context, store repository.Store, user *domain.User, lat, lon float64) ([]uuid.UUID, error) {
	locs, err := store.Locations().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning locations for new user: %w", err)
	}

	var linked []uuid.UUID
	for i := range locs {
		loc := &locs[i]
		if err := s.linkIfNearby(ctx, store, loc, user.DeviceID, lat, lon); err != nil {
			return nil, err
		}
		if geo.Distance(loc.Latitude, loc.Longitude, lat, lon) <= geo.NearbyRadiusKm {
			linked = append(linked, loc.ID)
		}
	}
	return linked, nil
}

// linkIfNearby is the single membership operation both scan directions
// go through. It is idempotent, so membership converges to the same
// relation no matter which order locations and users were created in.
func (s *LocationService) linkIfNearby(ctx context.Context, store repository.Store, loc *domain.Location, deviceID string, lat, lon float64) error {
	if geo.Distance(loc.Latitude, loc.Longitude, lat, lon) > geo.NearbyRadiusKm {
		return nil
	}
	if err := store.Nearby().Link(ctx, loc.ID, deviceID); err != nil {
		return fmt.Errorf("linking %s to location %s: %w", deviceID, loc.ID, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
