package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomiehq/roomie/internal/domain"
	"github.com/roomiehq/roomie/internal/geocode"
	"github.com/roomiehq/roomie/internal/repository/memory"
)

// fakeGeocoder maps the address part of a query to a fixed coordinate.
type fakeGeocoder struct {
	points map[string]geocode.Point
	err    error
}

func (g *fakeGeocoder) Geocode(ctx context.Context, query string) (geocode.Point, error) {
	if g.err != nil {
		return geocode.Point{}, g.err
	}
	address, _, _ := strings.Cut(query, ",")
	p, ok := g.points[address]
	if !ok {
		return geocode.Point{}, geocode.ErrNoResult
	}
	return p, nil
}

type recordingNotifier struct {
	locationIDs []uuid.UUID
	users       []string
}

func (n *recordingNotifier) NotifyNearbyUser(locationIDs []uuid.UUID, user *domain.User) {
	n.locationIDs = append(n.locationIDs, locationIDs...)
	n.users = append(n.users, user.DeviceID)
}

type fixture struct {
	store    *memory.Store
	geocoder *fakeGeocoder
	notifier *recordingNotifier
	svc      *MatchingService
}

func newFixture() *fixture {
	g := &fakeGeocoder{points: map[string]geocode.Point{}}
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	return &fixture{
		store:    store,
		geocoder: g,
		notifier: notifier,
		svc:      NewMatchingService(store, NewLocationService(g), notifier),
	}
}

func (f *fixture) addPoint(address string, lat, lon float64) {
	f.points()[address] = geocode.Point{Latitude: lat, Longitude: lon}
}

func (f *fixture) points() map[string]geocode.Point { return f.geocoder.points }

func (f *fixture) register(t *testing.T, deviceID string, lat, lon float64, mutate func(*RegisterUserInput)) *domain.User {
	t.Helper()
	address := fmt.Sprintf("%s Main St", deviceID)
	f.addPoint(address, lat, lon)
	input := RegisterUserInput{
		DeviceID:    deviceID,
		Name:        "Test " + deviceID,
		NetID:       deviceID + "-net",
		GradYear:    2026,
		Age:         21,
		Gender:      1,
		SleepTime:   2,
		Cleanliness: 1,
		Bio:         "hi",
		City:        "ithaca",
		State:       "New York",
		Address:     address,
	}
	if mutate != nil {
		mutate(&input)
	}
	user, err := f.svc.RegisterUser(context.Background(), input)
	require.NoError(t, err)
	return user
}

func TestRegisterUserNormalizesLocation(t *testing.T) {
	f := newFixture()
	user := f.register(t, "dev-1", 42.4534, -76.4735, nil)

	require.NotNil(t, user.Location)
	assert.Equal(t, "Ithaca", user.Location.City)
	assert.Equal(t, "NY", user.Location.State)
	assert.Equal(t, 42.4534, user.Location.Latitude)
	assert.Equal(t, -76.4735, user.Location.Longitude)
}

func TestRegisterUserDeduplicatesCoordinates(t *testing.T) {
	f := newFixture()
	a := f.register(t, "dev-a", 42.4534, -76.4735, nil)
	b := f.register(t, "dev-b", 42.4534, -76.4735, nil)

	assert.Equal(t, a.LocationID, b.LocationID)

	locs, err := f.store.Locations().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, locs, 1)
}

func TestNearbyMembershipIsBidirectional(t *testing.T) {
	for name, reversed := range map[string]bool{"a then b": false, "b then a": true} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			first, second := "dev-a", "dev-b"
			if reversed {
				first, second = second, first
			}
			coords := map[string][2]float64{
				"dev-a": {40.0, -75.0},
				"dev-b": {40.01, -75.0}, // ~1.1 km apart
			}
			f.register(t, first, coords[first][0], coords[first][1], nil)
			f.register(t, second, coords[second][0], coords[second][1], nil)

			nearbyA, err := f.svc.GetNearbyUsers(context.Background(), "dev-a")
			require.NoError(t, err)
			require.Len(t, nearbyA, 1)
			assert.Equal(t, "dev-b", nearbyA[0].DeviceID)

			nearbyB, err := f.svc.GetNearbyUsers(context.Background(), "dev-b")
			require.NoError(t, err)
			require.Len(t, nearbyB, 1)
			assert.Equal(t, "dev-a", nearbyB[0].DeviceID)
		})
	}
}

func TestNearbyExcludesFarUsers(t *testing.T) {
	f := newFixture()
	f.register(t, "dev-a", 40.0, -75.0, nil)
	f.register(t, "dev-far", 41.0, -75.0, nil) // ~111 km

	nearby, err := f.svc.GetNearbyUsers(context.Background(), "dev-a")
	require.NoError(t, err)
	assert.Empty(t, nearby)
}

func TestRegisterUserDuplicateDeviceID(t *testing.T) {
	f := newFixture()
	f.register(t, "dev-a", 40.0, -75.0, nil)

	f.addPoint("other address", 41.0, -75.0)
	_, err := f.svc.RegisterUser(context.Background(), RegisterUserInput{
		DeviceID: "dev-a",
		Name:     "Impostor",
		NetID:    "x",
		GradYear: 2027,
		Age:      22,
		City:     "Philadelphia",
		State:    "PA",
		Address:  "other address",
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	// Original record untouched.
	got, err := f.svc.GetUser(context.Background(), "dev-a")
	require.NoError(t, err)
	assert.Equal(t, "Test dev-a", got.Name)
}

func TestRegisterUserGeocodeFailureLeavesNoState(t *testing.T) {
	f := newFixture()
	_, err := f.svc.RegisterUser(context.Background(), RegisterUserInput{
		DeviceID: "dev-a",
		Name:     "A",
		NetID:    "a",
		City:     "Nowhere",
		State:    "ZZ",
		Address:  "unknown address",
	})
	assert.ErrorIs(t, err, ErrInvalidLocation)

	users, err := f.svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	locs, err := f.store.Locations().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestGetMatchesRanksBySimilarity(t *testing.T) {
	f := newFixture()
	f.register(t, "dev-me", 40.0, -75.0, nil)
	// Identical attributes at the same coordinate: similarity 1.0.
	f.register(t, "dev-twin", 40.0, -75.0, nil)
	// Different gender, cleanliness and sleep schedule: much lower.
	f.register(t, "dev-other", 40.0, -75.0, func(in *RegisterUserInput) {
		in.Gender = 2
		in.Cleanliness = 3
		in.SleepTime = 0
	})

	matches, err := f.svc.GetMatches(context.Background(), "dev-me", 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "dev-twin", matches[0].User.DeviceID)
	assert.Equal(t, "dev-other", matches[1].User.DeviceID)
	assert.Greater(t, matches[0].Similarity, matches[1].Similarity)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-12)
}

func TestGetMatchesHonorsLimit(t *testing.T) {
	f := newFixture()
	f.register(t, "dev-me", 40.0, -75.0, nil)
	f.register(t, "dev-1", 40.0, -75.0, nil)
	f.register(t, "dev-2", 40.0, -75.0, nil)
	f.register(t, "dev-3", 40.0, -75.0, nil)

	matches, err := f.svc.GetMatches(context.Background(), "dev-me", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestGetMatchesUnknownDevice(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetMatches(context.Background(), "unknown-device", 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetNearbyUsersUnknownDevice(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetNearbyUsers(context.Background(), "unknown-device")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserCascadesNearbySets(t *testing.T) {
	f := newFixture()
	f.register(t, "dev-a", 40.0, -75.0, nil)
	f.register(t, "dev-b", 40.01, -75.0, nil)

	deleted, err := f.svc.DeleteUser(context.Background(), "dev-b")
	require.NoError(t, err)
	assert.Equal(t, "dev-b", deleted.DeviceID)

	_, err = f.svc.GetUser(context.Background(), "dev-b")
	assert.ErrorIs(t, err, ErrUserNotFound)

	nearby, err := f.svc.GetNearbyUsers(context.Background(), "dev-a")
	require.NoError(t, err)
	assert.Empty(t, nearby)
}

func TestDeleteUserUnknownDevice(t *testing.T) {
	f := newFixture()
	_, err := f.svc.DeleteUser(context.Background(), "unknown-device")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterUserNotifiesLinkedLocations(t *testing.T) {
	f := newFixture()
	a := f.register(t, "dev-a", 40.0, -75.0, nil)
	b := f.register(t, "dev-b", 40.01, -75.0, nil)

	// dev-b landed in both locations' nearby-sets.
	assert.Equal(t, []string{"dev-a", "dev-b"}, f.notifier.users)
	assert.Contains(t, f.notifier.locationIDs, a.LocationID)
	assert.Contains(t, f.notifier.locationIDs, b.LocationID)
}
