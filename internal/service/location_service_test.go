package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomiehq/roomie/internal/geocode"
)

func TestLocateNormalizesAndQueries(t *testing.T) {
	var gotQuery string
	g := &geocoderFunc{fn: func(ctx context.Context, query string) (geocode.Point, error) {
		gotQuery = query
		return geocode.Point{Latitude: 40.0, Longitude: -75.0}, nil
	}}
	svc := NewLocationService(g)

	place, err := svc.Locate(context.Background(), "pHILadelphia", "pennsylvania", " 100 Market St ")
	require.NoError(t, err)
	assert.Equal(t, "100 Market St, Philadelphia, PA", gotQuery)
	assert.Equal(t, "Philadelphia", place.City)
	assert.Equal(t, "PA", place.State)
	assert.Equal(t, "100 Market St", place.Address)
}

func TestLocateNoResult(t *testing.T) {
	g := &geocoderFunc{fn: func(ctx context.Context, query string) (geocode.Point, error) {
		return geocode.Point{}, geocode.ErrNoResult
	}}
	svc := NewLocationService(g)

	_, err := svc.Locate(context.Background(), "Nowhere", "ZZ", "")
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestLocateTimeoutMapsToInvalidLocation(t *testing.T) {
	g := &geocoderFunc{fn: func(ctx context.Context, query string) (geocode.Point, error) {
		return geocode.Point{}, context.DeadlineExceeded
	}}
	svc := NewLocationService(g)

	_, err := svc.Locate(context.Background(), "Ithaca", "NY", "")
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestNearbyRadiusBoundary(t *testing.T) {
	f := newFixture()
	f.register(t, "dev-center", 40.0, -75.0, nil)
	// One degree of latitude is ~111.23 km; scale to just inside and
	// just outside the 32 km radius.
	f.register(t, "dev-inside", 40.0+31.5/111.2264, -75.0, nil)
	f.register(t, "dev-outside", 40.0+32.5/111.2264, -75.0, nil)

	nearby, err := f.svc.GetNearbyUsers(context.Background(), "dev-center")
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "dev-inside", nearby[0].DeviceID)
}

type geocoderFunc struct {
	fn func(ctx context.Context, query string) (geocode.Point, error)
}

func (g *geocoderFunc) Geocode(ctx context.Context, query string) (geocode.Point, error) {
	return g.fn(ctx, query)
}
