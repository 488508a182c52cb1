package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZeroForSamePoint(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{40.7128, -74.0060},
		{-33.8688, 151.2093},
		{90, 0},
	}
	for _, p := range points {
		assert.Zero(t, Distance(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := [2]float64{42.4534, -76.4735} // Ithaca
	b := [2]float64{40.7128, -74.0060} // NYC
	assert.Equal(t, Distance(a[0], a[1], b[0], b[1]), Distance(b[0], b[1], a[0], a[1]))
}

func TestDistanceKnownValues(t *testing.T) {
	// Nashville to Los Angeles, the classic haversine reference pair.
	got := Distance(36.12, -86.67, 33.94, -118.40)
	assert.InDelta(t, 2887.26, got, 0.01)

	// A hundredth of a degree of latitude is roughly 1.1 km.
	got = Distance(40.0, -75.0, 40.01, -75.0)
	assert.InDelta(t, 1.112, got, 0.001)
}
