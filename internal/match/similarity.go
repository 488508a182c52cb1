package match

import (
	"github.com/roomiehq/roomie/internal/domain"
	"github.com/roomiehq/roomie/internal/geo"
)

// Factor weights. They sum to 1.0, so Score stays in [0, 1].
const (
	yearWeight        = 0.15
	ageWeight         = 0.05
	genderWeight      = 0.275
	sleepWeight       = 0.175
	cleanlinessWeight = 0.175
	locationWeight    = 0.175
)

// Score computes the weighted similarity between two users based on
// graduation year, age, gender, sleep schedule, cleanliness and the
// distance between their locations. It is symmetric and deterministic,
// and a user scored against itself yields exactly 1.
func Score(a, b *domain.User) float64 {
	sim := yearWeight * yearSim(a.GradYear, b.GradYear)
	sim += ageWeight * ageSim(a.Age, b.Age)
	sim += genderWeight * equalSim(a.Gender, b.Gender)
	sim += sleepWeight * sleepSim(a.SleepTime, b.SleepTime)
	sim += cleanlinessWeight * equalSim(a.Cleanliness, b.Cleanliness)
	sim += locationWeight * locationSim(a.Location, b.Location)
	return sim
}

// yearSim buckets graduation years. Pairs who both graduated by 2019
// are scored on a broader scale than pairs with at least one later
// year; the 2019 cutoff is a fixed domain rule.
func yearSim(y1, y2 int) float64 {
	diff := abs(y1 - y2)
	switch {
	case diff == 0:
		return 1
	case y1 <= 2019 && y2 <= 2019:
		switch {
		case diff <= 2:
			return 0.75
		case diff == 3:
			return 0.5
		case diff == 4:
			return 0.25
		}
		return 0
	case diff == 1:
		return 0.67
	case diff == 2:
		return 0.33
	}
	return 0
}

func ageSim(a1, a2 int) float64 {
	switch abs(a1 - a2) {
	case 0:
		return 1
	case 1:
		return 0.75
	case 2:
		return 0.5
	case 3:
		return 0.25
	}
	return 0
}

func sleepSim(s1, s2 int) float64 {
	switch abs(s1 - s2) {
	case 0:
		return 1
	case 1:
		return 0.25
	}
	return 0
}

func equalSim(v1, v2 int) float64 {
	if v1 == v2 {
		return 1
	}
	return 0
}

func locationSim(l1, l2 *domain.Location) float64 {
	dist := geo.Distance(l1.Latitude, l1.Longitude, l2.Latitude, l2.Longitude)
	switch {
	case dist == 0:
		return 1
	case dist <= 5:
		return 0.9
	case dist <= 10:
		return 0.775
	case dist <= 15:
		return 0.625
	case dist <= 20:
		return 0.45
	case dist <= 25:
		return 0.25
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
