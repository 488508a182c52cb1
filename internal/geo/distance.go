package geo

import "math"

const earthRadiusKm = 6372.8

// NearbyRadiusKm is the fixed radius used for nearby-set membership
// (20 miles, rounded to whole kilometers).
const NearbyRadiusKm = 32.0

// Distance returns the great-circle distance in kilometers between two
// points given in decimal degrees, using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	lat1 = radians(lat1)
	lat2 = radians(lat2)

	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
