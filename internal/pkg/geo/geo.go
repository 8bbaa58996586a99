package geo

import "math"

// EarthRadiusMeters is the mean radius of the Earth.
const EarthRadiusMeters = 6371000

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Distance returns the great-circle distance between a and b in meters.
// NaN coordinates yield NaN; callers must treat that as an invalid fix.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Within reports whether p lies at most radiusMeters from center.
// The boundary is inclusive.
func Within(p, center Point, radiusMeters float64) (bool, float64) {
	d := Distance(p, center)
	return d <= radiusMeters, d
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
