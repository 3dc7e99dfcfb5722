package nums

import (
	"errors"
	"math"
)

// EarthRadius is the radius used by the area estimation, in meters.
// It matches the WGS84 semi-major axis.
const EarthRadius = 6378137.0

// HaversineRadius is the mean earth radius used for distances, in meters.
const HaversineRadius = 6371000.0

var ErrTooFewPoints = errors.New("at least 3 points are required")

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RegionArea returns the area in square meters enclosed by points on a sphere
// of radius EarthRadius.
//
// The points are treated as a closed ring: the first point is adjacent to the
// last one, so callers may or may not repeat the first point at the end.
// The result does not depend on the winding direction.
// Fewer than 3 points yield 0.
func RegionArea(points []LatLng) float64 {
	n := len(points)
	if n <= 2 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		prev := n - 1
		if i > 0 {
			prev = i - 1
		}
		p1, p2 := points[prev], points[i]
		sum += Radians(p2.Lng-p1.Lng) * (2 + math.Sin(Radians(p1.Lat)) + math.Sin(Radians(p2.Lat)))
	}
	area := -(sum * EarthRadius * EarthRadius / 2)
	return math.Abs(area)
}

// RoundTo rounds v to the given number of decimal places,
// half away from zero.
func RoundTo(v float64, places int) float64 {
	divisor := math.Pow(10, float64(places))
	return math.Round(v*divisor) / divisor
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b LatLng) float64 {
	phi1 := Radians(a.Lat)
	phi2 := Radians(b.Lat)
	deltaPhi := Radians(b.Lat - a.Lat)
	deltaLambda := Radians(b.Lng - a.Lng)

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return c * HaversineRadius
}

// PathLength sums the haversine distances along points, in meters.
// The path is not closed implicitly.
func PathLength(points []LatLng) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1], points[i])
	}
	return total
}
