package nums

import "math"

// Point is a planar 2D point, [x, y].
type Point [2]float64

type Line struct {
	Start Point
	End   Point
}

// DistanceToPoint returns the perpendicular distance of pt from the line.
// A degenerate line falls back to the distance from Start.
func (l Line) DistanceToPoint(pt Point) float64 {
	dx := l.End[0] - l.Start[0]
	dy := l.End[1] - l.Start[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(pt[0]-l.Start[0], pt[1]-l.Start[1])
	}
	return math.Abs(dy*pt[0]-dx*pt[1]+l.End[0]*l.Start[1]-l.End[1]*l.Start[0]) / length
}

// SeekMostDistant returns the index of the point farthest from the line and its distance.
func (l Line) SeekMostDistant(points []Point) (idx int, maxDist float64) {
	for i, p := range points {
		d := l.DistanceToPoint(p)
		if d > maxDist {
			maxDist = d
			idx = i
		}
	}
	return
}

// SimplifyPath reduces points with the Ramer-Douglas-Peucker algorithm.
// The end points are always kept.
func SimplifyPath(points []Point, threshold float64) []Point {
	if len(points) <= 2 {
		return points
	}
	l := Line{Start: points[0], End: points[len(points)-1]}
	idx, maxDist := l.SeekMostDistant(points)
	if maxDist > threshold {
		left := SimplifyPath(points[:idx+1], threshold)
		right := SimplifyPath(points[idx:], threshold)
		ret := make([]Point, 0, len(left)+len(right)-1)
		ret = append(ret, left[:len(left)-1]...)
		return append(ret, right...)
	}
	return []Point{points[0], points[len(points)-1]}
}

// SimplifyLatLng simplifies a geographic path with a tolerance in meters.
// The path is projected onto Spherical Mercator, scaled by the cosine of the
// mean latitude so the tolerance stays metric. A non-positive tolerance
// returns the input unchanged.
func SimplifyLatLng(points []LatLng, toleranceMeters float64) []LatLng {
	if toleranceMeters <= 0 || len(points) <= 2 {
		return points
	}
	scale := math.Cos(Radians(Centroid(points).Lat))
	pts := make([]Point, len(points))
	for i, p := range points {
		x, y := LatLngToMeters(p.Lat, p.Lng)
		pts[i] = Point{x * scale, y * scale}
	}
	simplified := SimplifyPath(pts, toleranceMeters)
	ret := make([]LatLng, len(simplified))
	for i, p := range simplified {
		lat, lng := MetersToLatLng(p[0]/scale, p[1]/scale)
		ret[i] = LatLng{Lat: lat, Lng: lng}
	}
	return ret
}
