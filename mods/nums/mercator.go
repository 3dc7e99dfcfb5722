package nums

import "math"

// mercator.go contains conversion tools for the Spherical Mercator coordinate system
// See http://www.maptiler.org/google-maps-coordinates-tile-bounds-projection/

const (
	TileSize          = 256.0
	initialResolution = 2 * math.Pi * EarthRadius / TileSize
	originShift       = 2 * math.Pi * EarthRadius / 2
)

// Resolution calculates the resolution (meters/pixel) for given zoom level (measured at Equator)
func Resolution(zoom int) float64 {
	return initialResolution / math.Pow(2, float64(zoom))
}

// FitZoom returns the largest zoom level at which a span of spanMeters
// fits into pixels, clamped to [0, 20].
func FitZoom(spanMeters float64, pixels int) int {
	if spanMeters <= 0 || pixels <= 0 {
		return 20
	}
	for zoom := 20; zoom > 0; zoom-- {
		if Resolution(zoom)*float64(pixels) >= spanMeters {
			return zoom
		}
	}
	return 0
}

// Bounds returns the south-west and north-east corners of points.
func Bounds(points []LatLng) (sw, ne LatLng) {
	if len(points) == 0 {
		return
	}
	sw, ne = points[0], points[0]
	for _, p := range points[1:] {
		sw.Lat, sw.Lng = math.Min(sw.Lat, p.Lat), math.Min(sw.Lng, p.Lng)
		ne.Lat, ne.Lng = math.Max(ne.Lat, p.Lat), math.Max(ne.Lng, p.Lng)
	}
	return
}

// ViewZoom returns the zoom level of a square map view of pixels
// showing all points.
func ViewZoom(points []LatLng, pixels int) int {
	sw, ne := Bounds(points)
	x0, y0 := LatLngToMeters(sw.Lat, sw.Lng)
	x1, y1 := LatLngToMeters(ne.Lat, ne.Lng)
	return FitZoom(math.Max(x1-x0, y1-y0), pixels)
}

// LatLngToMeters converts given lat/lng in WGS84 Datum to XY in Spherical Mercator EPSG:3857
func LatLngToMeters(lat, lng float64) (float64, float64) {
	x := lng * originShift / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * originShift / 180
	return x, y
}

// MetersToLatLng converts XY point from Spherical Mercator EPSG:3857 to lat/lng in WGS84 Datum
func MetersToLatLng(x, y float64) (float64, float64) {
	lng := (x / originShift) * 180
	lat := (y / originShift) * 180
	lat = 180 / math.Pi * (2*math.Atan(math.Exp(lat*math.Pi/180)) - math.Pi/2)
	return lat, lng
}

// OffsetMeters returns the position east/north meters away from origin
// in the Spherical Mercator plane. Distances are only true near the equator.
func OffsetMeters(origin LatLng, east, north float64) LatLng {
	x, y := LatLngToMeters(origin.Lat, origin.Lng)
	lat, lng := MetersToLatLng(x+east, y+north)
	return LatLng{Lat: lat, Lng: lng}
}
