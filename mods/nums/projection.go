package nums

import (
	"fmt"
	"math"
	"sync"

	"github.com/wroge/wgs84"
	"gonum.org/v1/gonum/stat"
)

type spheroid struct {
	a, fi float64
}

func (s spheroid) A() float64 {
	return s.a
}
func (s spheroid) Fi() float64 {
	return s.fi
}

// SPHEROID["WGS 84",6378137,298.257223563]
var wgs84Spheroid = spheroid{a: EarthRadius, fi: 298.257223563}

// code used to register the ad-hoc local projection
const localProjectionCode = 990001

var localProjectionLock sync.Mutex

// LocalTransformer returns a transverse mercator projection centred on (lat0, lng0)
// that converts lon/lat/height into east/north/height in meters.
//
// +proj=tmerc +lat_0=<lat0> +lon_0=<lng0> +k=1 +x_0=0 +y_0=0 +ellps=WGS84 +units=m +no_defs
func LocalTransformer(lat0, lng0 float64) func(a, b, c float64) (a2, b2, c2 float64) {
	datum := wgs84.Datum{
		Spheroid: wgs84Spheroid,
		Area: wgs84.AreaFunc(func(lon, lat float64) bool {
			return true
		}),
	}
	proj := datum.TransverseMercator(lng0, lat0, 1, 0, 0)

	localProjectionLock.Lock()
	defer localProjectionLock.Unlock()
	epsg := wgs84.EPSG()
	epsg.Add(localProjectionCode, proj)
	return wgs84.Transform(wgs84.WGS84().LonLat(), epsg.Code(localProjectionCode))
}

// Centroid returns the arithmetic mean of the positions.
// It is adequate for parcels small enough not to straddle the antimeridian.
func Centroid(points []LatLng) LatLng {
	if len(points) == 0 {
		return LatLng{}
	}
	lats := make([]float64, len(points))
	lngs := make([]float64, len(points))
	for i, p := range points {
		lats[i], lngs[i] = p.Lat, p.Lng
	}
	return LatLng{Lat: stat.Mean(lats, nil), Lng: stat.Mean(lngs, nil)}
}

// ProjectedArea projects points onto a local transverse mercator plane and
// returns the planar shoelace area in square meters.
// The ring is closed implicitly, like RegionArea.
func ProjectedArea(points []LatLng) (float64, error) {
	if len(points) < 3 {
		return 0, ErrTooFewPoints
	}
	center := Centroid(points)
	tr := LocalTransformer(center.Lat, center.Lng)

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		east, north, _ := tr(p.Lng, p.Lat, 0)
		if math.IsNaN(east) || math.IsNaN(north) || math.IsInf(east, 0) || math.IsInf(north, 0) {
			return 0, fmt.Errorf("projection of %s is not finite", p)
		}
		xs[i], ys[i] = east, north
	}
	return ShoelaceArea(xs, ys), nil
}

// ShoelaceArea returns the area of a planar polygon given its vertex
// coordinates. The polygon is closed implicitly.
func ShoelaceArea(xs, ys []float64) float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n < 3 {
		return 0
	}
	area := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		area += (xs[j] + xs[i]) * (ys[j] - ys[i])
		j = i
	}
	return math.Abs(area / 2)
}
