package nums

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
)

// LatLng is a geographic position in signed decimal degrees.
// It is a value type; a captured position is never modified.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func NewLatLng(lat, lng float64) LatLng {
	return LatLng{Lat: lat, Lng: lng}
}

func (ll LatLng) String() string {
	return fmt.Sprintf("[%v,%v]", ll.Lat, ll.Lng)
}

func (ll LatLng) Array() []float64 {
	return []float64{ll.Lat, ll.Lng}
}

// Valid reports whether latitude is within [-90,90] and longitude within [-180,180].
func (ll LatLng) Valid() bool {
	return ll.Lat >= -90 && ll.Lat <= 90 && ll.Lng >= -180 && ll.Lng <= 180
}

func (ll LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{ll.Lat, ll.Lng})
}

func (ll *LatLng) UnmarshalJSON(b []byte) error {
	var arr []float64
	if err := json.Unmarshal(b, &arr); err == nil {
		if len(arr) != 2 {
			return fmt.Errorf("latlng requires 2 elements, got %d", len(arr))
		}
		ll.Lat, ll.Lng = arr[0], arr[1]
		return nil
	}
	obj := struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	ll.Lat, ll.Lng = obj.Lat, obj.Lng
	return nil
}

// Point returns the orb representation, which is [lng, lat].
func (ll LatLng) Point() orb.Point {
	return orb.Point{ll.Lng, ll.Lat}
}

// LineString converts the path into an orb.LineString as is.
func LineString(points []LatLng) orb.LineString {
	ret := make(orb.LineString, len(points))
	for i, p := range points {
		ret[i] = p.Point()
	}
	return ret
}

// Ring converts the path into a closed orb.Ring.
// The first point is appended when the path is not closed yet.
func Ring(points []LatLng) orb.Ring {
	ret := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ret = append(ret, p.Point())
	}
	if len(ret) > 0 && !ret.Closed() {
		ret = append(ret, ret[0])
	}
	return ret
}

// Closed returns a copy of points with the first point appended at the end.
// An empty input returns an empty, non-nil slice.
func Closed(points []LatLng) []LatLng {
	ret := make([]LatLng, 0, len(points)+1)
	ret = append(ret, points...)
	if len(points) > 0 {
		ret = append(ret, points[0])
	}
	return ret
}
