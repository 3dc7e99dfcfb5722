package nums

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 0.00000001
}

func TestResolution(t *testing.T) {
	zoom := 10
	expected := 152.8740565703525
	res := Resolution(zoom)
	if !floatEquals(res, expected) {
		t.Errorf("Resolution(%d) == %f, want %f", zoom, res, expected)
	}
}

func TestFitZoom(t *testing.T) {
	// a 100m wide parcel on a 600px map
	require.Equal(t, 19, FitZoom(100, 600))
	require.Equal(t, 20, FitZoom(0, 600))
	require.Equal(t, 0, FitZoom(1e9, 256))
	require.Equal(t, 9, FitZoom(Resolution(10)*900, 600))
}

func TestViewZoom(t *testing.T) {
	origin := NewLatLng(0, 0)
	parcel := []LatLng{
		origin,
		OffsetMeters(origin, 100, 0),
		OffsetMeters(origin, 100, 40),
		OffsetMeters(origin, 0, 40),
	}
	sw, ne := Bounds(parcel)
	require.InDelta(t, 0, sw.Lat, 1e-9)
	require.InDelta(t, 0, sw.Lng, 1e-9)
	require.InDelta(t, 100, ne.Lng*originShift/180, 1e-6)

	require.Equal(t, 19, ViewZoom(parcel, 600))
	require.Equal(t, 20, ViewZoom(parcel[:1], 600))
	require.Equal(t, 20, ViewZoom(nil, 600))
}

func TestLatLngToMeters(t *testing.T) {
	lat, lng := 62.3, 14.1
	expectedX, expectedY := 1569604.8201851572, 8930630.669201756
	x, y := LatLngToMeters(lat, lng)
	if !floatEquals(x, expectedX) || !floatEquals(y, expectedY) {
		t.Errorf("LatLngToMeters(%f, %f) == %f, %f, want %f, %f", lat, lng, x, y, expectedX, expectedY)
	}
}

func TestMetersToLatLng(t *testing.T) {
	x, y := 1569604.8201851572, 8930630.669201756
	expectedLat, expectedLng := 62.3, 14.1
	lat, lng := MetersToLatLng(x, y)
	if !floatEquals(lat, expectedLat) || !floatEquals(lng, expectedLng) {
		t.Errorf("MetersToLatLng(%f, %f) == %f, %f, want %f, %f", x, y, lat, lng, expectedLat, expectedLng)
	}
}

func TestOffsetMeters(t *testing.T) {
	origin := NewLatLng(0, 0)
	pt := OffsetMeters(origin, 1000, 0)
	require.InDelta(t, 0, pt.Lat, 1e-12)
	require.InDelta(t, 1000, Haversine(origin, pt), 2)
}
