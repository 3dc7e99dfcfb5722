package nums_test

import (
	"encoding/json"
	"testing"

	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/stretchr/testify/require"
)

func TestLatLngValid(t *testing.T) {
	require.True(t, nums.NewLatLng(0, 0).Valid())
	require.True(t, nums.NewLatLng(-90, 180).Valid())
	require.False(t, nums.NewLatLng(90.0001, 0).Valid())
	require.False(t, nums.NewLatLng(0, -180.5).Valid())
}

func TestLatLngJSON(t *testing.T) {
	b, err := json.Marshal(nums.NewLatLng(55.751, 37.617))
	require.NoError(t, err)
	require.Equal(t, `[55.751,37.617]`, string(b))

	var ll nums.LatLng
	require.NoError(t, json.Unmarshal([]byte(`[1.5,2.5]`), &ll))
	require.Equal(t, nums.NewLatLng(1.5, 2.5), ll)

	require.NoError(t, json.Unmarshal([]byte(`{"lat":3,"lng":4}`), &ll))
	require.Equal(t, nums.NewLatLng(3, 4), ll)

	require.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &ll))
	require.Error(t, json.Unmarshal([]byte(`"1,2"`), &ll))
}

func TestLatLngOrb(t *testing.T) {
	ll := nums.NewLatLng(10, 20)
	pt := ll.Point()
	require.Equal(t, 20.0, pt.Lon())
	require.Equal(t, 10.0, pt.Lat())
	require.Equal(t, []float64{10, 20}, ll.Array())
}

func TestRing(t *testing.T) {
	pts := []nums.LatLng{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}
	ring := nums.Ring(pts)
	require.Len(t, ring, 4)
	require.True(t, ring.Closed())

	// already closed rings are kept as is
	require.Len(t, nums.Ring(nums.Closed(pts)), 4)
	require.Len(t, nums.Ring(nil), 0)
}

func TestClosed(t *testing.T) {
	pts := []nums.LatLng{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}
	closed := nums.Closed(pts)
	require.Len(t, closed, 4)
	require.Equal(t, pts[0], closed[3])
	require.Len(t, pts, 3)

	empty := nums.Closed(nil)
	require.NotNil(t, empty)
	require.Len(t, empty, 0)
}
