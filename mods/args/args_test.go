package args

import (
	"testing"

	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/stretchr/testify/require"
)

func TestParseReplay(t *testing.T) {
	cli, err := ParseCommand([]string{"--log-level", "debug", "replay", "--gpx", "walk.gpx", "--speed", "4", "-f", "json"})
	require.NoError(t, err)
	require.Equal(t, "replay", cli.Command())
	require.Equal(t, "debug", cli.LogLevel)
	require.Equal(t, "walk.gpx", cli.Replay.GPX)
	require.Equal(t, 4.0, cli.Replay.Speed)
	require.Equal(t, "json", cli.Replay.Format)

	cli, err = ParseCommand([]string{"replay", "--jsonl", "walk.jsonl", "--kml", "parcel.kml"})
	require.NoError(t, err)
	require.Equal(t, "walk.jsonl", cli.Replay.JSONL)
	require.Equal(t, "parcel.kml", cli.Replay.KML)
}

func TestParseReplayInput(t *testing.T) {
	_, err := ParseCommand([]string{"replay"})
	require.ErrorIs(t, err, ErrNoInput)

	_, err = ParseCommand([]string{"replay", "--gpx", "a.gpx", "--jsonl", "b.jsonl"})
	require.Error(t, err)
}

func TestParseArea(t *testing.T) {
	cli, err := ParseCommand([]string{"area", "0,0", "0,0.0001", "0.0001,0.0001"})
	require.NoError(t, err)
	require.Equal(t, "area", cli.Command())
	require.Equal(t, []string{"0,0", "0,0.0001", "0.0001,0.0001"}, cli.Area.Points)
}

func TestParseAreaNegative(t *testing.T) {
	points := []string{"-33.9000,18.4000", "-33.9000,18.4100", "-33.9100,18.4100", "-33.9100,18.4000"}
	cli, err := ParseCommand(append([]string{"--log-level", "info", "area", "-f", "json"}, points...))
	require.NoError(t, err)
	require.Equal(t, "area", cli.Command())
	require.Equal(t, "json", cli.Area.Format)
	require.Equal(t, points, cli.Area.Points)

	// western longitudes, flags after the positions
	cli, err = ParseCommand([]string{"area", "40.7,-74.0", "40.71,-74.0", "40.71,-74.01", "-f", "yaml"})
	require.NoError(t, err)
	require.Equal(t, "yaml", cli.Area.Format)
	require.Equal(t, []string{"40.7,-74.0", "40.71,-74.0", "40.71,-74.01"}, cli.Area.Points)

	// an explicit separator is kept as is
	cli, err = ParseCommand([]string{"area", "--", "-1,-1", "-1,1", "1,1"})
	require.NoError(t, err)
	require.Equal(t, []string{"-1,-1", "-1,1", "1,1"}, cli.Area.Points)

	pts, err := ParsePoints(cli.Area.Points)
	require.NoError(t, err)
	require.Equal(t, nums.LatLng{Lat: -1, Lng: -1}, pts[0])
}

func TestQuoteNegativePoints(t *testing.T) {
	require.Equal(t,
		[]string{"area", "-f", "json", "--", "-1,2", "3,4"},
		quoteNegativePoints([]string{"area", "-1,2", "-f", "json", "3,4"}))
	// no negative position, nothing to do
	require.Equal(t,
		[]string{"area", "1,2", "3,4"},
		quoteNegativePoints([]string{"area", "1,2", "3,4"}))
	// "area" as a flag value is not the command
	require.Equal(t,
		[]string{"--config", "area", "replay", "--gpx", "-1,2"},
		quoteNegativePoints([]string{"--config", "area", "replay", "--gpx", "-1,2"}))
}

func TestParseOthers(t *testing.T) {
	cli, err := ParseCommand([]string{"gen-config"})
	require.NoError(t, err)
	require.Equal(t, "gen-config", cli.Command())

	cli, err = ParseCommand([]string{"--config", "farmsquare.hcl", "version"})
	require.NoError(t, err)
	require.Equal(t, "version", cli.Command())
	require.Equal(t, "farmsquare.hcl", cli.Config)

	_, err = ParseCommand([]string{"serve"})
	require.Error(t, err)
}

func TestParsePoints(t *testing.T) {
	pts, err := ParsePoints([]string{"55.751,37.617", " 55.7513 , 37.6172 "})
	require.NoError(t, err)
	require.Equal(t, []nums.LatLng{{Lat: 55.751, Lng: 37.617}, {Lat: 55.7513, Lng: 37.6172}}, pts)

	for _, bad := range []string{"55.751", "north,37", "55,east", "91,0", "0,181"} {
		_, err := ParsePoints([]string{bad})
		require.Error(t, err, bad)
	}
}
