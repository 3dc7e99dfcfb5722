package render_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/Alphacentaura/FarmSquare/mods/render"
	"github.com/Alphacentaura/FarmSquare/mods/tracker"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func measurement() tracker.Measurement {
	m := tracker.Measure([]nums.LatLng{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 0.0001},
		{Lat: 0.0001, Lng: 0.0001},
		{Lat: 0.0001, Lng: 0},
	})
	m.SessionID = "3d6f0a9e-8c1b-4d2a-9f4e-7a5b6c8d9e0f"
	m.StartedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m.StoppedAt = time.Date(2024, 5, 1, 10, 0, 30, 0, time.UTC)
	return m
}

func TestConsoleText(t *testing.T) {
	w := &bytes.Buffer{}
	c, err := render.NewConsole(w, nil)
	require.NoError(t, err)
	c.ShowArea(measurement())
	out := w.String()
	require.Contains(t, out, "SESSION")
	require.Contains(t, out, "123.9203")
	require.Contains(t, out, "2024-05-01T10:00:30Z")
	require.True(t, strings.HasSuffix(out, "Parcel area: 123.9203 sq.m.\n"), out)
}

func TestConsoleJSON(t *testing.T) {
	w := &bytes.Buffer{}
	c, err := render.NewConsole(w, &render.ConsoleConfig{Format: "json"})
	require.NoError(t, err)
	c.ShowArea(measurement())
	require.Contains(t, w.String(), `"area": 123.9203`)
	require.Contains(t, w.String(), `"text": "Parcel area: 123.9203 sq.m."`)
	require.Contains(t, w.String(), `"pointCount": 4`)
}

func TestConsoleYAML(t *testing.T) {
	w := &bytes.Buffer{}
	c, err := render.NewConsole(w, &render.ConsoleConfig{Format: "yaml"})
	require.NoError(t, err)
	c.ShowArea(measurement())

	obj := map[string]any{}
	require.NoError(t, yaml.Unmarshal(w.Bytes(), &obj))
	require.Equal(t, 123.9203, obj["area"])
	require.Equal(t, "Parcel area: 123.9203 sq.m.", obj["text"])
	require.Equal(t, 4, obj["pointCount"])
}

func TestConsoleConfig(t *testing.T) {
	_, err := render.NewConsole(&bytes.Buffer{}, &render.ConsoleConfig{Format: "xml"})
	require.Error(t, err)
	_, err = render.NewConsole(&bytes.Buffer{}, &render.ConsoleConfig{Language: "not a tag!"})
	require.Error(t, err)
}

func TestConsolePrompt(t *testing.T) {
	w := &bytes.Buffer{}
	c, err := render.NewConsole(w, nil)
	require.NoError(t, err)
	c.ShowPermissionPrompt()
	require.Contains(t, w.String(), "Location permission not granted\n")

	w.Reset()
	c, err = render.NewConsole(w, &render.ConsoleConfig{Language: "ru"})
	require.NoError(t, err)
	c.ShowPermissionPrompt()
	require.Contains(t, w.String(), "Не дано разрешение на получение координат\n")

	w.Reset()
	c.ShowLocationUnavailable(errors.New("gps off"))
	require.Equal(t, "Координаты недоступны: gps off\n", w.String())
}

func TestGeoJSON(t *testing.T) {
	w := &bytes.Buffer{}
	g := &render.GeoJSON{Writer: w}
	require.NoError(t, g.Export(measurement()))

	fc, err := geojson.UnmarshalFeatureCollection(w.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	line, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	require.Len(t, line, 4)
	// an 11m parcel fits the closest zoom
	require.Equal(t, 20.0, fc.Features[0].Properties.MustFloat64("zoom"))
	center, ok := fc.Features[0].Properties["center"].([]any)
	require.True(t, ok)
	require.InDelta(t, 0.00005, center[0], 1e-12)
	require.InDelta(t, 0.00005, center[1], 1e-12)

	poly, ok := fc.Features[1].Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly[0], 5)
	require.True(t, poly[0].Closed())
	require.Equal(t, 123.9203, fc.Features[1].Properties.MustFloat64("area_m2"))
	require.Equal(t, "3d6f0a9e-8c1b-4d2a-9f4e-7a5b6c8d9e0f", fc.Features[1].Properties.MustString("session"))
}

func TestGeoJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parcel.geojson")
	g := render.NewGeoJSON(path, 0)
	g.ShowArea(measurement())
	g.ShowArea(tracker.Measure(nil))

	// overwritten by the empty measurement
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(b)
	require.NoError(t, err)
	require.Len(t, fc.Features, 0)
}

func TestKML(t *testing.T) {
	w := &bytes.Buffer{}
	k := &render.KML{Writer: w}
	require.NoError(t, k.Export(measurement()))
	out := w.String()
	require.Contains(t, out, "<Polygon>")
	require.Contains(t, out, "<LineString>")
	require.Contains(t, out, "Parcel area: 123.9203 sq.m.")
	require.Equal(t, 2, strings.Count(out, "<Placemark>"))
}

func TestKMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parcel.kml")
	render.NewKML(path, 1).ShowArea(measurement())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "<kml")
}

type counting struct {
	paths, areas, prompts, unavailable int
}

func (c *counting) ShowPath([]nums.LatLng)        { c.paths++ }
func (c *counting) ShowArea(tracker.Measurement)  { c.areas++ }
func (c *counting) ShowPermissionPrompt()         { c.prompts++ }
func (c *counting) ShowLocationUnavailable(error) { c.unavailable++ }

func TestMulti(t *testing.T) {
	a, b := &counting{}, &counting{}
	m := render.Multi{a, b}
	m.ShowPath(nil)
	m.ShowArea(tracker.Measurement{})
	m.ShowPermissionPrompt()
	m.ShowLocationUnavailable(errors.New("x"))
	for _, c := range []*counting{a, b} {
		require.Equal(t, counting{1, 1, 1, 1}, *c)
	}
}
