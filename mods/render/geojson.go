package render

import (
	"fmt"
	"io"
	"os"

	"github.com/Alphacentaura/FarmSquare/mods/logging"
	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/Alphacentaura/FarmSquare/mods/tracker"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON exports every measurement as a FeatureCollection holding the
// walked path and the parcel polygon. The file is overwritten each time.
type GeoJSON struct {
	Path   string
	Writer io.Writer
	// Tolerance simplifies the exported path, in meters. 0 disables it.
	Tolerance float64

	log logging.Log
}

var _ tracker.Presenter = (*GeoJSON)(nil)

func NewGeoJSON(path string, tolerance float64) *GeoJSON {
	return &GeoJSON{
		Path:      path,
		Tolerance: tolerance,
		log:       logging.GetLog("render-geojson"),
	}
}

func (g *GeoJSON) ShowPath([]nums.LatLng)        {}
func (g *GeoJSON) ShowPermissionPrompt()         {}
func (g *GeoJSON) ShowLocationUnavailable(error) {}

func (g *GeoJSON) ShowArea(m tracker.Measurement) {
	if err := g.Export(m); err != nil {
		if g.log == nil {
			g.log = logging.GetLog("render-geojson")
		}
		g.log.Errorf("geojson export, %s", err.Error())
	}
}

// ViewPixels is the map size the zoom hints are computed for.
const ViewPixels = 600

// FeatureCollection builds the features of a measurement.
// The path feature carries the map center and zoom showing the parcel.
func FeatureCollection(m tracker.Measurement, tolerance float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	walked := walkedPath(m)
	if len(walked) > 0 {
		line := geojson.NewFeature(nums.LineString(nums.SimplifyLatLng(walked, tolerance)))
		line.Properties["name"] = "path"
		line.Properties["session"] = m.SessionID
		line.Properties["center"] = nums.Centroid(walked).Array()
		line.Properties["zoom"] = nums.ViewZoom(walked, ViewPixels)
		fc.Append(line)
	}
	if m.PointCount >= 3 {
		poly := geojson.NewFeature(orb.Polygon{nums.Ring(m.Points)})
		poly.Properties["name"] = "parcel"
		poly.Properties["session"] = m.SessionID
		poly.Properties["area_m2"] = m.Area
		poly.Properties["perimeter_m"] = m.Perimeter
		fc.Append(poly)
	}
	return fc
}

func (g *GeoJSON) Export(m tracker.Measurement) error {
	b, err := FeatureCollection(m, g.Tolerance).MarshalJSON()
	if err != nil {
		return fmt.Errorf("geojson marshal: %w", err)
	}
	if g.Writer != nil {
		_, err = g.Writer.Write(b)
		return err
	}
	if err := os.WriteFile(g.Path, b, 0o644); err != nil {
		return fmt.Errorf("geojson write: %w", err)
	}
	return nil
}

// walkedPath is the recorded path without the closing point.
func walkedPath(m tracker.Measurement) []nums.LatLng {
	if m.PointCount <= 0 || m.PointCount > len(m.Points) {
		return nil
	}
	return m.Points[:m.PointCount]
}
