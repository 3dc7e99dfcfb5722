package render

import (
	"fmt"
	"io"
	"os"

	"github.com/Alphacentaura/FarmSquare/mods/logging"
	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/Alphacentaura/FarmSquare/mods/tracker"
	"github.com/twpayne/go-kml/v3"
)

// KML exports every measurement as a document with the walked path
// and the parcel polygon. The file is overwritten each time.
type KML struct {
	Path      string
	Writer    io.Writer
	Tolerance float64

	log logging.Log
}

var _ tracker.Presenter = (*KML)(nil)

func NewKML(path string, tolerance float64) *KML {
	return &KML{
		Path:      path,
		Tolerance: tolerance,
		log:       logging.GetLog("render-kml"),
	}
}

func (k *KML) ShowPath([]nums.LatLng)        {}
func (k *KML) ShowPermissionPrompt()         {}
func (k *KML) ShowLocationUnavailable(error) {}

func (k *KML) ShowArea(m tracker.Measurement) {
	if err := k.Export(m); err != nil {
		if k.log == nil {
			k.log = logging.GetLog("render-kml")
		}
		k.log.Errorf("kml export, %s", err.Error())
	}
}

func kmlCoordinates(points []nums.LatLng) []kml.Coordinate {
	ret := make([]kml.Coordinate, len(points))
	for i, p := range points {
		ret[i] = kml.Coordinate{Lon: p.Lng, Lat: p.Lat}
	}
	return ret
}

// Document builds the kml document of a measurement.
func Document(m tracker.Measurement, tolerance float64) *kml.KMLElement {
	docElements := []kml.Element{
		kml.Name(fmt.Sprintf("FarmSquare %s", m.SessionID)),
	}
	walked := walkedPath(m)
	if len(walked) > 0 {
		docElements = append(docElements, kml.Placemark(
			kml.Name("path"),
			kml.LineString(
				kml.Coordinates(kmlCoordinates(nums.SimplifyLatLng(walked, tolerance))...),
			),
		))
	}
	if m.PointCount >= 3 {
		docElements = append(docElements, kml.Placemark(
			kml.Name("parcel"),
			kml.Description(fmt.Sprintf("%s Perimeter: %.1f m.", m.Text(), m.Perimeter)),
			kml.Polygon(
				kml.OuterBoundaryIs(
					kml.LinearRing(
						kml.Coordinates(kmlCoordinates(m.Points)...),
					),
				),
			),
		))
	}
	return kml.KML(kml.Document(docElements...))
}

func (k *KML) Export(m tracker.Measurement) error {
	doc := Document(m, k.Tolerance)
	if k.Writer != nil {
		return doc.WriteIndent(k.Writer, "", "  ")
	}
	file, err := os.Create(k.Path)
	if err != nil {
		return fmt.Errorf("kml create: %w", err)
	}
	defer file.Close()
	if err := doc.WriteIndent(file, "", "  "); err != nil {
		return fmt.Errorf("kml write: %w", err)
	}
	return nil
}
