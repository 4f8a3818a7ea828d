// Package export writes merged altitude profiles in formats other than GPX.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	kml "github.com/twpayne/go-kml"
	"github.com/twpayne/go-polyline"

	"github.com/planbiir/gsrtm/internal/gpx"
)

var ErrLengthMismatch = errors.New("points and altitudes differ in length")

// WriteKML writes the track as a single absolute-altitude LineString with
// start and finish placemarks. altitudes replace the point elevations.
func WriteKML(w io.Writer, name string, points []gpx.Point, altitudes []float64) error {
	if len(points) != len(altitudes) {
		return fmt.Errorf("%w: %d points, %d altitudes", ErrLengthMismatch, len(points), len(altitudes))
	}
	if len(points) == 0 {
		return errors.New("no points to export")
	}

	coords := make([]kml.Coordinate, len(points))
	for i, p := range points {
		coords[i] = kml.Coordinate{Lon: p.Lon, Lat: p.Lat, Alt: altitudes[i]}
	}

	lo, hi := altitudes[0], altitudes[0]
	for _, a := range altitudes[1:] {
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}

	last := len(coords) - 1
	doc := kml.KML(
		kml.Document(
			kml.Name(name),
			kml.Placemark(
				kml.Name(name),
				kml.Description(fmt.Sprintf("%d points, altitude %.0f to %.0f m", len(points), lo, hi)),
				kml.LineString(
					kml.AltitudeMode(kml.AltitudeModeAbsolute),
					kml.Coordinates(coords...),
				),
			),
			kml.Placemark(
				kml.Name("Start"),
				kml.Point(
					kml.AltitudeMode(kml.AltitudeModeAbsolute),
					kml.Coordinates(coords[0]),
				),
			),
			kml.Placemark(
				kml.Name("Finish"),
				kml.Point(
					kml.AltitudeMode(kml.AltitudeModeAbsolute),
					kml.Coordinates(coords[last]),
				),
			),
		),
	)

	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

// EncodePolyline returns the track as a Google encoded polyline.
func EncodePolyline(points []gpx.Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline is the inverse of EncodePolyline; elevations are zero.
func DecodePolyline(encoded string) ([]gpx.Point, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}
	points := make([]gpx.Point, len(coords))
	for i, c := range coords {
		points[i] = gpx.Point{Lat: c[0], Lon: c[1]}
	}
	return points, nil
}
