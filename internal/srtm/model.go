package srtm

import (
	"fmt"
	"math"
	"strings"
)

// Model selects the SRTM resolution a provider reads.
type Model int

const (
	// OneArcSecond tiles hold 3601x3601 samples (SRTMGL1, ~30 m).
	OneArcSecond Model = iota
	// ThreeArcSecond tiles hold 1201x1201 samples (SRTMGL3, ~90 m).
	ThreeArcSecond
)

// Default download locations. {name} is replaced with the tile base name
// (e.g. N46E007).
const (
	DefaultOneArcSecondURL   = "https://e4ftl01.cr.usgs.gov/MEASURES/SRTMGL1.003/2000.02.11/{name}.SRTMGL1.hgt.zip"
	DefaultThreeArcSecondURL = "https://e4ftl01.cr.usgs.gov/MEASURES/SRTMGL3.003/2000.02.11/{name}.SRTMGL3.hgt.zip"
)

// Samples returns the number of samples per tile row (and column).
func (m Model) Samples() int {
	if m == ThreeArcSecond {
		return 1201
	}
	return 3601
}

// TileBytes is the exact size of an uncompressed tile.
func (m Model) TileBytes() int {
	n := m.Samples()
	return n * n * 2
}

func (m Model) String() string {
	if m == ThreeArcSecond {
		return "SRTM3"
	}
	return "SRTM1"
}

// DefaultURL returns the download template used when none is configured.
func (m Model) DefaultURL() string {
	if m == ThreeArcSecond {
		return DefaultThreeArcSecondURL
	}
	return DefaultOneArcSecondURL
}

// ParseModel accepts "1", "srtm1", "3" or "srtm3" (case-insensitive).
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "srtm1", "one", "onearcsecond":
		return OneArcSecond, nil
	case "3", "srtm3", "three", "threearcsecond":
		return ThreeArcSecond, nil
	}
	return OneArcSecond, fmt.Errorf("unknown SRTM model %q", s)
}

// tileKey identifies a tile by the integer coordinates of its south-west corner.
type tileKey struct {
	lat, lon int
}

func keyFor(lat, lon float64) tileKey {
	return tileKey{lat: int(math.Floor(lat)), lon: int(math.Floor(lon))}
}

// name follows the SRTM convention: tiles are named by their lower-left corner.
func (k tileKey) name() string {
	ns, ew := 'N', 'E'
	lat, lon := k.lat, k.lon
	if lat < 0 {
		ns = 'S'
		lat = -lat
	}
	if lon < 0 {
		ew = 'W'
		lon = -lon
	}
	return fmt.Sprintf("%c%02d%c%03d", ns, lat, ew, lon)
}

// TileName returns the file name of the tile covering a coordinate.
func TileName(lat, lon float64) string {
	return keyFor(lat, lon).name() + ".hgt"
}
