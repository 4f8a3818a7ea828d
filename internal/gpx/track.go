package gpx

import (
	"errors"
	"fmt"
)

// ErrTrackIndex is returned when a track number does not exist in the document.
var ErrTrackIndex = errors.New("track index out of range")

// SegmentCount returns the number of segments in the given track, or 0 when
// the track does not exist.
func (g *GPX) SegmentCount(track int) int {
	if !g.hasTrack(track) {
		return 0
	}
	return len(g.Tracks[track].Segments)
}

// PointCount returns the number of points in a segment, or 0 when the
// track or segment does not exist.
func (g *GPX) PointCount(track, segment int) int {
	if !g.hasTrack(track) {
		return 0
	}
	segments := g.Tracks[track].Segments
	if segment < 0 || segment >= len(segments) {
		return 0
	}
	return len(segments[segment].Points)
}

// Point returns a copy of a single track point. Callers are expected to stay
// within the bounds reported by SegmentCount and PointCount.
func (g *GPX) Point(track, segment, index int) Point {
	return g.Tracks[track].Segments[segment].Points[index]
}

// TrackPoints returns the points of one track in segment-then-point order.
func (g *GPX) TrackPoints(track int) []Point {
	if !g.hasTrack(track) {
		return nil
	}

	var points []Point
	for _, segment := range g.Tracks[track].Segments {
		points = append(points, segment.Points...)
	}
	return points
}

// TimeValues returns the timestamps of one track as Unix seconds, aligned
// with TrackPoints. Points without a timestamp yield 0.
func (g *GPX) TimeValues(track int) []float64 {
	points := g.TrackPoints(track)
	values := make([]float64, len(points))
	for i, p := range points {
		if p.Time.IsZero() {
			continue
		}
		values[i] = float64(p.Time.UnixNano()) / 1e9
	}
	return values
}

// AltitudeValues returns the recorded altitudes of one track, aligned with
// TrackPoints.
func (g *GPX) AltitudeValues(track int) []float64 {
	points := g.TrackPoints(track)
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Elevation
	}
	return values
}

// ApplyElevations writes one altitude per point back into the track, in
// segment-then-point order. The number of values must match the point count
// exactly; nothing is modified otherwise.
func (g *GPX) ApplyElevations(track int, values []float64) error {
	if !g.hasTrack(track) {
		return fmt.Errorf("%w: %d", ErrTrackIndex, track)
	}

	total := 0
	for _, segment := range g.Tracks[track].Segments {
		total += len(segment.Points)
	}
	if total != len(values) {
		return fmt.Errorf("elevation count mismatch: track has %d points, got %d values", total, len(values))
	}

	i := 0
	segments := g.Tracks[track].Segments
	for s := range segments {
		for p := range segments[s].Points {
			segments[s].Points[p].Elevation = values[i]
			i++
		}
	}
	return nil
}

func (g *GPX) hasTrack(track int) bool {
	return g != nil && track >= 0 && track < len(g.Tracks)
}
