package gpx

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Stats summarises one track.
type Stats struct {
	Points   int           `json:"points"`
	Segments int           `json:"segments"`
	Duration time.Duration `json:"duration_ns"`
	Distance float64       `json:"distance_km"`
	Ascent   float64       `json:"ascent_m"`
	Descent  float64       `json:"descent_m"`
	MinEle   float64       `json:"min_elevation_m"`
	MaxEle   float64       `json:"max_elevation_m"`
}

// LineString converts the track to an orb geometry (lon, lat order).
func (g *GPX) LineString(track int) orb.LineString {
	points := g.TrackPoints(track)
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

// Bound returns the bounding box of a track.
func (g *GPX) Bound(track int) orb.Bound {
	return g.LineString(track).Bound()
}

// Stats returns basic statistics about one track. Distance is measured
// within segments only; the jump between two segments is not counted.
func (g *GPX) Stats(track int) Stats {
	if !g.hasTrack(track) {
		return Stats{}
	}

	stats := Stats{Segments: len(g.Tracks[track].Segments)}

	var first, last time.Time
	seen := false
	for _, segment := range g.Tracks[track].Segments {
		for i, p := range segment.Points {
			stats.Points++
			if !p.Time.IsZero() {
				if first.IsZero() {
					first = p.Time
				}
				last = p.Time
			}

			if !seen || p.Elevation < stats.MinEle {
				stats.MinEle = p.Elevation
			}
			if !seen || p.Elevation > stats.MaxEle {
				stats.MaxEle = p.Elevation
			}
			seen = true

			if i == 0 {
				continue
			}
			prev := segment.Points[i-1]
			stats.Distance += geo.Distance(orb.Point{prev.Lon, prev.Lat}, orb.Point{p.Lon, p.Lat}) / 1000

			delta := p.Elevation - prev.Elevation
			if delta > 0 {
				stats.Ascent += delta
			} else {
				stats.Descent -= delta
			}
		}
	}

	if !first.IsZero() && !last.IsZero() {
		stats.Duration = last.Sub(first)
	}
	return stats
}
