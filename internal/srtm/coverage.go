package srtm

import (
	"sort"

	"github.com/paulmach/orb"
)

// TileStatus tells whether one tile needed by a track is available.
type TileStatus struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Path    string `json:"path,omitempty"`
	Present bool   `json:"present"`
	Points  int    `json:"points"`
}

// Coverage lists every tile the given points fall into, sorted by name.
// Points are in orb order (lon, lat).
func (p *Provider) Coverage(ls orb.LineString) []TileStatus {
	counts := make(map[tileKey]int)
	for _, pt := range ls {
		counts[keyFor(pt.Lat(), pt.Lon())]++
	}

	statuses := make([]TileStatus, 0, len(counts))
	for key, n := range counts {
		status := TileStatus{
			Name:   key.name() + ".hgt",
			URL:    p.urlFor(key),
			Points: n,
		}
		if path, ok := p.locate(key); ok {
			status.Path = path
			status.Present = true
		}
		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Name < statuses[j].Name
	})
	return statuses
}

// Missing filters a coverage report down to the absent tiles.
func Missing(statuses []TileStatus) []TileStatus {
	var out []TileStatus
	for _, s := range statuses {
		if !s.Present {
			out = append(out, s)
		}
	}
	return out
}
