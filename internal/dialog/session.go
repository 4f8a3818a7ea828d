// Package dialog drives one "get altitude from database" session: the user
// picks a merge strategy and smoothing, fetches, looks at the result, and
// finally accepts or rejects it.
package dialog

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/planbiir/gsrtm/internal/merge"
	"github.com/planbiir/gsrtm/internal/smooth"
	"github.com/planbiir/gsrtm/internal/srtm"
)

// Title is the session's display name; it gets a leading "*" while there
// are unaccepted results.
const Title = "Get Altitude From Database"

// Request is one user-triggered fetch.
type Request struct {
	Strategy  merge.Strategy
	Smoothing smooth.Options
}

// Diagnostics describes the tile of the most recent lookup. *srtm.Provider
// implements it.
type Diagnostics interface {
	FileName() string
	FileURL() string
	Directory() string
}

// Notice tells the user how to fix a missing height file.
type Notice struct {
	NotFound string
	Download string
	Location string
	URL      string
	Dir      string
}

func (n Notice) String() string {
	return n.NotFound + "\n" + n.Download + "\n" + n.Location
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for fetch outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMergeConfig overrides the merge tuning.
func WithMergeConfig(cfg merge.Config) Option {
	return func(s *Session) {
		s.mergeCfg = cfg
	}
}

// Session holds the values of the last successful fetch. It is not safe
// for concurrent use.
type Session struct {
	src      merge.TrackSource
	track    int
	elev     merge.ElevationSource
	mergeCfg merge.Config
	logger   *zap.Logger

	values    []float64
	lastStats merge.Stats
	modified  bool
}

// NewSession starts a session over one track of src.
func NewSession(src merge.TrackSource, track int, elev merge.ElevationSource, opts ...Option) *Session {
	s := &Session{
		src:      src,
		track:    track,
		elev:     elev,
		mergeCfg: merge.DefaultConfig(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mergeCfg.Logger == nil {
		s.mergeCfg.Logger = s.logger
	}
	return s
}

// Fetch merges altitudes with the requested strategy and smooths them. On
// success the session's values are replaced and it becomes modified. On
// failure the previous values stay untouched; when a height file is missing
// the returned Notice explains where to get it.
func (s *Session) Fetch(req Request) (*Notice, error) {
	if err := req.Smoothing.Validate(); err != nil {
		return nil, err
	}

	result, err := merge.Compute(s.src, s.track, s.elev, req.Strategy, s.mergeCfg)
	if err != nil {
		s.logger.Warn("altitude fetch failed",
			zap.Stringer("strategy", req.Strategy),
			zap.Error(err))
		if errors.Is(err, srtm.ErrTileNotFound) {
			notice := s.notice(err)
			return &notice, err
		}
		return nil, err
	}

	values, err := smooth.Apply(result.Altitudes, req.Smoothing)
	if err != nil {
		return nil, err
	}

	s.values = values
	s.lastStats = result.Stats
	s.setModified(true)

	s.logger.Info("altitude fetched",
		zap.Stringer("strategy", req.Strategy),
		zap.Int("points", len(values)),
		zap.Int("window", req.Smoothing.Window),
		zap.Int("passes", req.Smoothing.Passes))
	return nil, nil
}

// notice prefers the details carried by the error and falls back to the
// provider's diagnostics.
func (s *Session) notice(err error) Notice {
	var name, url, dir string

	var missing *srtm.MissingTileError
	if errors.As(err, &missing) {
		name, url, dir = missing.FileName, missing.URL, missing.Directory
	} else if d, ok := s.elev.(Diagnostics); ok {
		name, url, dir = d.FileName(), d.FileURL(), d.Directory()
	}

	return Notice{
		NotFound: "Height file not found: " + name,
		Download: "Download file here: " + url,
		Location: "Unzip and put file here: " + dir,
		URL:      url,
		Dir:      dir,
	}
}

// Values returns a copy of the last fetched altitudes.
func (s *Session) Values() []float64 {
	return append([]float64(nil), s.values...)
}

// Stats describes the last successful fetch.
func (s *Session) Stats() merge.Stats {
	return s.lastStats
}

// Modified reports whether a fetch succeeded since opening or the last
// Accept/Reset.
func (s *Session) Modified() bool {
	return s.modified
}

// Title returns the display title, decorated while modified.
func (s *Session) Title() string {
	if s.modified {
		return "*" + Title
	}
	return Title
}

// Accept closes the session. It returns true when there are fetched values
// to hand back (and clears the modified state) and false when nothing was
// fetched, which callers treat as a rejection.
func (s *Session) Accept() bool {
	if !s.modified {
		return false
	}
	s.setModified(false)
	return true
}

// Reset clears the modified state without dropping the values.
func (s *Session) Reset() {
	s.setModified(false)
}

func (s *Session) setModified(modified bool) {
	s.modified = modified
}

// Series pairs a display time axis with altitude values.
type Series struct {
	Times     []float64
	Altitudes []float64
}

// SeriesSource provides the recorded display series of a track. *gpx.GPX
// implements it.
type SeriesSource interface {
	TimeValues(track int) []float64
	AltitudeValues(track int) []float64
}

// Original returns the recorded altitude curve of the session's track.
func (s *Session) Original() (Series, error) {
	src, ok := s.src.(SeriesSource)
	if !ok {
		return Series{}, fmt.Errorf("track source %T has no display series", s.src)
	}
	return Series{Times: src.TimeValues(s.track), Altitudes: src.AltitudeValues(s.track)}, nil
}

// Fetched returns the fetched altitude curve on the same time axis.
func (s *Session) Fetched() (Series, error) {
	orig, err := s.Original()
	if err != nil {
		return Series{}, err
	}
	return Series{Times: orig.Times, Altitudes: s.Values()}, nil
}

// Times returns the display time axis of the session's track.
func (s *Session) Times() ([]float64, error) {
	orig, err := s.Original()
	if err != nil {
		return nil, err
	}
	return orig.Times, nil
}
