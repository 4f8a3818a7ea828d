package merge

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/planbiir/gsrtm/internal/gpx"
)

var (
	// ErrNoSelection means the requested track does not exist or has no
	// segments. No lookup has been attempted.
	ErrNoSelection = errors.New("no track segments selected")
	// ErrEmptyTrack means the track has segments but none of them holds a point.
	ErrEmptyTrack = errors.New("selected track has no points")
	// ErrLookupMiss means an elevation lookup failed and the merge was abandoned.
	ErrLookupMiss = errors.New("elevation lookup failed")
	// ErrInvalidStrategy means the strategy is not one of the known values.
	ErrInvalidStrategy = errors.New("invalid merge strategy")
)

// TrackSource exposes the segments and points of a document's tracks.
// *gpx.GPX implements it.
type TrackSource interface {
	SegmentCount(track int) int
	PointCount(track, segment int) int
	Point(track, segment, index int) gpx.Point
}

// ElevationSource resolves a coordinate to a terrain height in metres.
// *srtm.Provider implements it.
type ElevationSource interface {
	Lookup(lat, lon float64) (int16, error)
}

// Config tunes the merge.
type Config struct {
	// ValidateTolerance is the accepted relative deviation of a recorded
	// altitude from the database value under Validate. Zero means the default.
	ValidateTolerance float64 `koanf:"validate_tolerance"`

	Logger *zap.Logger `koanf:"-"`
}

// DefaultConfig returns the tolerance of ±10%.
func DefaultConfig() Config {
	return Config{ValidateTolerance: 0.10}
}

// Stats reports where the merged values came from.
type Stats struct {
	Strategy        Strategy `json:"strategy"`
	Segments        int      `json:"segments"`
	EmptySegments   int      `json:"empty_segments"`
	Points          int      `json:"points"`
	Lookups         int      `json:"lookups"`
	KeptRecorded    int      `json:"kept_recorded"`
	FromDatabase    int      `json:"from_database"`
	ZeroDatabaseHit int      `json:"zero_database_samples"`
}

// Result is the outcome of one successful merge.
type Result struct {
	// Altitudes holds one value per visited point, in segment-then-point order.
	Altitudes []float64
	Stats     Stats
}

// LookupError identifies the point whose elevation could not be resolved.
type LookupError struct {
	Segment int
	Index   int
	Lat     float64
	Lon     float64
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s at segment %d point %d (%.6f, %.6f): %v",
		ErrLookupMiss, e.Segment, e.Index, e.Lat, e.Lon, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLookupMiss
}

// Compute builds a fresh altitude sequence for one track. It is
// all-or-nothing: on any error the returned Result is empty.
func Compute(src TrackSource, track int, elev ElevationSource, strategy Strategy, cfg Config) (Result, error) {
	if !strategy.Valid() {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidStrategy, int(strategy))
	}
	if src == nil || elev == nil {
		return Result{}, ErrNoSelection
	}

	if cfg.ValidateTolerance <= 0 {
		cfg.ValidateTolerance = DefaultConfig().ValidateTolerance
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	segments := src.SegmentCount(track)
	if segments <= 0 {
		return Result{}, fmt.Errorf("%w: track %d", ErrNoSelection, track)
	}

	stats := Stats{Strategy: strategy, Segments: segments}
	var altitudes []float64

	for seg := 0; seg < segments; seg++ {
		n := src.PointCount(track, seg)
		if n <= 0 {
			stats.EmptySegments++
			continue
		}

		for i := 0; i < n; i++ {
			p := src.Point(track, seg, i)

			value, err := mergePoint(p, elev, strategy, cfg.ValidateTolerance, &stats)
			if err != nil {
				logger.Debug("elevation lookup failed",
					zap.Int("segment", seg),
					zap.Int("point", i),
					zap.Float64("lat", p.Lat),
					zap.Float64("lon", p.Lon),
					zap.Error(err))
				return Result{}, &LookupError{Segment: seg, Index: i, Lat: p.Lat, Lon: p.Lon, Err: err}
			}
			altitudes = append(altitudes, value)
		}
	}

	if len(altitudes) == 0 {
		return Result{}, fmt.Errorf("%w: track %d", ErrEmptyTrack, track)
	}

	stats.Points = len(altitudes)
	logger.Debug("altitudes merged",
		zap.Stringer("strategy", strategy),
		zap.Int("points", stats.Points),
		zap.Int("lookups", stats.Lookups),
		zap.Int("kept_recorded", stats.KeptRecorded),
		zap.Int("from_database", stats.FromDatabase))

	return Result{Altitudes: altitudes, Stats: stats}, nil
}

func mergePoint(p gpx.Point, elev ElevationSource, strategy Strategy, tolerance float64, stats *Stats) (float64, error) {
	if strategy == FillMissing && p.HasElevation() {
		stats.KeptRecorded++
		return p.Elevation, nil
	}

	sample, err := elev.Lookup(p.Lat, p.Lon)
	stats.Lookups++
	if err != nil {
		return 0, err
	}
	db := float64(sample)

	if strategy == Validate && withinTolerance(p.Elevation, db, tolerance) {
		stats.KeptRecorded++
		return p.Elevation, nil
	}

	if db == 0 {
		stats.ZeroDatabaseHit++
	}
	stats.FromDatabase++
	return db, nil
}

// withinTolerance reports whether recorded/db lies in [1-tol, 1+tol]. A
// zero database value makes the ratio infinite, so it never validates.
func withinTolerance(recorded, db, tol float64) bool {
	if db == 0 {
		return false
	}
	ratio := recorded / db
	return ratio >= 1-tol && ratio <= 1+tol
}
