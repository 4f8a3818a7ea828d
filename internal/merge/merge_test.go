package merge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/gsrtm/internal/gpx"
)

type coord struct{ lat, lon float64 }

// fakeDEM serves heights from a map and counts lookups.
type fakeDEM struct {
	heights map[coord]int16
	calls   int
}

var errNoTile = errors.New("tile missing")

func (f *fakeDEM) Lookup(lat, lon float64) (int16, error) {
	f.calls++
	h, ok := f.heights[coord{lat, lon}]
	if !ok {
		return 0, errNoTile
	}
	return h, nil
}

func buildTrack(segments ...[]gpx.Point) *gpx.GPX {
	track := gpx.Track{Name: "Test"}
	for _, points := range segments {
		track.Segments = append(track.Segments, gpx.TrackSegment{Points: points})
	}
	return &gpx.GPX{Tracks: []gpx.Track{track}}
}

// exampleTrack is a single segment with altitudes 100, 0 (absent) and 95
// over database heights 98, 97 and 96.
func exampleTrack() (*gpx.GPX, *fakeDEM) {
	doc := buildTrack([]gpx.Point{
		{Lat: 46.0, Lon: 7.0, Elevation: 100},
		{Lat: 46.1, Lon: 7.1, Elevation: 0},
		{Lat: 46.2, Lon: 7.2, Elevation: 95},
	})
	dem := &fakeDEM{heights: map[coord]int16{
		{46.0, 7.0}: 98,
		{46.1, 7.1}: 97,
		{46.2, 7.2}: 96,
	}}
	return doc, dem
}

func TestComputeStrategies(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     []float64
		lookups  int
	}{
		{Replace, []float64{98, 97, 96}, 3},
		{FillMissing, []float64{100, 97, 95}, 1},
		{Validate, []float64{100, 97, 95}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			doc, dem := exampleTrack()

			result, err := Compute(doc, 0, dem, tt.strategy, DefaultConfig())
			require.NoError(t, err)

			assert.Equal(t, tt.want, result.Altitudes)
			assert.Equal(t, tt.lookups, dem.calls)
			assert.Equal(t, tt.lookups, result.Stats.Lookups)
			assert.Equal(t, 3, result.Stats.Points)
			assert.Equal(t, tt.strategy, result.Stats.Strategy)
		})
	}
}

func TestComputeMultiSegmentOrder(t *testing.T) {
	doc := buildTrack(
		[]gpx.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}},
		nil,
		[]gpx.Point{{Lat: 3, Lon: 3}},
	)
	dem := &fakeDEM{heights: map[coord]int16{{1, 1}: 10, {2, 2}: 20, {3, 3}: 30}}

	result, err := Compute(doc, 0, dem, Replace, Config{})
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 20, 30}, result.Altitudes)
	assert.Equal(t, 3, result.Stats.Segments)
	assert.Equal(t, 1, result.Stats.EmptySegments)
}

func TestComputeFailsOnLookupMiss(t *testing.T) {
	doc := buildTrack(
		[]gpx.Point{{Lat: 1, Lon: 1}},
		[]gpx.Point{{Lat: 2, Lon: 2}, {Lat: 9, Lon: 9}, {Lat: 3, Lon: 3}},
	)
	dem := &fakeDEM{heights: map[coord]int16{{1, 1}: 10, {2, 2}: 20, {3, 3}: 30}}

	for _, strategy := range []Strategy{Replace, FillMissing, Validate} {
		dem.calls = 0
		result, err := Compute(doc, 0, dem, strategy, Config{})

		require.Error(t, err, strategy.String())
		assert.ErrorIs(t, err, ErrLookupMiss)
		assert.ErrorIs(t, err, errNoTile)
		assert.Empty(t, result.Altitudes, "no partial result for %s", strategy)
		assert.Equal(t, 3, dem.calls, "%s must stop at the first miss", strategy)

		var lookupErr *LookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.Equal(t, 1, lookupErr.Segment)
		assert.Equal(t, 1, lookupErr.Index)
		assert.Equal(t, 9.0, lookupErr.Lat)
	}
}

func TestFillMissingSkipsLookupForRecordedAltitude(t *testing.T) {
	doc := buildTrack([]gpx.Point{{Lat: 9, Lon: 9, Elevation: 512}})
	dem := &fakeDEM{}

	result, err := Compute(doc, 0, dem, FillMissing, Config{})
	require.NoError(t, err)
	assert.Equal(t, []float64{512}, result.Altitudes)
	assert.Zero(t, dem.calls)
}

func TestComputeNoSelection(t *testing.T) {
	dem := &fakeDEM{}

	_, err := Compute(&gpx.GPX{}, 0, dem, Replace, Config{})
	assert.ErrorIs(t, err, ErrNoSelection)

	doc, _ := exampleTrack()
	_, err = Compute(doc, 3, dem, Replace, Config{})
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = Compute(buildTrack(), 0, dem, Replace, Config{})
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = Compute(nil, 0, dem, Replace, Config{})
	assert.ErrorIs(t, err, ErrNoSelection)

	assert.Zero(t, dem.calls)
}

func TestComputeEmptyTrack(t *testing.T) {
	dem := &fakeDEM{}
	_, err := Compute(buildTrack(nil, nil), 0, dem, Replace, Config{})
	assert.ErrorIs(t, err, ErrEmptyTrack)
	assert.False(t, errors.Is(err, ErrLookupMiss))
}

func TestComputeInvalidStrategy(t *testing.T) {
	doc, dem := exampleTrack()
	_, err := Compute(doc, 0, dem, Strategy(7), Config{})
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestValidateTolerance(t *testing.T) {
	tests := []struct {
		name     string
		recorded float64
		db       int16
		want     float64
	}{
		{"upper bound kept", 110, 100, 110},
		{"lower bound kept", 90, 100, 90},
		{"above bound replaced", 111, 100, 100},
		{"below bound replaced", 89, 100, 100},
		{"zero database value replaced", 5, 0, 0},
		{"both zero", 0, 0, 0},
		{"negative terrain kept", -20, -21, -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buildTrack([]gpx.Point{{Lat: 1, Lon: 1, Elevation: tt.recorded}})
			dem := &fakeDEM{heights: map[coord]int16{{1, 1}: tt.db}}

			result, err := Compute(doc, 0, dem, Validate, Config{})
			require.NoError(t, err)
			assert.Equal(t, []float64{tt.want}, result.Altitudes)
		})
	}
}

func TestValidateCustomTolerance(t *testing.T) {
	doc := buildTrack([]gpx.Point{{Lat: 1, Lon: 1, Elevation: 125}})
	dem := &fakeDEM{heights: map[coord]int16{{1, 1}: 100}}

	result, err := Compute(doc, 0, dem, Validate, Config{ValidateTolerance: 0.25})
	require.NoError(t, err)
	assert.Equal(t, []float64{125}, result.Altitudes)
}

func TestComputeIsIdempotent(t *testing.T) {
	doc, dem := exampleTrack()

	first, err := Compute(doc, 0, dem, Validate, Config{})
	require.NoError(t, err)
	second, err := Compute(doc, 0, dem, Validate, Config{})
	require.NoError(t, err)

	assert.Equal(t, first.Altitudes, second.Altitudes)

	// Each call returns its own slice.
	first.Altitudes[0] = -1
	assert.Equal(t, 100.0, second.Altitudes[0])
}

func TestParseStrategy(t *testing.T) {
	for input, want := range map[string]Strategy{
		"0": Replace, "replace": Replace,
		"1": FillMissing, "fill": FillMissing, "Fill-Missing": FillMissing,
		"2": Validate, "validate": Validate,
	} {
		got, err := ParseStrategy(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseStrategy("average")
	assert.Error(t, err)

	var s Strategy
	require.NoError(t, s.UnmarshalText([]byte("validate")))
	assert.Equal(t, Validate, s)

	text, err := FillMissing.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "fill-missing", string(text))
}
