package export

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/gsrtm/internal/gpx"
)

func samplePoints() []gpx.Point {
	return []gpx.Point{
		{Lat: 46.10, Lon: 7.10},
		{Lat: 46.11, Lon: 7.12},
		{Lat: 46.12, Lon: 7.15},
	}
}

func TestWriteKML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteKML(&buf, "Morning ride (Altitude)", samplePoints(), []float64{1000, 1050, 1100})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, "<LineString>")
	assert.Contains(t, out, "<altitudeMode>absolute</altitudeMode>")
	assert.Contains(t, out, "Morning ride (Altitude)")
	assert.Contains(t, out, "3 points, altitude 1000 to 1100 m")
	assert.Equal(t, 3, strings.Count(out, "<Placemark>"))

	// Output must be well-formed XML.
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, io.EOF, err)
			break
		}
	}
}

func TestWriteKMLErrors(t *testing.T) {
	var buf bytes.Buffer
	err := WriteKML(&buf, "x", samplePoints(), []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = WriteKML(&buf, "x", nil, nil)
	assert.Error(t, err)
}

func TestEncodePolyline(t *testing.T) {
	points := []gpx.Point{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	}
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", EncodePolyline(points))

	decoded, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	for i := range points {
		assert.InDelta(t, points[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, points[i].Lon, decoded[i].Lon, 1e-5)
	}

	assert.Equal(t, "", EncodePolyline(nil))
}
