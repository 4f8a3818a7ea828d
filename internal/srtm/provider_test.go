package srtm

import (
	"archive/zip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTile encodes a tile whose height at (row, col) is given by fn.
func buildTile(model Model, fn func(row, col int) int16) []byte {
	n := model.Samples()
	data := make([]byte, model.TileBytes())
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			offset := (row*n + col) * 2
			binary.BigEndian.PutUint16(data[offset:], uint16(fn(row, col)))
		}
	}
	return data
}

func rowHeights(row, col int) int16 {
	if row == 0 && col == 0 {
		return voidSample
	}
	return int16(100 + row)
}

func newTestProvider(t *testing.T, dir string) *Provider {
	t.Helper()
	p, err := NewProvider(Config{Directory: dir, Model: "srtm3"}, nil)
	require.NoError(t, err)
	return p
}

func TestTileName(t *testing.T) {
	assert.Equal(t, "N46E007.hgt", TileName(46.5, 7.25))
	assert.Equal(t, "S34W071.hgt", TileName(-33.5, -70.2))
	assert.Equal(t, "N00E000.hgt", TileName(0, 0))
	assert.Equal(t, "S01W001.hgt", TileName(-0.1, -0.1))
}

func TestParseModel(t *testing.T) {
	m, err := ParseModel("SRTM3")
	require.NoError(t, err)
	assert.Equal(t, ThreeArcSecond, m)
	assert.Equal(t, 1201, m.Samples())

	m, err = ParseModel("")
	require.NoError(t, err)
	assert.Equal(t, OneArcSecond, m)
	assert.Equal(t, 3601*3601*2, m.TileBytes())

	_, err = ParseModel("srtm90")
	assert.Error(t, err)
}

func TestNewProviderRequiresDirectory(t *testing.T) {
	_, err := NewProvider(Config{}, nil)
	assert.Error(t, err)

	_, err = NewProvider(Config{Directory: t.TempDir(), Model: "bogus"}, nil)
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "N46E007.hgt"), buildTile(ThreeArcSecond, rowHeights), 0o644))

	p := newTestProvider(t, dir)

	h, err := p.Lookup(46.5, 7.5)
	require.NoError(t, err)
	assert.Equal(t, int16(700), h)

	// Southern edge of the tile is the last row.
	h, err = p.Lookup(46.0, 7.9)
	require.NoError(t, err)
	assert.Equal(t, int16(1300), h)

	assert.Equal(t, "N46E007.hgt", p.FileName())
	assert.Equal(t, dir, p.Directory())
}

func TestLookupVoid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "N46E007.hgt"), buildTile(ThreeArcSecond, rowHeights), 0o644))

	p := newTestProvider(t, dir)
	_, err := p.Lookup(46.99999, 7.0)
	assert.ErrorIs(t, err, ErrVoid)
}

func TestLookupMissingTile(t *testing.T) {
	dir := t.TempDir()
	p := newTestProvider(t, dir)

	_, err := p.Lookup(45.2, 6.1)
	require.ErrorIs(t, err, ErrTileNotFound)

	var missing *MissingTileError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "N45E006.hgt", missing.FileName)
	assert.Equal(t, dir, missing.Directory)
	assert.Equal(t, "https://e4ftl01.cr.usgs.gov/MEASURES/SRTMGL3.003/2000.02.11/N45E006.SRTMGL3.hgt.zip", missing.URL)

	assert.Equal(t, "N45E006.hgt", p.FileName())
	assert.Equal(t, missing.URL, p.FileURL())

	// A miss is not remembered: once the file appears the lookup succeeds.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "N45E006.hgt"), buildTile(ThreeArcSecond, rowHeights), 0o644))
	_, err = p.Lookup(45.2, 6.1)
	assert.NoError(t, err)
}

func TestLookupZippedTile(t *testing.T) {
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "N46E007.hgt.zip"))
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	junk, err := zw.Create("._N46E007.hgt")
	require.NoError(t, err)
	_, err = junk.Write([]byte("junk"))
	require.NoError(t, err)
	w, err := zw.Create("N46E007.hgt")
	require.NoError(t, err)
	_, err = w.Write(buildTile(ThreeArcSecond, rowHeights))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	p := newTestProvider(t, dir)
	h, err := p.Lookup(46.5, 7.5)
	require.NoError(t, err)
	assert.Equal(t, int16(700), h)
}

func TestLookupCorruptTile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "N46E007.hgt"), make([]byte, 10), 0o644))

	p := newTestProvider(t, dir)
	_, err := p.Lookup(46.5, 7.5)
	assert.ErrorIs(t, err, ErrCorruptTile)
}

func TestLookupOutOfRange(t *testing.T) {
	p := newTestProvider(t, t.TempDir())
	_, err := p.Lookup(91, 7)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCoverage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "N46E007.hgt"), buildTile(ThreeArcSecond, rowHeights), 0o644))

	p, err := NewProvider(Config{Directory: dir, Model: "3", URLTemplate: "https://example.org/{name}.zip"}, nil)
	require.NoError(t, err)

	ls := orb.LineString{{7.5, 46.5}, {7.6, 46.6}, {8.1, 46.7}}
	statuses := p.Coverage(ls)
	require.Len(t, statuses, 2)

	assert.Equal(t, "N46E007.hgt", statuses[0].Name)
	assert.True(t, statuses[0].Present)
	assert.Equal(t, 2, statuses[0].Points)

	assert.Equal(t, "N46E008.hgt", statuses[1].Name)
	assert.False(t, statuses[1].Present)
	assert.Equal(t, "https://example.org/N46E008.zip", statuses[1].URL)

	missing := Missing(statuses)
	require.Len(t, missing, 1)
	assert.Equal(t, "N46E008.hgt", missing[0].Name)
}
