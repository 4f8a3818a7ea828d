package srtm

import (
	"archive/zip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"strings"
)

// voidSample marks a data hole in SRTM tiles.
const voidSample = -32768

// tile is a decoded .hgt file: big-endian int16 samples, row-major, first
// row at the northern edge.
type tile struct {
	key     tileKey
	samples int
	data    []byte
}

func decodeTile(key tileKey, model Model, data []byte) (*tile, error) {
	if len(data) != model.TileBytes() {
		return nil, fmt.Errorf("%w: %s has %d bytes, %s expects %d",
			ErrCorruptTile, key.name(), len(data), model, model.TileBytes())
	}
	return &tile{key: key, samples: model.Samples(), data: data}, nil
}

// sample returns the height of the sample nearest to the coordinate.
func (t *tile) sample(lat, lon float64) int16 {
	last := float64(t.samples - 1)

	row := int(math.Round((float64(t.key.lat+1) - lat) * last))
	col := int(math.Round((lon - float64(t.key.lon)) * last))
	row = min(max(row, 0), t.samples-1)
	col = min(max(col, 0), t.samples-1)

	offset := (row*t.samples + col) * 2
	return int16(binary.BigEndian.Uint16(t.data[offset : offset+2]))
}

// readTileFile loads the raw bytes of a tile from a plain .hgt file or from
// a .zip archive holding one.
func readTileFile(filename string) ([]byte, error) {
	if strings.HasSuffix(filename, ".zip") {
		return readZippedTile(filename)
	}
	return os.ReadFile(filename)
}

func readZippedTile(filename string) ([]byte, error) {
	z, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer z.Close()

	for _, f := range z.File {
		base := path.Base(f.Name)
		if strings.HasPrefix(base, ".") || !strings.HasSuffix(strings.ToLower(base), ".hgt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s in archive: %w", f.Name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: no .hgt entry in %s", ErrCorruptTile, filename)
}

// isNotExist reports whether err means the file is simply absent.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
