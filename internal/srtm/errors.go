package srtm

import (
	"errors"
	"fmt"
)

var (
	// ErrTileNotFound means the tile file covering a coordinate is not on disk.
	ErrTileNotFound = errors.New("height file not found")
	// ErrVoid means the tile exists but holds no data at the coordinate.
	ErrVoid = errors.New("no elevation data at coordinate")
	// ErrCorruptTile means a tile file exists but cannot be decoded.
	ErrCorruptTile = errors.New("corrupt height file")
	// ErrOutOfRange means the coordinate is not a valid latitude/longitude.
	ErrOutOfRange = errors.New("coordinate out of range")
)

// MissingTileError carries what a user needs to fetch a missing tile by hand.
type MissingTileError struct {
	FileName  string
	URL       string
	Directory string
}

func (e *MissingTileError) Error() string {
	return fmt.Sprintf("%s: %s (download %s and unzip into %s)", ErrTileNotFound, e.FileName, e.URL, e.Directory)
}

func (e *MissingTileError) Is(target error) bool {
	return target == ErrTileNotFound
}
