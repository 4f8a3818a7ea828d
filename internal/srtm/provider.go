package srtm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Config describes where tiles live and which resolution they have.
type Config struct {
	// Directory holds the unzipped .hgt files (or their .hgt.zip archives).
	Directory string `koanf:"directory"`
	// Model is the tile resolution, "srtm1" or "srtm3".
	Model string `koanf:"model"`
	// URLTemplate overrides the download location shown for missing tiles.
	// {name} is replaced with the tile base name, e.g. N46E007.
	URLTemplate string `koanf:"url_template"`
}

// Provider resolves coordinates to terrain heights from SRTM tiles on disk.
// Decoded tiles stay in memory for the lifetime of the provider; missing
// tiles are looked up again on every call so a user can drop the file in
// place and retry. A Provider is not safe for concurrent use.
type Provider struct {
	dir         string
	model       Model
	urlTemplate string
	logger      *zap.Logger

	tiles map[tileKey]*tile

	current tileKey
	hasKey  bool
}

// NewProvider creates a provider for the configured directory. The directory
// must be given explicitly.
func NewProvider(cfg Config, logger *zap.Logger) (*Provider, error) {
	if strings.TrimSpace(cfg.Directory) == "" {
		return nil, errors.New("srtm: data directory is required")
	}
	model, err := ParseModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl := cfg.URLTemplate
	if tmpl == "" {
		tmpl = model.DefaultURL()
	}

	return &Provider{
		dir:         filepath.Clean(cfg.Directory),
		model:       model,
		urlTemplate: tmpl,
		logger:      logger,
		tiles:       make(map[tileKey]*tile),
	}, nil
}

// Lookup returns the terrain height in metres at a coordinate.
func (p *Provider) Lookup(lat, lon float64) (int16, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, fmt.Errorf("%w: %f,%f", ErrOutOfRange, lat, lon)
	}

	key := keyFor(lat, lon)
	p.current, p.hasKey = key, true

	t, err := p.load(key)
	if err != nil {
		return 0, err
	}

	h := t.sample(lat, lon)
	if h == voidSample {
		return 0, fmt.Errorf("%w: %f,%f in %s", ErrVoid, lat, lon, key.name())
	}
	return h, nil
}

func (p *Provider) load(key tileKey) (*tile, error) {
	if t, ok := p.tiles[key]; ok {
		return t, nil
	}

	filename, ok := p.locate(key)
	if !ok {
		p.logger.Debug("height file missing",
			zap.String("file", key.name()+".hgt"),
			zap.String("dir", p.dir))
		return nil, p.missing(key)
	}

	data, err := readTileFile(filename)
	if err != nil {
		if isNotExist(err) {
			return nil, p.missing(key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	t, err := decodeTile(key, p.model, data)
	if err != nil {
		return nil, err
	}

	p.tiles[key] = t
	p.logger.Debug("height file loaded", zap.String("path", filename), zap.Int("tiles_cached", len(p.tiles)))
	return t, nil
}

// locate finds the plain or zipped file for a tile.
func (p *Provider) locate(key tileKey) (string, bool) {
	base := filepath.Join(p.dir, key.name()+".hgt")
	for _, candidate := range []string{base, base + ".zip"} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func (p *Provider) missing(key tileKey) error {
	return &MissingTileError{
		FileName:  key.name() + ".hgt",
		URL:       p.urlFor(key),
		Directory: p.dir,
	}
}

func (p *Provider) urlFor(key tileKey) string {
	return strings.ReplaceAll(p.urlTemplate, "{name}", key.name())
}

// FileName is the tile file name of the most recent lookup.
func (p *Provider) FileName() string {
	if !p.hasKey {
		return ""
	}
	return p.current.name() + ".hgt"
}

// FileURL is the download location of the most recent lookup's tile.
func (p *Provider) FileURL() string {
	if !p.hasKey {
		return ""
	}
	return p.urlFor(p.current)
}

// Directory is where tiles are expected.
func (p *Provider) Directory() string {
	return p.dir
}

// Model returns the tile resolution the provider reads.
func (p *Provider) Model() Model {
	return p.model
}
