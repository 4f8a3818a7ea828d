package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/planbiir/gsrtm/internal/logging"
	"github.com/planbiir/gsrtm/internal/merge"
	"github.com/planbiir/gsrtm/internal/smooth"
	"github.com/planbiir/gsrtm/internal/srtm"
)

// Config is the complete tool configuration. Every section can be set from a
// YAML file; command-line flags override individual keys.
type Config struct {
	SRTM      srtm.Config    `koanf:"srtm"`
	Merge     MergeConfig    `koanf:"merge"`
	Smoothing smooth.Options `koanf:"smoothing"`
	Log       logging.Config `koanf:"log"`
}

// MergeConfig selects the strategy and its tolerance.
type MergeConfig struct {
	Strategy          string  `koanf:"strategy"`
	ValidateTolerance float64 `koanf:"validate_tolerance"`
}

// DefaultConfig returns the settings used when nothing is configured. The
// SRTM directory is left empty; the command line resolves it.
func DefaultConfig() *Config {
	return &Config{
		SRTM: srtm.Config{
			Model: "srtm1",
		},
		Merge: MergeConfig{
			Strategy:          merge.Replace.String(),
			ValidateTolerance: merge.DefaultConfig().ValidateTolerance,
		},
		Smoothing: smooth.DefaultOptions(),
		Log: logging.Config{
			Level: "warn",
		},
	}
}

// defaults flattens DefaultConfig into koanf keys.
func defaults() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"srtm.directory":           d.SRTM.Directory,
		"srtm.model":               d.SRTM.Model,
		"srtm.url_template":        d.SRTM.URLTemplate,
		"merge.strategy":           d.Merge.Strategy,
		"merge.validate_tolerance": d.Merge.ValidateTolerance,
		"smoothing.kernel":         string(d.Smoothing.Kernel),
		"smoothing.window":         d.Smoothing.Window,
		"smoothing.passes":         d.Smoothing.Passes,
		"log.level":                d.Log.Level,
		"log.development":          d.Log.Development,
	}
}

// Load reads the defaults and, when path is not empty, a YAML file on top.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if strings.TrimSpace(path) != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed by defaults.
func (c *Config) Validate() error {
	if _, err := srtm.ParseModel(c.SRTM.Model); err != nil {
		return err
	}
	if _, err := merge.ParseStrategy(c.Merge.Strategy); err != nil {
		return err
	}
	if c.Merge.ValidateTolerance < 0 || c.Merge.ValidateTolerance >= 1 {
		return fmt.Errorf("merge.validate_tolerance must be in [0, 1), got %g", c.Merge.ValidateTolerance)
	}
	if err := c.Smoothing.Validate(); err != nil {
		return err
	}
	return nil
}

// Strategy returns the parsed merge strategy.
func (c *Config) Strategy() merge.Strategy {
	s, _ := merge.ParseStrategy(c.Merge.Strategy)
	return s
}

// MergeSettings converts the merge section to engine settings.
func (c *Config) MergeSettings() merge.Config {
	return merge.Config{ValidateTolerance: c.Merge.ValidateTolerance}
}
