package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/planbiir/gsrtm/internal/config"
	"github.com/planbiir/gsrtm/internal/logging"
	"github.com/planbiir/gsrtm/internal/srtm"
)

const version = "gsrtm v1.0.0 - SRTM altitude fetcher for GPX tracks"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gsrtm",
		Short: "Replace or validate GPX altitudes with SRTM terrain heights",
		Long: `gsrtm merges the altitudes recorded in a GPX track with heights read from
SRTM .hgt tiles stored locally.

examples:
  gsrtm fetch -i track.gpx --srtm-dir ~/srtm
  gsrtm fetch -i track.gpx --strategy fill-missing --window 5
  gsrtm tiles -i track.gpx
  gsrtm lookup --lat 46.5 --lon 7.5`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "YAML configuration file")
	root.PersistentFlags().String("srtm-dir", "", "Directory holding .hgt tiles (default: <user config dir>/gsrtm/srtm)")
	root.PersistentFlags().String("model", "", "Tile resolution: srtm1 or srtm3")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newFetchCmd(), newTilesCmd(), newLookupCmd())
	return root
}

// app carries what every subcommand needs.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	provider *srtm.Provider
}

// setup loads the configuration, applies changed flags on top and builds the
// logger and tile provider.
func setup(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("srtm-dir") {
		cfg.SRTM.Directory, _ = cmd.Flags().GetString("srtm-dir")
	}
	if cmd.Flags().Changed("model") {
		cfg.SRTM.Model, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.SRTM.Directory) == "" {
		dir, err := defaultSRTMDir()
		if err != nil {
			return nil, err
		}
		cfg.SRTM.Directory = dir
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	provider, err := srtm.NewProvider(cfg.SRTM, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		zap.String("config", path),
		zap.String("srtm_dir", cfg.SRTM.Directory),
		zap.String("model", cfg.SRTM.Model))

	return &app{cfg: cfg, logger: logger, provider: provider}, nil
}

func defaultSRTMDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve SRTM directory, pass --srtm-dir: %w", err)
	}
	return filepath.Join(base, "gsrtm", "srtm"), nil
}
