package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planbiir/gsrtm/internal/dialog"
	"github.com/planbiir/gsrtm/internal/export"
	"github.com/planbiir/gsrtm/internal/gpx"
	"github.com/planbiir/gsrtm/internal/merge"
	"github.com/planbiir/gsrtm/internal/smooth"
)

const altitudeSuffix = " (Altitude)"

type fetchOptions struct {
	input     string
	output    string
	kmlOutput string
	track     int
	dryRun    bool
	showStats bool
	statsJSON bool
}

func newFetchCmd() *cobra.Command {
	opts := fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Merge SRTM heights into a GPX track",
		Long: `Merge SRTM heights into one track of a GPX file and write the gpxData.

strategies:
  replace       (0) use the database height for every point
  fill-missing  (1) keep recorded altitudes, fill only points without one
  validate      (2) keep recorded altitudes within the tolerance of the database

examples:
  gsrtm fetch -i track.gpx
  gsrtm fetch -i track.gpx --strategy validate --tolerance 0.05
  gsrtm fetch -i track.gpx --window 7 --passes 2 --kml profile.kml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := applyFetchFlags(cmd, a); err != nil {
				return err
			}
			return runFetch(a, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input GPX file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output GPX file (default: <input>_altitude.gpx)")
	cmd.Flags().StringVar(&opts.kmlOutput, "kml", "", "Also write the merged profile as KML")
	cmd.Flags().IntVar(&opts.track, "track", 0, "Track index within the file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show statistics without writing output files")
	cmd.Flags().BoolVar(&opts.showStats, "stats", false, "Show detailed statistics")
	cmd.Flags().BoolVar(&opts.statsJSON, "stats-json", false, "Output statistics as JSON")

	cmd.Flags().StringP("strategy", "s", "", "Merge strategy: replace, fill-missing, validate (or 0, 1, 2)")
	cmd.Flags().Float64("tolerance", 0, "Relative tolerance for validate (default 0.10)")
	cmd.Flags().String("kernel", "", "Smoothing kernel: mean or median")
	cmd.Flags().IntP("window", "w", 0, "Smoothing window in points (1 disables)")
	cmd.Flags().IntP("passes", "p", 0, "Number of smoothing passes")

	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// applyFetchFlags overrides merge and smoothing settings with changed flags.
func applyFetchFlags(cmd *cobra.Command, a *app) error {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		a.cfg.Merge.Strategy, _ = flags.GetString("strategy")
	}
	if flags.Changed("tolerance") {
		a.cfg.Merge.ValidateTolerance, _ = flags.GetFloat64("tolerance")
	}
	if flags.Changed("kernel") {
		kernel, _ := flags.GetString("kernel")
		a.cfg.Smoothing.Kernel = smooth.Kernel(kernel)
	}
	if flags.Changed("window") {
		a.cfg.Smoothing.Window, _ = flags.GetInt("window")
	}
	if flags.Changed("passes") {
		a.cfg.Smoothing.Passes, _ = flags.GetInt("passes")
	}
	return a.cfg.Validate()
}

// fetchReport is the JSON form of a fetch run.
type fetchReport struct {
	Input     string         `json:"input"`
	Track     int            `json:"track"`
	Merge     merge.Stats    `json:"merge"`
	Smoothing smooth.Options `json:"smoothing"`
	Before    gpx.Stats      `json:"before"`
	After     gpx.Stats      `json:"after"`
	Polyline  string         `json:"polyline"`
}

func runFetch(a *app, opts fetchOptions, out io.Writer) error {
	if opts.output == "" {
		ext := filepath.Ext(opts.input)
		opts.output = strings.TrimSuffix(opts.input, ext) + "_altitude" + ext
	}

	fmt.Fprintf(out, "📖 Reading GPX file: %s\n", opts.input)
	gpxData, err := gpx.Parse(opts.input)
	if err != nil {
		return fmt.Errorf("error reading GPX file: %w", err)
	}
	if opts.track < 0 || opts.track >= len(gpxData.Tracks) {
		return fmt.Errorf("%w: file has %d tracks, requested %d", gpx.ErrTrackIndex, len(gpxData.Tracks), opts.track)
	}

	before := gpxData.Stats(opts.track)
	fmt.Fprintf(out, "📊 Track %d: %d points across %d segments\n", opts.track, before.Points, before.Segments)

	session := dialog.NewSession(gpxData, opts.track, a.provider,
		dialog.WithLogger(a.logger),
		dialog.WithMergeConfig(a.cfg.MergeSettings()))

	req := dialog.Request{Strategy: a.cfg.Strategy(), Smoothing: a.cfg.Smoothing}
	notice, err := session.Fetch(req)
	if err != nil {
		if notice != nil {
			fmt.Fprintf(out, "❌ %s\n", notice.NotFound)
			fmt.Fprintf(out, "   %s\n", notice.Download)
			fmt.Fprintf(out, "   %s\n", notice.Location)
		}
		return err
	}

	values := session.Values()
	if !session.Accept() {
		return errors.New("no altitudes fetched")
	}

	if err := gpxData.ApplyElevations(opts.track, values); err != nil {
		return err
	}
	after := gpxData.Stats(opts.track)

	if opts.showStats || opts.statsJSON || opts.dryRun {
		if opts.statsJSON {
			report := fetchReport{
				Input:     opts.input,
				Track:     opts.track,
				Merge:     session.Stats(),
				Smoothing: req.Smoothing,
				Before:    before,
				After:     after,
				Polyline:  export.EncodePolyline(gpxData.TrackPoints(opts.track)),
			}
			jsonData, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("error marshaling stats: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
		} else {
			printStats(out, session.Stats(), req.Smoothing, before, after)
		}
	}

	if opts.dryRun {
		fmt.Fprintf(out, "🔍 Dry run completed - no files written\n")
		return nil
	}

	trk := &gpxData.Tracks[opts.track]
	if !strings.HasSuffix(trk.Name, altitudeSuffix) {
		trk.Name += altitudeSuffix
	}

	fmt.Fprintf(out, "💾 Writing track: %s\n", opts.output)
	if err := gpxData.Write(opts.output); err != nil {
		return fmt.Errorf("error writing GPX file: %w", err)
	}

	if opts.kmlOutput != "" {
		if err := writeKML(opts.kmlOutput, trk.Name, gpxData.TrackPoints(opts.track), values); err != nil {
			return err
		}
		fmt.Fprintf(out, "🗺️  KML profile written: %s\n", opts.kmlOutput)
	}

	fmt.Fprintf(out, "✅ Altitudes updated (%s)\n", req.Strategy)
	fmt.Fprintf(out, "   %d points, %d from database, %d kept\n",
		session.Stats().Points, session.Stats().FromDatabase, session.Stats().KeptRecorded)
	fmt.Fprintf(out, "   ascent %.0f → %.0f m\n", before.Ascent, after.Ascent)
	return nil
}

func writeKML(path, name string, points []gpx.Point, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating KML file: %w", err)
	}
	defer f.Close()

	if err := export.WriteKML(f, name, points, values); err != nil {
		return err
	}
	return f.Close()
}
