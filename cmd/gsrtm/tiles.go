package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planbiir/gsrtm/internal/gpx"
	"github.com/planbiir/gsrtm/internal/srtm"
)

func newTilesCmd() *cobra.Command {
	var (
		input   string
		track   int
		missing bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "List the SRTM tiles a track needs",
		Long: `List every SRTM tile covered by a track, whether it is present in the
tile directory and where to download it.

examples:
  gsrtm tiles -i track.gpx
  gsrtm tiles -i track.gpx --missing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			g, err := gpx.Parse(input)
			if err != nil {
				return fmt.Errorf("parse %s: %w", input, err)
			}
			if track < 0 || track >= len(g.Tracks) {
				return fmt.Errorf("%w: file has %d tracks, requested %d", gpx.ErrTrackIndex, len(g.Tracks), track)
			}

			statuses := a.provider.Coverage(g.LineString(track))
			if missing {
				statuses = srtm.Missing(statuses)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), statuses)
			}
			printTiles(cmd.OutOrStdout(), a.provider, statuses)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input GPX file")
	cmd.Flags().IntVar(&track, "track", 0, "Track index within the file")
	cmd.Flags().BoolVar(&missing, "missing", false, "Only list tiles not found on disk")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func printTiles(out io.Writer, p *srtm.Provider, statuses []srtm.TileStatus) {
	fmt.Fprintf(out, "Tile directory: %s (%s)\n", p.Directory(), p.Model())
	if len(statuses) == 0 {
		fmt.Fprintln(out, "  no tiles")
		return
	}
	absent := 0
	for _, s := range statuses {
		if s.Present {
			fmt.Fprintf(out, "  ✓ %s  %d points  %s\n", s.Name, s.Points, s.Path)
			continue
		}
		absent++
		fmt.Fprintf(out, "  ✗ %s  %d points  download: %s\n", s.Name, s.Points, s.URL)
	}
	fmt.Fprintf(out, "%d tiles, %d missing\n", len(statuses), absent)
}

func writeJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
