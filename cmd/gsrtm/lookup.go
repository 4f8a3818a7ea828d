package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planbiir/gsrtm/internal/srtm"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Get the terrain height at a location",
		Long: `Get the SRTM terrain height at a single coordinate.

examples:
  gsrtm lookup --lat 46.5 --lon 7.5
  gsrtm lookup --lat 46.5 --lon 7.5 --model srtm3 --srtm-dir /data/srtm3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lon, _ := cmd.Flags().GetFloat64("lon")
			if lat < -90 || lat > 90 {
				return errors.New("latitude must be between -90 and 90")
			}
			if lon < -180 || lon > 180 {
				return errors.New("longitude must be between -180 and 180")
			}

			a, err := setup(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			height, err := a.provider.Lookup(lat, lon)
			if err != nil {
				var missing *srtm.MissingTileError
				if errors.As(err, &missing) {
					fmt.Fprintf(out, "Height file not found: %s\n", missing.FileName)
					fmt.Fprintf(out, "Download file here: %s\n", missing.URL)
					fmt.Fprintf(out, "Unzip and put file here: %s\n", missing.Directory)
				}
				return err
			}

			fmt.Fprintf(out, "Location: %.6f, %.6f\n", lat, lon)
			fmt.Fprintf(out, "Elevation: %d meters\n", height)
			fmt.Fprintf(out, "Tile: %s (%s)\n", a.provider.FileName(), a.provider.Model())
			return nil
		},
	}

	cmd.Flags().Float64("lat", 0, "Latitude (required)")
	cmd.Flags().Float64("lon", 0, "Longitude (required)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}
