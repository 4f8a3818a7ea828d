package main

import (
	"fmt"
	"io"

	"github.com/planbiir/gsrtm/internal/gpx"
	"github.com/planbiir/gsrtm/internal/merge"
	"github.com/planbiir/gsrtm/internal/smooth"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

func printStats(out io.Writer, stats merge.Stats, smoothing smooth.Options, before, after gpx.Stats) {
	fmt.Fprintf(out, "\n📊 Altitude Statistics:\n")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "🎯 Strategy: %s\n", stats.Strategy)
	fmt.Fprintf(out, "📍 Points: %d in %d segments (%d empty)\n",
		stats.Points, stats.Segments, stats.EmptySegments)
	fmt.Fprintf(out, "🔎 Lookups: %d\n", stats.Lookups)
	fmt.Fprintf(out, "   • From database: %d\n", stats.FromDatabase)
	fmt.Fprintf(out, "   • Kept recorded: %d\n", stats.KeptRecorded)
	if stats.ZeroDatabaseHit > 0 {
		fmt.Fprintf(out, "   • Database height 0: %d\n", stats.ZeroDatabaseHit)
	}
	fmt.Fprintf(out, "〰️  Smoothing: %s, window %d, %d passes\n",
		smoothing.Kernel, smoothing.Window, smoothing.Passes)
	fmt.Fprintf(out, "⛰️  Altitude: %.0f–%.0f m → %.0f–%.0f m\n",
		before.MinEle, before.MaxEle, after.MinEle, after.MaxEle)
	fmt.Fprintf(out, "📈 Ascent/Descent: %.0f/%.0f m → %.0f/%.0f m\n",
		before.Ascent, before.Descent, after.Ascent, after.Descent)
	fmt.Fprintf(out, "📏 Distance: %.2f km\n", after.Distance)
	fmt.Fprintln(out, rule)
}
