// Package smooth holds the post-merge smoothing kernels applied to an
// altitude sequence.
package smooth

import (
	"fmt"
	"strings"
)

// Kernel selects the smoothing filter.
type Kernel string

const (
	KernelMean   Kernel = "mean"
	KernelMedian Kernel = "median"
)

// ParseKernel maps a user string to a Kernel; empty means mean.
func ParseKernel(s string) (Kernel, error) {
	switch Kernel(strings.ToLower(strings.TrimSpace(s))) {
	case "", KernelMean, "average", "moving-average":
		return KernelMean, nil
	case KernelMedian:
		return KernelMedian, nil
	}
	return "", fmt.Errorf("unknown smoothing kernel %q", s)
}

// Options parameterise a smoothing run.
type Options struct {
	Kernel Kernel `koanf:"kernel" json:"kernel"`
	Window int    `koanf:"window" json:"window"`
	Passes int    `koanf:"passes" json:"passes"`
}

// DefaultOptions leaves values untouched: one pass with a window of one.
func DefaultOptions() Options {
	return Options{Kernel: KernelMean, Window: 1, Passes: 1}
}

// Validate rejects windows below one and negative pass counts.
func (o Options) Validate() error {
	if o.Window < 1 {
		return fmt.Errorf("smoothing window must be >= 1, got %d", o.Window)
	}
	if o.Passes < 0 {
		return fmt.Errorf("smoothing passes must be >= 0, got %d", o.Passes)
	}
	if _, err := ParseKernel(string(o.Kernel)); err != nil {
		return err
	}
	return nil
}

// Apply runs the selected kernel Passes times and returns a new slice.
func Apply(values []float64, opts Options) ([]float64, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	kernel, _ := ParseKernel(string(opts.Kernel))

	out := append([]float64(nil), values...)
	for n := 0; n < opts.Passes; n++ {
		switch kernel {
		case KernelMedian:
			out = Median(out, opts.Window)
		default:
			out = MovingAverage(out, opts.Window)
		}
	}
	return out, nil
}
