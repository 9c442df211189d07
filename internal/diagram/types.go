package diagram

import (
	"fmt"
	"math"
)

// Series is one curve of a chart.
type Series struct {
	Label string
	X     []float64
	Y     []float64
}

// Marker is a labelled point drawn on top of the curves.
type Marker struct {
	Label string
	X     float64
	Y     float64
}

// ChartData holds everything needed to draw one chart
type ChartData struct {
	Title  string
	XLabel string
	YLabel string

	Curves     []Series // Solid lines
	References []Series // Dashed lines (elastic trend, offset line)
	Markers    []Marker

	// Axis limits, 0 = fit to data. Both axes always start at 0
	XMax float64
	YMax float64
}

// Validate checks that every series has matching x/y lengths.
func (c ChartData) Validate() error {
	for _, group := range [][]Series{c.Curves, c.References} {
		for _, s := range group {
			if len(s.X) != len(s.Y) {
				return fmt.Errorf("diagram: series %q has %d x values and %d y values", s.Label, len(s.X), len(s.Y))
			}
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
