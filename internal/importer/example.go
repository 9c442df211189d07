package importer

import (
	"gonum.org/v1/gonum/floats"

	"github.com/alexiusacademia/gotensile/internal/specimen"
	"github.com/alexiusacademia/gotensile/internal/units"
)

// Synthetic example geometry and size
const (
	ExampleSamples = 10001
	ExampleArea0   = 10.0 // mm²
	ExampleLength0 = 10.0 // mm
)

// Example returns a linear test record: force 0..1000 N over displacement
// 0..1 mm, so engineering stress runs 0..100 MPa and strain 0..0.1.
func Example() *specimen.Raw {
	return &specimen.Raw{
		Title:     "Simple test case",
		Machine:   "synthetic",
		Disp:      Linspace(0, 1, ExampleSamples),
		Force:     Linspace(0, 1000, ExampleSamples),
		DispUnit:  units.Millimeter,
		ForceUnit: units.Newton,
		Area0:     ExampleArea0,
		Length0:   ExampleLength0,
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{lo}
	}
	out := floats.Span(make([]float64, n), lo, hi)
	out[n-1] = hi
	return out
}
