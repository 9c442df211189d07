package specimen

import (
	"fmt"

	"github.com/alexiusacademia/gotensile/internal/smoothing"
	"github.com/alexiusacademia/gotensile/internal/units"
)

// Properties are the scalar results of a tensile test.
type Properties struct {
	YoungsModulus float64 // MPa
	Strain0       float64 // Zero-strain correction, 0 if not applied

	Initial     Point // First sample
	LinearLimit Point
	OffsetYield Point // Rp0.2
	Ultimate    Ultimate
	Break       Point // Last sample
}

// Analyzed is a fitted record with its extracted properties.
type Analyzed struct {
	Fitted
	Properties Properties
}

// ExtractOptions configures the linear-limit search.
type ExtractOptions struct {
	Tolerance    float64
	StrainCutoff float64
}

// DefaultExtractOptions returns the tolerance 0.025 and cutoff 0.02.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{Tolerance: DefaultTolerance, StrainCutoff: DefaultStrainCutoff}
}

// Extract computes the ultimate strength, the 0.2 % offset yield and the
// linear limit, in that order.
func (f *Fitted) Extract(opts ExtractOptions) (*Analyzed, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}

	ult, err := f.Ultimate()
	if err != nil {
		return nil, err
	}
	yield, err := f.OffsetYield()
	if err != nil {
		return nil, err
	}
	lin, err := f.LinearLimit(opts.Tolerance, opts.StrainCutoff, yield)
	if err != nil {
		return nil, err
	}

	last := f.Samples() - 1
	return &Analyzed{
		Fitted: *f,
		Properties: Properties{
			YoungsModulus: f.YoungsModulus,
			Strain0:       f.Strain0,
			Initial:       Point{Index: 0, Strain: f.StrainEng[0], Stress: f.StressEng[0]},
			LinearLimit:   lin,
			OffsetYield:   yield,
			Ultimate:      ult,
			Break:         Point{Index: last, Strain: f.StrainEng[last], Stress: f.StressEng[last]},
		},
	}, nil
}

// Options drives Process.
type Options struct {
	UnitSystem string

	// Truncation in the record's own displacement unit, skipped when
	// TruncateAt is zero
	TruncateField string
	TruncateAt    float64

	Smooth       bool
	SmoothWindow int
	SmoothOrder  int

	FitLow  float64
	FitHigh float64

	ZeroStrain bool

	Extract ExtractOptions
}

// DefaultOptions returns the options of a standard MTS evaluation.
func DefaultOptions() Options {
	return Options{
		UnitSystem:    units.MPa,
		TruncateField: FieldDisp,
		SmoothWindow:  smoothing.DefaultWindow,
		SmoothOrder:   smoothing.DefaultOrder,
		FitLow:        DefaultFitLow,
		FitHigh:       DefaultFitHigh,
		Extract:       DefaultExtractOptions(),
	}
}

// Process runs the full evaluation: truncation, smoothing, unit
// normalization, derivation, elastic fit, zero-strain correction and
// property extraction. Optional steps are controlled by opts.
func Process(raw *Raw, opts Options) (*Analyzed, error) {
	var err error
	if opts.TruncateAt != 0 {
		if raw, err = raw.TruncateBy(opts.TruncateField, opts.TruncateAt); err != nil {
			return nil, fmt.Errorf("truncate: %w", err)
		}
	}
	if opts.Smooth {
		if raw, err = raw.SmoothForce(opts.SmoothWindow, opts.SmoothOrder); err != nil {
			return nil, fmt.Errorf("smooth: %w", err)
		}
	}

	norm, err := raw.Normalize(opts.UnitSystem)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	derived, err := norm.Derive()
	if err != nil {
		return nil, fmt.Errorf("derive: %w", err)
	}
	fitted, err := derived.FitElastic(opts.FitLow, opts.FitHigh)
	if err != nil {
		return nil, fmt.Errorf("elastic fit: %w", err)
	}
	if opts.ZeroStrain {
		if fitted, err = fitted.ZeroStrain(); err != nil {
			return nil, fmt.Errorf("zero strain: %w", err)
		}
	}
	analyzed, err := fitted.Extract(opts.Extract)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return analyzed, nil
}
