package specimen

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Default elastic fit window (engineering strain).
const (
	DefaultFitLow  = 0.0
	DefaultFitHigh = 0.1
)

// Trend is the straight line fitted to the elastic region: stress = Slope*strain + Intercept.
type Trend struct {
	Slope     float64
	Intercept float64
}

// At returns the stress predicted at strain.
func (t Trend) At(strain float64) float64 {
	return t.Slope*strain + t.Intercept
}

// Fitted is a derived record with its elastic trend.
type Fitted struct {
	Derived

	Trend         Trend
	YoungsModulus float64 // MPa
	FitLow        float64
	FitHigh       float64

	// Strain offset added by ZeroStrain
	Strain0       float64
	ZeroCorrected bool
}

// FitElastic fits a least-squares line to the samples with
// low < strain < high and takes its slope as Young's modulus.
func (d *Derived) FitElastic(low, high float64) (*Fitted, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	if !(high > low) {
		return nil, invalid("fit window", "upper strain %g must exceed lower strain %g", high, low)
	}

	var xs, ys []float64
	for i, e := range d.StrainEng {
		if e > low && e < high {
			xs = append(xs, e)
			ys = append(ys, d.StressEng[i])
		}
	}
	if len(xs) < 2 {
		return nil, invalid("fit window", "%d sample(s) with %g < strain < %g, need at least 2", len(xs), low, high)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return nil, invalid("fit window", "samples in %g < strain < %g do not span a strain range", low, high)
	}

	f := &Fitted{
		Derived: *d.clone(),
		Trend:   Trend{Slope: slope, Intercept: intercept},
		FitLow:  low,
		FitHigh: high,
	}
	f.YoungsModulus = (f.Trend.At(high) - f.Trend.At(low)) / (high - low)
	return f, nil
}

func (f *Fitted) ready() error {
	if f == nil {
		return notReady("fitted record is nil")
	}
	if err := f.Derived.ready(); err != nil {
		return err
	}
	if f.FitHigh <= f.FitLow {
		return notReady("elastic trend has not been fitted")
	}
	return nil
}

// ZeroStrain adds stress[0]/E to every strain, compensating for slack taken
// up before the specimen carries load. The trend moves with the strain axis
// and the true stress–strain arrays are re-derived from the corrected strain.
func (f *Fitted) ZeroStrain() (*Fitted, error) {
	if err := f.ready(); err != nil {
		return nil, err
	}
	if f.ZeroCorrected {
		return nil, invalid("strain0", "zero-strain correction already applied")
	}
	if f.YoungsModulus == 0 || math.IsNaN(f.YoungsModulus) || math.IsInf(f.YoungsModulus, 0) {
		return nil, invalid("youngsModulus", "cannot correct strain with modulus %g", f.YoungsModulus)
	}

	out := *f
	out.Derived = *f.Derived.clone()
	out.Strain0 = f.StressEng[0] / f.YoungsModulus
	if math.IsNaN(out.Strain0) || math.IsInf(out.Strain0, 0) {
		return nil, invalid("strain0", "initial stress %g gives a non-finite strain offset", f.StressEng[0])
	}
	out.ZeroCorrected = true
	for i := range out.StrainEng {
		out.StrainEng[i] += out.Strain0
	}
	out.Trend.Intercept -= out.Trend.Slope * out.Strain0

	if err := out.deriveTrue(); err != nil {
		return nil, err
	}
	out.collectWarnings()
	return &out, nil
}
