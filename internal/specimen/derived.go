package specimen

import (
	"github.com/alexiusacademia/gotensile/internal/units"
)

// Derived holds the stress–strain arrays computed from a normalized record.
type Derived struct {
	Normalized

	StrainEng  []float64
	StressEng  []float64 // MPa
	StrainTrue []float64
	StressTrue []float64 // MPa
	Area       []float64 // Instantaneous cross-section (mm²)
	Modulus    []float64 // Secant modulus between adjacent samples, len = samples-1

	// Warnings lists arrays that picked up NaN or ±Inf values
	Warnings []string
}

// Derive computes engineering and true stress–strain, the instantaneous
// area and the instantaneous modulus.
func (n *Normalized) Derive() (*Derived, error) {
	if n == nil {
		return nil, notReady("normalized record is nil")
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if n.DispUnit != units.Millimeter || n.ForceUnit != units.Newton {
		return nil, notReady("record is in " + n.DispUnit + "/" + n.ForceUnit + ", normalize to mm/N first")
	}

	d := &Derived{Normalized: Normalized{Raw: *n.Raw.clone()}}

	var err error
	if d.StrainEng, err = EngineeringStrain(d.Disp, d.Length0); err != nil {
		return nil, err
	}
	if d.StressEng, err = EngineeringStress(d.Force, d.Area0); err != nil {
		return nil, err
	}
	if err := d.deriveTrue(); err != nil {
		return nil, err
	}
	if d.Modulus, err = InstantaneousModulus(d.StressEng, d.StrainEng); err != nil {
		return nil, err
	}

	if err := d.checkShape(); err != nil {
		return nil, err
	}
	d.collectWarnings()
	return d, nil
}

// deriveTrue fills the arrays that depend on the engineering strain.
func (d *Derived) deriveTrue() error {
	var err error
	d.StrainTrue = TrueStrain(d.StrainEng)
	if d.StressTrue, err = TrueStress(d.StressEng, d.StrainEng); err != nil {
		return err
	}
	if d.Area, err = InstantaneousArea(d.Area0, d.StrainEng); err != nil {
		return err
	}
	return nil
}

// ready reports whether the derived arrays are present.
func (d *Derived) ready() error {
	if d == nil {
		return notReady("derived record is nil")
	}
	if len(d.StrainEng) == 0 || len(d.StressEng) == 0 {
		return notReady("stress and strain have not been derived")
	}
	return d.checkShape()
}

func (d *Derived) checkShape() error {
	n := d.Samples()
	for _, a := range []struct {
		name string
		xs   []float64
	}{
		{"force", d.Force},
		{"strainEng", d.StrainEng},
		{"stressEng", d.StressEng},
		{"strainTrue", d.StrainTrue},
		{"stressTrue", d.StressTrue},
		{"area", d.Area},
	} {
		if err := sameLength(a.name, n, len(a.xs)); err != nil {
			return err
		}
	}
	if n > 0 {
		return sameLength("modulus", n-1, len(d.Modulus))
	}
	return nil
}

func (d *Derived) collectWarnings() {
	d.Warnings = nil
	for _, a := range []struct {
		name string
		xs   []float64
	}{
		{"engineering strain", d.StrainEng},
		{"engineering stress", d.StressEng},
		{"true strain", d.StrainTrue},
		{"true stress", d.StressTrue},
		{"instantaneous area", d.Area},
		{"instantaneous modulus", d.Modulus},
	} {
		if w, ok := nonFiniteWarning(a.name, a.xs); ok {
			d.Warnings = append(d.Warnings, w)
		}
	}
}

func (d *Derived) clone() *Derived {
	out := *d
	out.Normalized = Normalized{Raw: *d.Raw.clone()}
	out.StrainEng = clone(d.StrainEng)
	out.StressEng = clone(d.StressEng)
	out.StrainTrue = clone(d.StrainTrue)
	out.StressTrue = clone(d.StressTrue)
	out.Area = clone(d.Area)
	out.Modulus = clone(d.Modulus)
	out.Warnings = append([]string(nil), d.Warnings...)
	return &out
}
