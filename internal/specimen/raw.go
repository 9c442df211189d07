// Package specimen holds a uniaxial tensile test as a chain of immutable
// stages, from the raw force–displacement record to the extracted material
// properties:
//
//	Raw ──Normalize──► Normalized ──Derive──► Derived ──FitElastic──► Fitted ──Extract──► Analyzed
//
// Every stage is produced from the previous one and never mutated, so a
// later operation cannot run on data that has not been computed yet.
package specimen

import (
	"fmt"

	"github.com/alexiusacademia/gotensile/internal/smoothing"
	"github.com/alexiusacademia/gotensile/internal/units"
)

// FieldDisp is the only field TruncateBy accepts.
const FieldDisp = "disp"

// Raw is a force–displacement record as measured.
type Raw struct {
	Title   string
	Machine string // Test machine label, informational only

	Disp      []float64
	Force     []float64
	DispUnit  string // mm or m
	ForceUnit string // N or kN

	Area0   float64 // Initial cross-sectional area (mm²)
	Length0 float64 // Initial gauge length (mm)

	// Full record before TruncateBy, nil if never truncated
	DispAll    []float64
	ForceAll   []float64
	SamplesAll int

	// Force before SmoothForce, nil if never smoothed
	ForceRaw []float64
}

// New creates a raw record in mm and N and validates it.
func New(title string, disp, force []float64, area0, length0 float64) (*Raw, error) {
	r := &Raw{
		Title:     title,
		Disp:      disp,
		Force:     force,
		DispUnit:  units.Millimeter,
		ForceUnit: units.Newton,
		Area0:     area0,
		Length0:   length0,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Samples returns the number of samples in the record.
func (r *Raw) Samples() int {
	return len(r.Disp)
}

// Validate checks the record's geometry and array shapes.
func (r *Raw) Validate() error {
	if r == nil {
		return notReady("raw record is nil")
	}
	if len(r.Disp) == 0 {
		return invalid("disp", "record has no samples")
	}
	if err := sameLength("force", len(r.Disp), len(r.Force)); err != nil {
		return err
	}
	if r.ForceRaw != nil {
		if err := sameLength("forceRaw", len(r.Disp), len(r.ForceRaw)); err != nil {
			return err
		}
	}
	if len(r.DispAll) != len(r.ForceAll) {
		return invalid("forceAll", "length %d does not match dispAll length %d", len(r.ForceAll), len(r.DispAll))
	}
	if !(r.Area0 > 0) {
		return invalid("area0", "initial area must be positive, got %g", r.Area0)
	}
	if !(r.Length0 > 0) {
		return invalid("length0", "initial gauge length must be positive, got %g", r.Length0)
	}
	return nil
}

// Normalize converts displacement and force into the units of system.
// Only units.MPa (mm, N) is supported.
func (r *Raw) Normalize(system string) (*Normalized, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	dispFactor, err := units.DisplacementFactor(r.DispUnit, system)
	if err != nil {
		return nil, invalid("dispUnit", "%v", err)
	}
	forceFactor, err := units.ForceFactor(r.ForceUnit, system)
	if err != nil {
		return nil, invalid("forceUnit", "%v", err)
	}
	dispUnit, forceUnit, _ := units.Target(system)

	out := r.clone()
	scale(out.Disp, dispFactor)
	scale(out.DispAll, dispFactor)
	scale(out.Force, forceFactor)
	scale(out.ForceAll, forceFactor)
	scale(out.ForceRaw, forceFactor)
	out.DispUnit = dispUnit
	out.ForceUnit = forceUnit

	return &Normalized{Raw: *out}, nil
}

// TruncateBy keeps the samples whose field is strictly below value. The
// untruncated arrays are kept in DispAll and ForceAll; a record that was
// already truncated keeps its first full copy.
func (r *Raw) TruncateBy(field string, value float64) (*Raw, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if field != FieldDisp {
		return nil, invalid("field", "cannot truncate by %q, only %q is supported", field, FieldDisp)
	}

	out := r.clone()
	if out.DispAll == nil {
		out.DispAll = clone(r.Disp)
		out.ForceAll = clone(r.Force)
		out.SamplesAll = r.Samples()
	}

	out.Disp = out.Disp[:0]
	out.Force = out.Force[:0]
	var forceRaw []float64
	for i, d := range r.Disp {
		if d < value {
			out.Disp = append(out.Disp, d)
			out.Force = append(out.Force, r.Force[i])
			if r.ForceRaw != nil {
				forceRaw = append(forceRaw, r.ForceRaw[i])
			}
		}
	}
	if len(out.Disp) == 0 {
		return nil, invalid("value", "no sample has %s < %g", field, value)
	}
	if r.ForceRaw != nil {
		out.ForceRaw = forceRaw
	}
	return out, nil
}

// SmoothForce replaces the force with its Savitzky–Golay smoothed version
// and keeps the previous force in ForceRaw.
func (r *Raw) SmoothForce(window, order int) (*Raw, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	smoothed, err := smoothing.SavitzkyGolay(r.Force, window, order)
	if err != nil {
		return nil, fmt.Errorf("%w: force smoothing: %w", ErrInvalidInput, err)
	}
	out := r.clone()
	out.ForceRaw = clone(r.Force)
	out.Force = smoothed
	return out, nil
}

func (r *Raw) clone() *Raw {
	out := *r
	out.Disp = clone(r.Disp)
	out.Force = clone(r.Force)
	out.DispAll = clone(r.DispAll)
	out.ForceAll = clone(r.ForceAll)
	out.ForceRaw = clone(r.ForceRaw)
	return &out
}

// Normalized is a raw record whose units are mm and N.
type Normalized struct {
	Raw
}

// TruncateBy is Raw.TruncateBy on normalized data.
func (n *Normalized) TruncateBy(field string, value float64) (*Normalized, error) {
	if n == nil {
		return nil, notReady("normalized record is nil")
	}
	r, err := n.Raw.TruncateBy(field, value)
	if err != nil {
		return nil, err
	}
	return &Normalized{Raw: *r}, nil
}

// SmoothForce is Raw.SmoothForce on normalized data.
func (n *Normalized) SmoothForce(window, order int) (*Normalized, error) {
	if n == nil {
		return nil, notReady("normalized record is nil")
	}
	r, err := n.Raw.SmoothForce(window, order)
	if err != nil {
		return nil, err
	}
	return &Normalized{Raw: *r}, nil
}

func clone(xs []float64) []float64 {
	if xs == nil {
		return nil
	}
	return append([]float64(nil), xs...)
}

func scale(xs []float64, c float64) {
	if c == 1 {
		return
	}
	for i := range xs {
		xs[i] *= c
	}
}
