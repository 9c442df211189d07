package specimen

import (
	"math"
)

const (
	// OffsetStrain is the plastic strain offset of the Rp0.2 yield point
	OffsetStrain = 0.002

	// DefaultTolerance is the fractional deviation from the elastic trend
	// allowed at the linear limit
	DefaultTolerance = 0.025

	// DefaultStrainCutoff restricts the linear-limit search when the first
	// pass lands above the offset yield stress
	DefaultStrainCutoff = 0.02

	// linearLimitStrainCap bounds the restricted linear-limit search
	// regardless of the cutoff
	linearLimitStrainCap = 0.04
)

// Point is one sample of the engineering stress–strain curve.
type Point struct {
	Index  int
	Strain float64
	Stress float64 // MPa
}

// Ultimate is the maximum engineering stress. Strains lists the strain of
// every sample that reaches it; Point is the first of them.
type Ultimate struct {
	Point
	Strains []float64
}

// Ultimate finds the maximum engineering stress. NaN samples are ignored.
func (d *Derived) Ultimate() (Ultimate, error) {
	if err := d.ready(); err != nil {
		return Ultimate{}, err
	}

	best := math.Inf(-1)
	for _, s := range d.StressEng {
		if s > best {
			best = s
		}
	}
	if math.IsInf(best, -1) {
		return Ultimate{}, notFound("ultimate strength")
	}

	u := Ultimate{Point: Point{Index: -1, Stress: best}}
	for i, s := range d.StressEng {
		if s == best {
			if u.Index < 0 {
				u.Index = i
				u.Strain = d.StrainEng[i]
			}
			u.Strains = append(u.Strains, d.StrainEng[i])
		}
	}
	return u, nil
}

// OffsetYield finds the Rp0.2 point: the first sample at which
// trend(strain-0.002) - stress changes sign with respect to the previous
// sample. Samples where the difference is NaN are skipped.
func (f *Fitted) OffsetYield() (Point, error) {
	if err := f.ready(); err != nil {
		return Point{}, err
	}

	var prev float64
	havePrev := false
	for i, e := range f.StrainEng {
		diff := f.Trend.At(e-OffsetStrain) - f.StressEng[i]
		if math.IsNaN(diff) {
			continue
		}
		s := sign(diff)
		if havePrev && s != prev {
			return Point{Index: i, Strain: e, Stress: f.StressEng[i]}, nil
		}
		prev, havePrev = s, true
	}
	return Point{}, notFound("0.2% offset yield")
}

// LinearLimit finds the last sample whose stress deviates from the elastic
// trend by less than tolerance (|trend-stress|/stress). When that sample
// lies above the offset yield stress, large strains have spuriously met the
// tolerance and the search is repeated over strain < cutoff, capped at 0.04.
// yield must be the result of OffsetYield on the same record.
func (f *Fitted) LinearLimit(tolerance, cutoff float64, yield Point) (Point, error) {
	if err := f.ready(); err != nil {
		return Point{}, err
	}
	if !(tolerance > 0) {
		return Point{}, invalid("tolerance", "must be positive, got %g", tolerance)
	}
	if !f.isSample(yield) {
		return Point{}, notReady("0.2% offset yield has not been computed")
	}

	idx := f.lastWithin(tolerance, func(float64) bool { return true })
	if idx < 0 {
		return Point{}, notFound("linear limit")
	}
	if f.StressEng[idx] > yield.Stress {
		idx = f.lastWithin(tolerance, func(e float64) bool {
			return e < cutoff && e < linearLimitStrainCap
		})
		if idx < 0 {
			return Point{}, notFound("linear limit")
		}
	}
	return Point{Index: idx, Strain: f.StrainEng[idx], Stress: f.StressEng[idx]}, nil
}

// isSample reports whether p is a sample of the record past the first one,
// which every point found by OffsetYield is.
func (f *Fitted) isSample(p Point) bool {
	if p.Index < 1 || p.Index >= f.Samples() {
		return false
	}
	return f.StrainEng[p.Index] == p.Strain && f.StressEng[p.Index] == p.Stress
}

func (f *Fitted) lastWithin(tolerance float64, keep func(strain float64) bool) int {
	last := -1
	for i, e := range f.StrainEng {
		if !keep(e) {
			continue
		}
		s := f.StressEng[i]
		if math.Abs(f.Trend.At(e)-s)/s < tolerance {
			last = i
		}
	}
	return last
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
