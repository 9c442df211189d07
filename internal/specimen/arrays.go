package specimen

import (
	"fmt"
	"math"
)

// EngineeringStress returns force/area0 for every sample.
func EngineeringStress(force []float64, area0 float64) ([]float64, error) {
	if !(area0 > 0) {
		return nil, invalid("area0", "initial area must be positive, got %g", area0)
	}
	stress := make([]float64, len(force))
	for i, f := range force {
		stress[i] = f / area0
	}
	return stress, nil
}

// EngineeringStrain returns disp/length0 for every sample.
func EngineeringStrain(disp []float64, length0 float64) ([]float64, error) {
	if !(length0 > 0) {
		return nil, invalid("length0", "initial gauge length must be positive, got %g", length0)
	}
	strain := make([]float64, len(disp))
	for i, d := range disp {
		strain[i] = d / length0
	}
	return strain, nil
}

// TrueStrain returns ln(1+ε) for every engineering strain ε. Samples with
// ε <= -1 produce -Inf or NaN.
func TrueStrain(strainEng []float64) []float64 {
	out := make([]float64, len(strainEng))
	for i, e := range strainEng {
		out[i] = math.Log1p(e)
	}
	return out
}

// TrueStress returns σ(1+ε) for every sample.
func TrueStress(stressEng, strainEng []float64) ([]float64, error) {
	if err := sameLength("strainEng", len(stressEng), len(strainEng)); err != nil {
		return nil, err
	}
	out := make([]float64, len(stressEng))
	for i := range stressEng {
		out[i] = stressEng[i] * (1 + strainEng[i])
	}
	return out, nil
}

// InstantaneousArea returns area0/(1+ε), the cross-section of an
// incompressible specimen at every sample.
func InstantaneousArea(area0 float64, strainEng []float64) ([]float64, error) {
	if !(area0 > 0) {
		return nil, invalid("area0", "initial area must be positive, got %g", area0)
	}
	out := make([]float64, len(strainEng))
	for i, e := range strainEng {
		out[i] = area0 / (1 + e)
	}
	return out, nil
}

// InstantaneousModulus returns the secant modulus between adjacent samples.
// The result has one entry less than the inputs; a zero strain increment
// yields ±Inf or NaN.
func InstantaneousModulus(stress, strain []float64) ([]float64, error) {
	if err := sameLength("strain", len(stress), len(strain)); err != nil {
		return nil, err
	}
	if len(stress) < 2 {
		return []float64{}, nil
	}
	out := make([]float64, len(stress)-1)
	for i := range out {
		out[i] = (stress[i+1] - stress[i]) / (strain[i+1] - strain[i])
	}
	return out, nil
}

func sameLength(field string, want, got int) error {
	if want != got {
		return invalid(field, "length %d does not match sample count %d", got, want)
	}
	return nil
}

// nonFinite counts NaN and ±Inf entries.
func nonFinite(xs []float64) int {
	n := 0
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			n++
		}
	}
	return n
}

func nonFiniteWarning(name string, xs []float64) (string, bool) {
	n := nonFinite(xs)
	if n == 0 {
		return "", false
	}
	return fmt.Sprintf("%s contains %d non-finite value(s) of %d", name, n, len(xs)), true
}
