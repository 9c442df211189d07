package diagram

import (
	"gonum.org/v1/gonum/floats"

	"github.com/alexiusacademia/gotensile/internal/specimen"
)

const (
	labelForce      = "Force F [N]"
	labelDisp       = "Displacement u [mm]"
	labelStressEng  = "Engineering stress σ_Eng [MPa]"
	labelStrainEng  = "Engineering strain ε_Eng [-]"
	labelStressTrue = "True stress σ_True [MPa]"
	labelStrainTrue = "True strain ε_True [-]"
)

// ForceDisplacement charts the record's force over displacement.
func ForceDisplacement(r *specimen.Normalized) ChartData {
	return ChartData{
		Title:  r.Title,
		XLabel: labelDisp,
		YLabel: labelForce,
		Curves: []Series{{Label: "Force", X: r.Disp, Y: r.Force}},
	}
}

// ForceDisplacementSmoothRaw overlays the full raw record on the truncated
// and smoothed one. Falls back to the current arrays when the record was
// never truncated or smoothed.
func ForceDisplacementSmoothRaw(r *specimen.Normalized) ChartData {
	rawX, rawY := r.DispAll, r.ForceAll
	if rawX == nil {
		rawX = r.Disp
		rawY = r.Force
		if r.ForceRaw != nil {
			rawY = r.ForceRaw
		}
	}
	return ChartData{
		Title:  r.Title,
		XLabel: labelDisp,
		YLabel: labelForce,
		Curves: []Series{
			{Label: "Raw data", X: rawX, Y: rawY},
			{Label: "Smoothed and cut", X: r.Disp, Y: r.Force},
		},
	}
}

// StressStrainEng charts engineering stress over engineering strain.
func StressStrainEng(d *specimen.Derived) ChartData {
	return ChartData{
		Title:  d.Title,
		XLabel: labelStrainEng,
		YLabel: labelStressEng,
		Curves: []Series{{Label: "Engineering", X: d.StrainEng, Y: d.StressEng}},
	}
}

// StressStrainTrue charts true stress over true strain.
func StressStrainTrue(d *specimen.Derived) ChartData {
	return ChartData{
		Title:  d.Title,
		XLabel: labelStrainTrue,
		YLabel: labelStressTrue,
		Curves: []Series{{Label: "True", X: d.StrainTrue, Y: d.StressTrue}},
	}
}

// StressStrainEngTrue overlays the engineering and true curves.
func StressStrainEngTrue(d *specimen.Derived) ChartData {
	return ChartData{
		Title:  d.Title,
		XLabel: "Strain ε [-]",
		YLabel: "Stress σ [MPa]",
		Curves: []Series{
			{Label: "Engineering stress–strain", X: d.StrainEng, Y: d.StressEng},
			{Label: "True stress–strain", X: d.StrainTrue, Y: d.StressTrue},
		},
	}
}

// OffsetYield charts the engineering curve with the elastic trend, the
// 0.2 % offset line and the extracted property points.
func OffsetYield(a *specimen.Analyzed, xMax, yMax float64) ChartData {
	p := a.Properties
	maxStrain := floats.Max(a.StrainEng)

	return ChartData{
		Title:  a.Title,
		XLabel: labelStrainEng,
		YLabel: labelStressEng,
		XMax:   xMax,
		YMax:   yMax,
		Curves: []Series{{Label: "Material behavior", X: a.StrainEng, Y: a.StressEng}},
		References: []Series{
			{
				Label: "Young's modulus",
				X:     []float64{0, maxStrain},
				Y:     []float64{a.Trend.At(0), a.Trend.At(maxStrain)},
			},
			{
				Label: "0.2% offset",
				X:     []float64{specimen.OffsetStrain, maxStrain},
				Y:     []float64{a.Trend.At(0), a.Trend.At(maxStrain - specimen.OffsetStrain)},
			},
		},
		Markers: []Marker{
			{Label: "Initial state of test", X: p.Initial.Strain, Y: p.Initial.Stress},
			{Label: "Rp0.2", X: p.OffsetYield.Strain, Y: p.OffsetYield.Stress},
			{Label: "Linear limit", X: p.LinearLimit.Strain, Y: p.LinearLimit.Stress},
			{Label: "Ultimate strength", X: p.Ultimate.Strain, Y: p.Ultimate.Stress},
			{Label: "Break", X: p.Break.Strain, Y: p.Break.Stress},
		},
	}
}

// Comparison overlays the engineering curves of several specimens.
func Comparison(title string, specimens []*specimen.Analyzed, xMax, yMax float64) ChartData {
	c := ChartData{
		Title:  title,
		XLabel: labelStrainEng,
		YLabel: labelStressEng,
		XMax:   xMax,
		YMax:   yMax,
	}
	for _, s := range specimens {
		if s == nil {
			continue
		}
		c.Curves = append(c.Curves, Series{Label: s.Title, X: s.StrainEng, Y: s.StressEng})
	}
	return c
}
