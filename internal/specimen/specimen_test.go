package specimen_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/alexiusacademia/gotensile/internal/smoothing"
	"github.com/alexiusacademia/gotensile/internal/specimen"
	"github.com/alexiusacademia/gotensile/internal/units"
)

// bilinear returns a steel-like curve: E = 200 GPa up to 0.2 % strain, then
// linear hardening at 1 GPa. When returnAt > 0 the stress jumps back onto the
// elastic line for strains >= returnAt.
func bilinear(maxStrain float64, n int, returnAt float64) (strain, stress []float64) {
	strain = linspace(0, maxStrain, n)
	stress = make([]float64, n)
	for i, e := range strain {
		switch {
		case e <= 0.002:
			stress[i] = 200000 * e
		case returnAt > 0 && e >= returnAt:
			stress[i] = 200000 * e
		default:
			stress[i] = 400 + 1000*(e-0.002)
		}
	}
	return strain, stress
}

// derive builds a Derived stage with area0 = length0 = 1 so that strain and
// stress equal the given displacement and force.
func derive(t *testing.T, strain, stress []float64) *specimen.Derived {
	t.Helper()
	raw, err := specimen.New("test", strain, stress, 1, 1)
	require.NoError(t, err)
	norm, err := raw.Normalize(units.MPa)
	require.NoError(t, err)
	d, err := norm.Derive()
	require.NoError(t, err)
	return d
}

// exampleRaw is the synthetic linear data set.
func exampleRaw(t *testing.T) *specimen.Raw {
	t.Helper()
	raw, err := specimen.New("Simple test case", linspace(0, 1, 10001), linspace(0, 1000, 10001), 10, 10)
	require.NoError(t, err)
	return raw
}

type StageSuite struct {
	suite.Suite
}

func TestStageSuite(t *testing.T) {
	suite.Run(t, new(StageSuite))
}

// TestNormalizeConvertsMetersAndKilonewtons checks the ×1000 conversions and
// the resulting unit tags.
func (s *StageSuite) TestNormalizeConvertsMetersAndKilonewtons() {
	raw := &specimen.Raw{
		Title:     "si",
		Disp:      []float64{0, 0.001, 0.002},
		Force:     []float64{0, 1.5, 3},
		DispUnit:  units.Meter,
		ForceUnit: units.Kilonewton,
		Area0:     10,
		Length0:   10,
	}

	norm, err := raw.Normalize(units.MPa)
	s.Require().NoError(err)
	s.InDeltaSlice([]float64{0, 1, 2}, norm.Disp, 1e-12)
	s.InDeltaSlice([]float64{0, 1500, 3000}, norm.Force, 1e-9)
	s.Equal(units.Millimeter, norm.DispUnit)
	s.Equal(units.Newton, norm.ForceUnit)

	// input untouched
	s.Equal([]float64{0, 0.001, 0.002}, raw.Disp)
	s.Equal(units.Kilonewton, raw.ForceUnit)
}

func (s *StageSuite) TestNormalizeIsNoOpInTargetUnits() {
	raw, err := specimen.New("mm", []float64{0, 1}, []float64{0, 10}, 1, 1)
	s.Require().NoError(err)

	norm, err := raw.Normalize(units.MPa)
	s.Require().NoError(err)
	s.Equal(raw.Disp, norm.Disp)
	s.Equal(raw.Force, norm.Force)
}

func (s *StageSuite) TestNormalizeRejectsUnknownUnits() {
	raw, err := specimen.New("bad", []float64{0, 1}, []float64{0, 10}, 1, 1)
	s.Require().NoError(err)

	_, err = raw.Normalize("psi")
	s.ErrorIs(err, specimen.ErrInvalidInput)

	raw.ForceUnit = "lbf"
	_, err = raw.Normalize(units.MPa)
	s.ErrorIs(err, specimen.ErrInvalidInput)
}

func (s *StageSuite) TestNewValidatesShape() {
	_, err := specimen.New("x", []float64{0, 1}, []float64{0}, 1, 1)
	s.ErrorIs(err, specimen.ErrInvalidInput)

	_, err = specimen.New("x", nil, nil, 1, 1)
	s.ErrorIs(err, specimen.ErrInvalidInput)

	_, err = specimen.New("x", []float64{0}, []float64{0}, 0, 1)
	s.ErrorIs(err, specimen.ErrInvalidInput)
}

// TestExampleEndToEnd runs the synthetic data set through derivation, fit and
// ultimate strength.
func (s *StageSuite) TestExampleEndToEnd() {
	norm, err := exampleRaw(s.T()).Normalize(units.MPa)
	s.Require().NoError(err)
	d, err := norm.Derive()
	s.Require().NoError(err)

	last := d.Samples() - 1
	s.InDelta(0, d.StressEng[0], 1e-12)
	s.InDelta(100, d.StressEng[last], 1e-9)
	s.InDelta(0, d.StrainEng[0], 1e-12)
	s.InDelta(0.1, d.StrainEng[last], 1e-12)
	s.Len(d.Modulus, d.Samples()-1)
	s.Len(d.Area, d.Samples())

	s.Empty(d.Warnings)

	f, err := d.FitElastic(0, 0.1)
	s.Require().NoError(err)
	s.InDelta(1000, f.YoungsModulus, 1e-6)

	u, err := d.Ultimate()
	s.Require().NoError(err)
	s.InDelta(100, u.Stress, 1e-9)
	s.Equal(last, u.Index)
	s.InDelta(0.1, u.Strain, 1e-12)
	s.Len(u.Strains, 1)

	_, err = f.OffsetYield()
	s.ErrorIs(err, specimen.ErrFeatureNotFound, "a straight line never crosses its offset")
}

func (s *StageSuite) TestFitRecoversYoungsModulus() {
	strain := linspace(0, 0.01, 100)
	stress := make([]float64, len(strain))
	for i, e := range strain {
		stress[i] = 200000 * e
	}

	f, err := derive(s.T(), strain, stress).FitElastic(0, 0.01)
	s.Require().NoError(err)
	s.InEpsilon(200000, f.YoungsModulus, 1e-9)
	s.InEpsilon(200000, f.Trend.Slope, 1e-9)
	s.InDelta(0, f.Trend.Intercept, 1e-6)
}

func (s *StageSuite) TestFitNeedsTwoSamples() {
	strain := []float64{0, 0.001, 0.002, 0.003}
	stress := []float64{0, 200, 400, 600}
	d := derive(s.T(), strain, stress)

	_, err := d.FitElastic(0.0005, 0.0015)
	s.ErrorIs(err, specimen.ErrInvalidInput)

	_, err = d.FitElastic(0.002, 0.001)
	s.ErrorIs(err, specimen.ErrInvalidInput)

	// window bounds are exclusive
	_, err = d.FitElastic(0.001, 0.002)
	s.ErrorIs(err, specimen.ErrInvalidInput)
}

func (s *StageSuite) TestUltimateReportsTies() {
	strain := []float64{0, 0.01, 0.02, 0.03, 0.04}
	stress := []float64{0, 300, 350, 350, 320}

	u, err := derive(s.T(), strain, stress).Ultimate()
	s.Require().NoError(err)
	s.Equal(350.0, u.Stress)
	s.Equal(2, u.Index)
	s.InDelta(0.02, u.Strain, 1e-12)
	s.InDeltaSlice([]float64{0.02, 0.03}, u.Strains, 1e-12)
}

func (s *StageSuite) TestOffsetYieldOnBilinearCurve() {
	strain, stress := bilinear(0.02, 2001, 0)
	f, err := derive(s.T(), strain, stress).FitElastic(0, 0.0015)
	s.Require().NoError(err)

	y, err := f.OffsetYield()
	s.Require().NoError(err)
	// 200000(ε-0.002) = 400 + 1000(ε-0.002) at ε ≈ 0.0040101; the next
	// sample is reported
	s.Equal(402, y.Index)
	s.InDelta(0.00402, y.Strain, 1e-9)
	s.InDelta(402.02, y.Stress, 1e-6)
}

func (s *StageSuite) TestOffsetYieldNotFoundOnConstantStress() {
	strain := linspace(0, 0.05, 501)
	stress := make([]float64, len(strain))
	for i := range stress {
		stress[i] = 250
	}
	f, err := derive(s.T(), strain, stress).FitElastic(0, 0.05)
	s.Require().NoError(err)

	_, err = f.OffsetYield()
	s.Require().ErrorIs(err, specimen.ErrFeatureNotFound)
	s.Contains(err.Error(), "0.2% offset yield")
}

func (s *StageSuite) TestLinearLimitSinglePass() {
	strain, stress := bilinear(0.02, 2001, 0)
	f, err := derive(s.T(), strain, stress).FitElastic(0, 0.0015)
	s.Require().NoError(err)
	y, err := f.OffsetYield()
	s.Require().NoError(err)

	lin, err := f.LinearLimit(specimen.DefaultTolerance, specimen.DefaultStrainCutoff, y)
	s.Require().NoError(err)
	// deviation 199000(ε-0.002)/σ stays below 0.025 up to ε-0.002 ≈ 5.03e-5
	s.Equal(205, lin.Index)
	s.InDelta(0.00205, lin.Strain, 1e-9)
	s.Less(lin.Stress, y.Stress)
}

func (s *StageSuite) TestLinearLimitNeedsOffsetYield() {
	strain, stress := bilinear(0.02, 2001, 0)
	f, err := derive(s.T(), strain, stress).FitElastic(0, 0.0015)
	s.Require().NoError(err)

	_, err = f.LinearLimit(specimen.DefaultTolerance, specimen.DefaultStrainCutoff, specimen.Point{})
	s.ErrorIs(err, specimen.ErrStageNotReady)

	forged := specimen.Point{Index: 300, Strain: strain[300], Stress: stress[300] + 1}
	_, err = f.LinearLimit(specimen.DefaultTolerance, specimen.DefaultStrainCutoff, forged)
	s.ErrorIs(err, specimen.ErrStageNotReady)

	outside := specimen.Point{Index: len(strain), Strain: 1, Stress: 1}
	_, err = f.LinearLimit(specimen.DefaultTolerance, specimen.DefaultStrainCutoff, outside)
	s.ErrorIs(err, specimen.ErrStageNotReady)
}

// TestLinearLimitFallsBackBelowCutoff uses a curve that meets the elastic
// line again at large strain, above the yield stress.
func (s *StageSuite) TestLinearLimitFallsBackBelowCutoff() {
	strain, stress := bilinear(0.05, 5001, 0.045)
	f, err := derive(s.T(), strain, stress).FitElastic(0, 0.0015)
	s.Require().NoError(err)
	y, err := f.OffsetYield()
	s.Require().NoError(err)

	lin, err := f.LinearLimit(specimen.DefaultTolerance, specimen.DefaultStrainCutoff, y)
	s.Require().NoError(err)
	s.Equal(205, lin.Index)

	lin, err = f.LinearLimit(specimen.DefaultTolerance, 0.001, y)
	s.Require().NoError(err)
	s.Equal(99, lin.Index)

	_, err = f.LinearLimit(specimen.DefaultTolerance, 0, y)
	s.ErrorIs(err, specimen.ErrFeatureNotFound)

	_, err = f.LinearLimit(0, specimen.DefaultStrainCutoff, y)
	s.ErrorIs(err, specimen.ErrInvalidInput)
}

func (s *StageSuite) TestZeroStrainShiftsStrainAndTrend() {
	strain := linspace(0, 0.01, 1001)
	stress := make([]float64, len(strain))
	for i, e := range strain {
		stress[i] = 200000 * (e + 0.001)
	}
	f, err := derive(s.T(), strain, stress).FitElastic(0, 0.01)
	s.Require().NoError(err)

	z, err := f.ZeroStrain()
	s.Require().NoError(err)
	s.InDelta(0.001, z.Strain0, 1e-9)
	s.True(z.ZeroCorrected)
	s.InDelta(0.001, z.StrainEng[0], 1e-9)
	s.InDelta(0.011, z.StrainEng[len(strain)-1], 1e-9)
	s.InDelta(0, z.Trend.Intercept, 1e-6)
	for i, e := range z.StrainEng {
		s.InDelta(stress[i], z.Trend.At(e), 1e-6)
		s.InDelta(stress[i]*(1+e), z.StressTrue[i], 1e-6)
	}

	// the fitted stage is unchanged
	s.Equal(0.0, f.StrainEng[0])
	s.False(f.ZeroCorrected)

	_, err = z.ZeroStrain()
	s.ErrorIs(err, specimen.ErrInvalidInput)
}

func (s *StageSuite) TestZeroStrainRejectsNonFiniteOffset() {
	strain := linspace(0, 0.01, 101)
	stress := make([]float64, len(strain))
	for i, e := range strain {
		stress[i] = 200000 * e
	}
	stress[0] = math.NaN()
	f, err := derive(s.T(), strain, stress).FitElastic(0, 0.01)
	s.Require().NoError(err)

	_, err = f.ZeroStrain()
	s.Require().ErrorIs(err, specimen.ErrInvalidInput)
	var verr *specimen.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("strain0", verr.Field)
}

func (s *StageSuite) TestTruncateByDisplacement() {
	raw := exampleRaw(s.T())
	orig := append([]float64(nil), raw.Disp...)

	cut, err := raw.TruncateBy(specimen.FieldDisp, 0.5)
	s.Require().NoError(err)

	want := 0
	for _, d := range orig {
		if d < 0.5 {
			want++
		}
	}
	s.Equal(want, cut.Samples())
	s.Len(cut.Force, want)
	for _, d := range cut.Disp {
		s.Less(d, 0.5)
	}
	s.Equal(orig, cut.DispAll)
	s.Equal(raw.Force, cut.ForceAll)
	s.Equal(len(orig), cut.SamplesAll)
	s.Equal(orig, raw.Disp, "input must not change")

	_, err = raw.TruncateBy("force", 100)
	s.ErrorIs(err, specimen.ErrInvalidInput)

	_, err = raw.TruncateBy(specimen.FieldDisp, 0)
	s.ErrorIs(err, specimen.ErrInvalidInput)
}

func (s *StageSuite) TestSmoothForceKeepsRawForce() {
	raw := exampleRaw(s.T())

	sm, err := raw.SmoothForce(smoothing.DefaultWindow, smoothing.DefaultOrder)
	s.Require().NoError(err)
	s.Equal(raw.Force, sm.ForceRaw)
	s.InDeltaSlice(raw.Force, sm.Force, 1e-6, "a straight line is not changed by smoothing")

	cut, err := sm.TruncateBy(specimen.FieldDisp, 0.5)
	s.Require().NoError(err)
	s.Len(cut.ForceRaw, cut.Samples())

	_, err = raw.SmoothForce(100, 3)
	s.ErrorIs(err, specimen.ErrInvalidInput)
	s.ErrorIs(err, smoothing.ErrInvalidFilter)
}

func (s *StageSuite) TestDeriveWarnsOnNonFiniteValues() {
	raw, err := specimen.New("slack", []float64{-10, 0, 0, 1}, []float64{0, 1, 2, 3}, 1, 10)
	s.Require().NoError(err)
	norm, err := raw.Normalize(units.MPa)
	s.Require().NoError(err)

	d, err := norm.Derive()
	s.Require().NoError(err)
	s.NotEmpty(d.Warnings)
	s.Contains(d.Warnings[0], "true strain")
}

func (s *StageSuite) TestStageNotReady() {
	_, err := (&specimen.Derived{}).FitElastic(0, 0.1)
	s.ErrorIs(err, specimen.ErrStageNotReady)

	_, err = (&specimen.Fitted{}).OffsetYield()
	s.ErrorIs(err, specimen.ErrStageNotReady)

	_, err = (&specimen.Derived{}).Ultimate()
	s.ErrorIs(err, specimen.ErrStageNotReady)

	var nilFitted *specimen.Fitted
	_, err = nilFitted.Extract(specimen.DefaultExtractOptions())
	s.ErrorIs(err, specimen.ErrStageNotReady)

	norm := &specimen.Normalized{Raw: specimen.Raw{
		Disp: []float64{0, 1}, Force: []float64{0, 1},
		DispUnit: units.Millimeter, ForceUnit: units.Kilonewton,
		Area0: 1, Length0: 1,
	}}
	_, err = norm.Derive()
	s.ErrorIs(err, specimen.ErrStageNotReady)
}

func (s *StageSuite) TestProcessBilinear() {
	strain, stress := bilinear(0.05, 5001, 0)
	raw, err := specimen.New("steel", strain, stress, 1, 1)
	s.Require().NoError(err)

	opts := specimen.DefaultOptions()
	opts.FitHigh = 0.0015

	a, err := specimen.Process(raw, opts)
	s.Require().NoError(err)
	p := a.Properties
	s.InEpsilon(200000, p.YoungsModulus, 1e-6)
	s.Equal(402, p.OffsetYield.Index)
	s.Equal(205, p.LinearLimit.Index)
	s.Equal(5000, p.Ultimate.Index)
	s.Equal(5000, p.Break.Index)
	s.InDelta(0, p.Initial.Stress, 1e-12)
	s.InDelta(400+1000*0.048, p.Break.Stress, 1e-6)
}

func (s *StageSuite) TestProcessWithTruncationAndSmoothing() {
	strain, stress := bilinear(0.05, 5001, 0.045)
	raw, err := specimen.New("steel", strain, stress, 1, 1)
	s.Require().NoError(err)

	opts := specimen.DefaultOptions()
	opts.FitHigh = 0.0015
	opts.TruncateAt = 0.03
	opts.Smooth = true
	opts.SmoothWindow = 5
	opts.SmoothOrder = 1

	a, err := specimen.Process(raw, opts)
	s.Require().NoError(err)
	s.Less(a.Properties.Break.Strain, 0.03)
	s.Len(a.DispAll, 5001)
	s.Len(a.ForceRaw, a.Samples())
}

func (s *StageSuite) TestProcessReportsMissingYield() {
	_, err := specimen.Process(exampleRaw(s.T()), specimen.DefaultOptions())
	s.ErrorIs(err, specimen.ErrFeatureNotFound)
}
