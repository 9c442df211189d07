package smoothing_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gotensile/internal/smoothing"
)

func cubic(x float64) float64 {
	return 1 + 2*x - 0.3*x*x + 0.05*x*x*x
}

// TestCubicIsPreserved checks that a polynomial of the filter order passes
// through unchanged, including the edge samples.
func TestCubicIsPreserved(t *testing.T) {
	n := 200
	y := make([]float64, n)
	for i := range y {
		y[i] = cubic(float64(i) * 0.05)
	}

	out, err := smoothing.SavitzkyGolay(y, 21, 3)
	require.NoError(t, err)
	require.Len(t, out, n)
	for i := range y {
		assert.InDelta(t, y[i], out[i], 1e-8, "sample %d", i)
	}
}

// TestDefaultsOnLongSignal runs the default 101/3 filter over a constant
// signal with an alternating disturbance.
func TestDefaultsOnLongSignal(t *testing.T) {
	n := 1000
	y := make([]float64, n)
	for i := range y {
		y[i] = 5
		if i%2 == 0 {
			y[i] += 0.1
		} else {
			y[i] -= 0.1
		}
	}

	out, err := smoothing.SavitzkyGolay(y, smoothing.DefaultWindow, smoothing.DefaultOrder)
	require.NoError(t, err)
	for i := smoothing.DefaultWindow / 2; i < n-smoothing.DefaultWindow/2; i++ {
		assert.Less(t, math.Abs(out[i]-5), 0.01, "sample %d", i)
	}
}

// TestWindowOfOne returns the input unchanged.
func TestWindowOfOne(t *testing.T) {
	y := []float64{3, 1, 4, 1, 5}
	out, err := smoothing.SavitzkyGolay(y, 1, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, y, out, 1e-12)
}

func TestInvalidParameters(t *testing.T) {
	y := make([]float64, 50)
	cases := []struct {
		name          string
		window, order int
	}{
		{"even window", 20, 3},
		{"order equals window", 5, 5},
		{"negative order", 5, -1},
		{"window exceeds samples", 51, 3},
		{"zero window", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := smoothing.SavitzkyGolay(y, tc.window, tc.order)
			require.ErrorIs(t, err, smoothing.ErrInvalidFilter)
		})
	}
}
