// Package smoothing implements Savitzky–Golay polynomial smoothing of
// uniformly sampled signals.
package smoothing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Default window and polynomial order used for force smoothing.
const (
	DefaultWindow = 101
	DefaultOrder  = 3
)

// ErrInvalidFilter is returned for window/order combinations that cannot be
// used with the given signal.
var ErrInvalidFilter = errors.New("smoothing: invalid filter parameters")

// SavitzkyGolay smooths y with a least-squares polynomial of degree order
// fitted over a moving window of window samples.
//
// Samples closer than window/2 to either end are taken from the polynomial
// fitted to the first (or last) full window, so the output has the same
// length as the input.
func SavitzkyGolay(y []float64, window, order int) ([]float64, error) {
	if err := validate(len(y), window, order); err != nil {
		return nil, err
	}

	half := window / 2
	pinv, err := pseudoInverse(window, order)
	if err != nil {
		return nil, err
	}

	n := len(y)
	out := make([]float64, n)

	// Interior: the smoothed value is the fitted polynomial at x = 0, which is
	// the first row of the pseudo-inverse applied to the window
	for i := half; i < n-half; i++ {
		var sum float64
		for k := 0; k < window; k++ {
			sum += pinv.At(0, k) * y[i-half+k]
		}
		out[i] = sum
	}

	// Edges
	first := fitWindow(pinv, y[:window])
	for i := 0; i < half; i++ {
		out[i] = evalPoly(first, scaled(i, half))
	}
	start := n - window
	last := fitWindow(pinv, y[start:])
	for i := half + 1; i < window; i++ {
		out[start+i] = evalPoly(last, scaled(i, half))
	}

	return out, nil
}

func validate(n, window, order int) error {
	if window < 1 || window%2 == 0 {
		return fmt.Errorf("%w: window length %d must be a positive odd number", ErrInvalidFilter, window)
	}
	if order < 0 || order >= window {
		return fmt.Errorf("%w: polynomial order %d must be in [0, %d)", ErrInvalidFilter, order, window)
	}
	if window > n {
		return fmt.Errorf("%w: window length %d exceeds %d samples", ErrInvalidFilter, window, n)
	}
	return nil
}

// pseudoInverse returns the (order+1)×window least-squares operator for a
// polynomial fit over the window positions scaled to [-1, 1].
func pseudoInverse(window, order int) (*mat.Dense, error) {
	half := window / 2
	a := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		x := scaled(i, half)
		for j := 0; j <= order; j++ {
			a.Set(i, j, math.Pow(x, float64(j)))
		}
	}

	id := mat.NewDense(window, window, nil)
	for i := 0; i < window; i++ {
		id.Set(i, i, 1)
	}

	var pinv mat.Dense
	if err := pinv.Solve(a, id); err != nil {
		return nil, fmt.Errorf("smoothing: least-squares operator: %w", err)
	}
	return &pinv, nil
}

// fitWindow returns the polynomial coefficients (lowest degree first) fitted
// to the samples in w.
func fitWindow(pinv *mat.Dense, w []float64) []float64 {
	var coef mat.VecDense
	coef.MulVec(pinv, mat.NewVecDense(len(w), append([]float64(nil), w...)))
	return coef.RawVector().Data
}

func evalPoly(coef []float64, x float64) float64 {
	var v float64
	for j := len(coef) - 1; j >= 0; j-- {
		v = v*x + coef[j]
	}
	return v
}

// scaled maps window position i onto [-1, 1].
func scaled(i, half int) float64 {
	if half == 0 {
		return 0
	}
	return float64(i-half) / float64(half)
}
