package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// DrawASCII renders the first curve of data as a terminal chart, binned on
// a uniform x grid of width columns, followed by the marker values.
func DrawASCII(data ChartData, width, height int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", strings.ToUpper(data.YLabel)))
	sb.WriteString("  " + strings.Repeat("─", len([]rune(data.YLabel))) + "\n")

	if len(data.Curves) == 0 {
		sb.WriteString("  (no data)\n")
		return sb.String()
	}

	curve := data.Curves[0]
	binned, lo, hi := binByX(curve.X, curve.Y, width)
	if len(binned) == 0 {
		sb.WriteString("  (no finite data)\n")
		return sb.String()
	}

	graph := asciigraph.Plot(binned,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Offset(4),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("%s from %.4g to %.4g", data.XLabel, lo, hi)),
	)
	sb.WriteString(graph)
	sb.WriteString("\n")

	if len(data.Markers) > 0 {
		sb.WriteString("\n  Legend:\n")
		for _, m := range data.Markers {
			sb.WriteString(fmt.Sprintf("  ● %-22s ε = %.5f   σ = %.2f\n", m.Label, m.X, m.Y))
		}
	}
	return sb.String()
}

// binByX groups the points into n equal x intervals and keeps the largest y
// of each. Empty intervals repeat the previous value.
func binByX(x, y []float64, n int) (out []float64, lo, hi float64) {
	if n < 1 {
		n = 1
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range x {
		if i >= len(y) || !finite(x[i]) || !finite(y[i]) {
			continue
		}
		lo = math.Min(lo, x[i])
		hi = math.Max(hi, x[i])
	}
	if math.IsInf(lo, 1) {
		return nil, 0, 0
	}

	bins := make([]float64, n)
	filled := make([]bool, n)
	span := hi - lo
	for i := range x {
		if i >= len(y) || !finite(x[i]) || !finite(y[i]) {
			continue
		}
		k := 0
		if span > 0 {
			k = int(float64(n-1) * (x[i] - lo) / span)
		}
		if !filled[k] || y[i] > bins[k] {
			bins[k] = y[i]
			filled[k] = true
		}
	}

	first := 0
	for first < n && !filled[first] {
		first++
	}
	for k := 0; k < n; k++ {
		if !filled[k] {
			if k < first {
				bins[k] = bins[first]
			} else {
				bins[k] = bins[k-1]
			}
		}
	}
	return bins, lo, hi
}
