package diagram

import (
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Export draws the chart to filename. The format follows the extension
// (.png, .svg, .pdf); any other extension gets .png appended.
func Export(data ChartData, filename string) error {
	if err := data.Validate(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = data.Title
	p.X.Label.Text = data.XLabel
	p.Y.Label.Text = data.YLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, s := range data.Curves {
		pts := toXYs(s.X, s.Y)
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		if s.Label != "" {
			p.Legend.Add(s.Label, line)
		}
	}

	for i, s := range data.References {
		pts := toXYs(s.X, s.Y)
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = plotutil.Color(len(data.Curves) + i)
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(line)
		if s.Label != "" {
			p.Legend.Add(s.Label, line)
		}
	}

	for i, m := range data.Markers {
		if !finite(m.X) || !finite(m.Y) {
			continue
		}
		sc, err := plotter.NewScatter(plotter.XYs{{X: m.X, Y: m.Y}})
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = plotutil.Color(len(data.Curves) + len(data.References) + i)
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Shape = markerShape(i)
		p.Add(sc)
		p.Legend.Add(m.Label, sc)
	}

	// Axes start at zero like a test machine plot
	p.X.Min = 0
	p.Y.Min = 0
	if data.XMax > 0 {
		p.X.Max = data.XMax
	}
	if data.YMax > 0 {
		p.Y.Max = data.YMax
	}

	width := 7 * vg.Inch
	height := 5 * vg.Inch

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

// toXYs pairs x and y, dropping points that are not finite.
func toXYs(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(x))
	for i := range x {
		if finite(x[i]) && finite(y[i]) {
			pts = append(pts, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return pts
}

func markerShape(i int) draw.GlyphDrawer {
	switch i % 4 {
	case 0:
		return draw.CircleGlyph{}
	case 1:
		return draw.SquareGlyph{}
	case 2:
		return draw.TriangleGlyph{}
	}
	return draw.CrossGlyph{}
}
