package fieldplot

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"github.com/bob-anderson-ok/FourierOptics/optics"
)

// matrixGrid adapts a row-major matrix and its axes to plotter.GridXYZ.
// Row r is drawn at y[r] and column c at x[c].
type matrixGrid struct {
	z    [][]float64
	x, y []float64
}

func (g matrixGrid) Dims() (c, r int)   { return len(g.x), len(g.y) }
func (g matrixGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g matrixGrid) X(c int) float64    { return g.x[c] }
func (g matrixGrid) Y(r int) float64    { return g.y[r] }

// newMatrixGrid spans the extent [xmin, xmax, ymin, ymax] over m and keeps
// only the samples within ±zoom of the origin. A zoom of 0 keeps everything.
func newMatrixGrid(m [][]float64, extent [4]float64, zoom float64) (matrixGrid, error) {
	n := len(m)
	if n < 2 {
		return matrixGrid{}, fmt.Errorf("fieldplot: %d rows: %w", n, ErrEmptyPlot)
	}
	for r := range m {
		if len(m[r]) != n {
			return matrixGrid{}, fmt.Errorf("fieldplot: row %d has %d columns, want %d: %w", r, len(m[r]), n, optics.ErrShapeMismatch)
		}
	}

	x := floats.Span(make([]float64, n), extent[0], extent[1])
	y := floats.Span(make([]float64, n), extent[2], extent[3])
	c0, c1 := window(x, zoom)
	r0, r1 := window(y, zoom)
	if c1-c0 < 2 || r1-r0 < 2 {
		return matrixGrid{}, fmt.Errorf("fieldplot: zoom %g keeps fewer than two samples: %w", zoom, ErrEmptyPlot)
	}

	z := make([][]float64, r1-r0)
	for r := range z {
		z[r] = m[r0+r][c0:c1]
	}
	return matrixGrid{z: z, x: x[c0:c1], y: y[r0:r1]}, nil
}

// window returns the index range [lo, hi) of axis values within [-zoom, zoom].
func window(axis []float64, zoom float64) (lo, hi int) {
	if !(zoom > 0) {
		return 0, len(axis)
	}
	lo, hi = len(axis), 0
	for i, v := range axis {
		if math.Abs(v) <= zoom {
			lo = min(lo, i)
			hi = max(hi, i+1)
		}
	}
	if hi < lo {
		return 0, 0
	}
	return lo, hi
}

func heatPanel(title string, g matrixGrid, pal palette.Palette) *plot.Plot {
	p := newPlot(title)
	h := plotter.NewHeatMap(g, pal)
	h.Rasterized = true
	p.Add(h)
	return p
}

// FieldPanels returns the magnitude and phase panels for f. Phase is drawn on
// a fixed [-π, π] scale so plots of different fields compare directly.
func FieldPanels(f optics.Field, extent [4]float64, title string, zoom float64) (magnitude, phase *plot.Plot, err error) {
	mag, err := newMatrixGrid(f.Abs(), extent, zoom)
	if err != nil {
		return nil, nil, err
	}
	arg, err := newMatrixGrid(f.Phase(), extent, zoom)
	if err != nil {
		return nil, nil, err
	}

	magnitude = heatPanel(title+" |E|", mag, palette.Heat(256, 1))
	magnitude.X.Label.Text = "x"
	magnitude.Y.Label.Text = "y"

	h := plotter.NewHeatMap(arg, palette.Rainbow(256, palette.Blue, palette.Red, 1, 1, 1))
	h.Rasterized = true
	h.Min, h.Max = -math.Pi, math.Pi
	phase = newPlot(title + " phase")
	phase.Add(h)
	phase.X.Label.Text = "x"

	return magnitude, phase, nil
}

// PlotField renders |f| and arg(f) side by side. extent is
// [xmin, xmax, ymin, ymax] of the sampled axes, usually Grid.PositionExtent or
// Grid.FrequencyExtent, and zoom limits the view to ±zoom on both axes.
func PlotField(f optics.Field, extent [4]float64, title string, zoom float64, wPx, hPx float64) (image.Image, error) {
	magnitude, phase, err := FieldPanels(f, extent, title, zoom)
	if err != nil {
		return nil, err
	}
	return render([][]*plot.Plot{{magnitude, phase}}, wPx, hPx)
}

// PlotIntensity renders |f|² alone.
func PlotIntensity(f optics.Field, extent [4]float64, title string, zoom float64, wPx, hPx float64) (image.Image, error) {
	g, err := newMatrixGrid(f.Intensity(), extent, zoom)
	if err != nil {
		return nil, err
	}
	p := heatPanel(title, g, palette.Heat(256, 1))
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	return render([][]*plot.Plot{{p}}, wPx, hPx)
}
