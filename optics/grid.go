package optics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Grid is the square sampling grid shared by every element of a system. It holds
// the position axis x and the matching zero-centered frequency axis nu.
//
// A Grid is immutable after NewGrid returns. All slice accessors return copies,
// so a *Grid can be shared freely between elements and goroutines.
type Grid struct {
	xMin, xMax float64
	n          int

	x   []float64
	dx  float64
	nu  []float64
	dnu float64
}

// NewGrid builds a grid of n samples spanning [xMin, xMax] on both axes.
//
// The sample spacing is dx = (xMax-xMin)/(n-1), which is the spacing of the
// generated axis. For the usual symmetric window (xMin == -xMax) this equals
// 2*xMax/(n-1). The frequency spacing is dnu = 1/(n*dx).
func NewGrid(xMin, xMax float64, n int) (*Grid, error) {
	if n < 2 {
		return nil, fmt.Errorf("grid needs at least 2 samples, got %d: %w", n, ErrInvalidParameter)
	}
	if !isFinite(xMin) || !isFinite(xMax) {
		return nil, fmt.Errorf("grid bounds must be finite, got [%g, %g]: %w", xMin, xMax, ErrInvalidParameter)
	}
	if xMin >= xMax {
		return nil, fmt.Errorf("grid needs xMin < xMax, got [%g, %g]: %w", xMin, xMax, ErrInvalidParameter)
	}

	g := &Grid{
		xMin: xMin,
		xMax: xMax,
		n:    n,
		x:    floats.Span(make([]float64, n), xMin, xMax),
		dx:   (xMax - xMin) / float64(n-1),
	}

	// Bin frequencies in the same centered order the transforms produce.
	fft := fourier.NewCmplxFFT(n)
	g.nu = make([]float64, n)
	for i := range g.nu {
		g.nu[i] = fft.Freq(fft.ShiftIdx(i)) / g.dx
	}
	g.dnu = 1 / (float64(n) * g.dx)

	return g, nil
}

// N returns the number of samples along each axis.
func (g *Grid) N() int { return g.n }

// Dx returns the position sample spacing.
func (g *Grid) Dx() float64 { return g.dx }

// Dnu returns the frequency sample spacing, 1/(n*dx).
func (g *Grid) Dnu() float64 { return g.dnu }

// X returns a copy of the position samples.
func (g *Grid) X() []float64 { return append([]float64(nil), g.x...) }

// Nu returns a copy of the frequency samples, ascending with zero at index n/2.
func (g *Grid) Nu() []float64 { return append([]float64(nil), g.nu...) }

// PositionAxis returns the position samples twice: once to index columns (x)
// and once to index rows (y). Kernels are evaluated at (row[c], col[r]) for the
// element in row r, column c.
func (g *Grid) PositionAxis() (row, col []float64) {
	return g.X(), g.X()
}

// FrequencyAxis is PositionAxis for the frequency samples.
func (g *Grid) FrequencyAxis() (row, col []float64) {
	return g.Nu(), g.Nu()
}

// PositionExtent returns the {min, max, min, max} bounding box of the position
// domain, in the layout plotting code expects.
func (g *Grid) PositionExtent() [4]float64 {
	return [4]float64{g.xMin, g.xMax, g.xMin, g.xMax}
}

// FrequencyExtent returns the {min, max, min, max} bounding box of the frequency domain.
func (g *Grid) FrequencyExtent() [4]float64 {
	lo, hi := g.nu[0], g.nu[g.n-1]
	return [4]float64{lo, hi, lo, hi}
}

// Nearest returns the index of the position sample closest to v, clamped to the grid.
func (g *Grid) Nearest(v float64) int {
	i := int(math.Round((v - g.xMin) / g.dx))
	if i < 0 {
		return 0
	}
	if i >= g.n {
		return g.n - 1
	}
	return i
}

// sameAs reports whether two grids sample the same window.
func (g *Grid) sameAs(o *Grid) bool {
	return g == o || (g.n == o.n && g.xMin == o.xMin && g.xMax == o.xMax)
}

// fill evaluates fn on every (x, y) position of the grid.
func (g *Grid) fill(fn func(x, y float64) complex128) Field {
	k := NewField(g.n)
	for r := 0; r < g.n; r++ {
		y := g.x[r]
		for c := 0; c < g.n; c++ {
			k[r][c] = fn(g.x[c], y)
		}
	}
	return k
}

// fillFrequency evaluates fn on every (nu_x, nu_y) frequency of the grid.
func (g *Grid) fillFrequency(fn func(nuX, nuY float64) complex128) Field {
	k := NewField(g.n)
	for r := 0; r < g.n; r++ {
		nuY := g.nu[r]
		for c := 0; c < g.n; c++ {
			k[r][c] = fn(g.nu[c], nuY)
		}
	}
	return k
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
