package optics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name       string
		xMin, xMax float64
		n          int
	}{
		{"one sample", -1, 1, 1},
		{"zero samples", -1, 1, 0},
		{"reversed bounds", 1, -1, 16},
		{"empty window", 0.5, 0.5, 16},
		{"nan bound", math.NaN(), 1, 16},
		{"infinite bound", -1, math.Inf(1), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.xMin, tt.xMax, tt.n)
			assert.Nil(t, g)
			assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)
		})
	}
}

func TestGridAxes(t *testing.T) {
	g := mustGrid(t, -1, 1, 5)

	assert.Equal(t, 5, g.N())
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, g.X())
	assert.InDelta(t, 0.5, g.Dx(), 1e-15)
	assert.InDelta(t, 0.4, g.Dnu(), 1e-15)

	// fftshift(fftfreq(5, 0.5)) = [-0.8, -0.4, 0, 0.4, 0.8]
	want := []float64{-0.8, -0.4, 0, 0.4, 0.8}
	nu := g.Nu()
	require.Len(t, nu, len(want))
	for i := range want {
		assert.InDelta(t, want[i], nu[i], 1e-12, "nu[%d]", i)
	}
}

func TestGridFrequencyAxisEvenLength(t *testing.T) {
	g := mustGrid(t, -1, 1, 8)
	nu := g.Nu()

	// Zero sits at n/2 and the axis is ascending with step dnu.
	assert.Equal(t, 0.0, nu[4])
	for i := 1; i < len(nu); i++ {
		assert.InDelta(t, g.Dnu(), nu[i]-nu[i-1], 1e-12)
	}
	assert.InDelta(t, -4*g.Dnu(), nu[0], 1e-12)
	assert.InDelta(t, 1/(float64(g.N())*g.Dx()), g.Dnu(), 1e-15)
}

// The spacing is the spacing of the generated axis. For a symmetric window it
// coincides with 2*xMax/(n-1); for an asymmetric window 2*xMax/(n-1) would be
// wrong, and the grid uses (xMax-xMin)/(n-1) instead.
func TestGridSpacingSymmetricAndAsymmetric(t *testing.T) {
	sym := mustGrid(t, -3, 3, 61)
	assert.InDelta(t, 2*3.0/60, sym.Dx(), 1e-15)

	asym := mustGrid(t, 0, 3, 61)
	x := asym.X()
	assert.InDelta(t, x[1]-x[0], asym.Dx(), 1e-15)
	assert.InDelta(t, 3.0/60, asym.Dx(), 1e-15)
	assert.NotEqual(t, 2*3.0/60, asym.Dx())
	assert.InDelta(t, 1/(61*asym.Dx()), asym.Dnu(), 1e-12)
}

func TestGridAccessorsReturnCopies(t *testing.T) {
	g := mustGrid(t, -1, 1, 9)

	row, col := g.PositionAxis()
	row[0] = 42
	col[1] = 42
	assert.Equal(t, -1.0, g.X()[0])
	assert.Equal(t, -0.75, g.X()[1])

	nuRow, nuCol := g.FrequencyAxis()
	before := g.Nu()
	nuRow[0] = 42
	nuCol[0] = 42
	assert.Equal(t, before, g.Nu())
}

func TestGridExtents(t *testing.T) {
	g := mustGrid(t, -2, 2, 4)
	assert.Equal(t, [4]float64{-2, 2, -2, 2}, g.PositionExtent())

	nu := g.Nu()
	assert.Equal(t, [4]float64{nu[0], nu[3], nu[0], nu[3]}, g.FrequencyExtent())
}

func TestGridNearest(t *testing.T) {
	g := mustGrid(t, -1, 1, 129)
	assert.Equal(t, 64, g.Nearest(0))
	assert.Equal(t, 122, g.Nearest(0.9))
	assert.Equal(t, 0, g.Nearest(-5))
	assert.Equal(t, 128, g.Nearest(5))
}
