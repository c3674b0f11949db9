package fieldplot

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/FourierOptics/optics"
	"github.com/bob-anderson-ok/FourierOptics/profile"
)

func TestIntensityView(t *testing.T) {
	g, err := optics.NewGrid(-1, 1, 3)
	require.NoError(t, err)
	m := [][]float64{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
	}

	img, err := IntensityView(g, m, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(128), img.GrayAt(1, 1).Y) // round(0.5*255)
	assert.Equal(t, uint8(255), img.GrayAt(2, 2).Y)
	assert.Equal(t, uint8(96), img.GrayAt(0, 1).Y) // round(3/8*255)

	// The 75th percentile is 5.75, so the bottom row saturates.
	img, err = IntensityView(g, m, 0, 75)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.GrayAt(0, 2).Y)
	assert.Equal(t, uint8(255), img.GrayAt(2, 2).Y)
	assert.Equal(t, uint8(222), img.GrayAt(2, 1).Y) // round(5/5.75*255)
}

func TestIntensityViewEdgeCases(t *testing.T) {
	g, err := optics.NewGrid(-1, 1, 2)
	require.NoError(t, err)

	img, err := IntensityView(g, [][]float64{{2, 2}, {2, math.NaN()}}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), img.GrayAt(1, 1).Y)

	_, err = IntensityView(g, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, 0, 100)
	assert.True(t, errors.Is(err, optics.ErrShapeMismatch))
	_, err = IntensityView(g, [][]float64{{1, 2}, {3}}, 0, 100)
	assert.True(t, errors.Is(err, optics.ErrShapeMismatch))
	_, err = IntensityView(nil, [][]float64{{1, 2}, {3, 4}}, 0, 100)
	assert.True(t, errors.Is(err, optics.ErrInvalidParameter))
	_, err = IntensityView(g, [][]float64{{1, 2}, {3, 4}}, 50, 50)
	assert.True(t, errors.Is(err, optics.ErrInvalidParameter))

	inf := math.Inf(1)
	_, err = IntensityView(g, [][]float64{{inf, inf}, {inf, math.NaN()}}, 0, 100)
	assert.True(t, errors.Is(err, ErrEmptyPlot))
}

func TestIntensity16(t *testing.T) {
	g, err := optics.NewGrid(-1, 1, 2)
	require.NoError(t, err)

	img, scale, err := Intensity16(g, [][]float64{{0.5, 2}, {-1, math.NaN()}})
	require.NoError(t, err)
	assert.Equal(t, 65535.0/2, scale)
	assert.Equal(t, uint16(16384), img.Gray16At(0, 0).Y) // round(16383.75)
	assert.Equal(t, uint16(65535), img.Gray16At(1, 0).Y)
	assert.Equal(t, uint16(0), img.Gray16At(0, 1).Y)
	assert.Equal(t, uint16(0), img.Gray16At(1, 1).Y)

	_, scale, err = Intensity16(g, [][]float64{{0, 0}, {0, 0}})
	require.NoError(t, err)
	assert.Equal(t, 65535.0, scale)

	_, _, err = Intensity16(g, [][]float64{{1}})
	assert.True(t, errors.Is(err, optics.ErrShapeMismatch))
}

func TestWriteIntensity16RoundTrip(t *testing.T) {
	g, err := optics.NewGrid(-1e-3, 1e-3, 16)
	require.NoError(t, err)

	intensity := make([][]float64, g.N())
	for r := range intensity {
		intensity[r] = make([]float64, g.N())
		for c := range intensity[r] {
			intensity[r][c] = 3e-4 * float64(r*g.N()+c)
		}
	}

	folder := t.TempDir()
	scale, err := WriteIntensity16(folder, "intensity16bit.png", g, intensity)
	require.NoError(t, err)

	back, err := profile.LoadGray16PNG(filepath.Join(folder, "intensity16bit.png"), g, scale)
	require.NoError(t, err)
	for r := range intensity {
		for c := range intensity[r] {
			assert.InDelta(t, intensity[r][c], back[r][c], 0.51/scale)
		}
	}
}
