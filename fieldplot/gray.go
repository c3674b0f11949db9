package fieldplot

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/bob-anderson-ok/FourierOptics/optics"
)

// checkPlane reports whether intensity is the n×n output plane of g.
func checkPlane(g *optics.Grid, intensity [][]float64) error {
	if g == nil {
		return fmt.Errorf("fieldplot: nil grid: %w", optics.ErrInvalidParameter)
	}
	n := g.N()
	if len(intensity) != n {
		return fmt.Errorf("fieldplot: intensity has %d rows, grid has %d: %w", len(intensity), n, optics.ErrShapeMismatch)
	}
	for r, row := range intensity {
		if len(row) != n {
			return fmt.Errorf("fieldplot: intensity row %d has %d columns, grid has %d: %w", r, len(row), n, optics.ErrShapeMismatch)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Intensity16 maps an output-plane intensity onto a 16-bit image with the
// peak at full scale. pixel = intensity * scale; non-finite and negative
// samples become 0. An all-dark plane gets scale 65535.
func Intensity16(g *optics.Grid, intensity [][]float64) (img *image.Gray16, scale float64, err error) {
	if err := checkPlane(g, intensity); err != nil {
		return nil, 0, err
	}

	peak := 0.0
	for _, row := range intensity {
		for _, v := range row {
			if finite(v) && v > peak {
				peak = v
			}
		}
	}
	scale = math.MaxUint16
	if peak > 0 {
		scale /= peak
	}

	n := g.N()
	img = image.NewGray16(image.Rect(0, 0, n, n))
	for r, row := range intensity {
		for c, v := range row {
			if !finite(v) {
				continue
			}
			u := math.Max(0, math.Min(math.MaxUint16, math.Round(v*scale)))
			img.SetGray16(c, r, color.Gray16{Y: uint16(u)})
		}
	}
	return img, scale, nil
}

// WriteIntensity16 saves Intensity16 of the plane as name in folder and
// returns the scale used, which LoadGray16PNG needs to recover the intensity.
func WriteIntensity16(folder, name string, g *optics.Grid, intensity [][]float64) (scale float64, err error) {
	img, scale, err := Intensity16(g, intensity)
	if err != nil {
		return 0, err
	}
	if _, err := SavePNG(folder, name, img); err != nil {
		return 0, err
	}
	return scale, nil
}

// IntensityView stretches the pLow..pHigh percentile range of an output-plane
// intensity onto 0..255 for display. Samples outside the range are clamped, so
// a focused spot does not wash out the rest of the plane.
func IntensityView(g *optics.Grid, intensity [][]float64, pLow, pHigh float64) (*image.Gray, error) {
	if err := checkPlane(g, intensity); err != nil {
		return nil, err
	}
	if !(0 <= pLow && pLow < pHigh && pHigh <= 100) {
		return nil, fmt.Errorf("fieldplot: percentiles %g..%g outside 0 <= low < high <= 100: %w", pLow, pHigh, optics.ErrInvalidParameter)
	}

	var sorted []float64
	for _, row := range intensity {
		for _, v := range row {
			if finite(v) {
				sorted = append(sorted, v)
			}
		}
	}
	if len(sorted) == 0 {
		return nil, fmt.Errorf("fieldplot: intensity has no finite samples: %w", ErrEmptyPlot)
	}
	sort.Float64s(sorted)

	lo := stat.Quantile(pLow/100, stat.LinInterp, sorted, nil)
	hi := stat.Quantile(pHigh/100, stat.LinInterp, sorted, nil)
	if hi == lo {
		hi = lo + 1
	}

	n := g.N()
	img := image.NewGray(image.Rect(0, 0, n, n))
	for r, row := range intensity {
		for c, v := range row {
			if !finite(v) {
				continue
			}
			t := math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
			img.SetGray(c, r, color.Gray{Y: uint8(math.Round(t * 255))})
		}
	}
	return img, nil
}
