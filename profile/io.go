package profile

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/bob-anderson-ok/FourierOptics/optics"
)

// LoadGray16PNG reads an intensity image written with a known scale
// (pixel = intensity * scale) back into the n×n output plane of g.
// The file must be a 16-bit grayscale PNG of exactly n×n pixels.
func LoadGray16PNG(filename string, g *optics.Grid, scale float64) (intensity [][]float64, err error) {
	if g == nil {
		return nil, fmt.Errorf("profile: nil grid: %w", optics.ErrInvalidParameter)
	}
	if !(scale > 0) {
		return nil, fmt.Errorf("profile: scale must be > 0, got %g: %w", scale, optics.ErrInvalidParameter)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	decoded, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	img, ok := decoded.(*image.Gray16)
	if !ok {
		return nil, fmt.Errorf("profile: %s is %T, not a 16-bit grayscale image", filename, decoded)
	}

	n := g.N()
	b := img.Bounds()
	if b.Dx() != n || b.Dy() != n {
		return nil, fmt.Errorf("profile: %s is %dx%d, grid is %dx%d: %w", filename, b.Dx(), b.Dy(), n, n, optics.ErrShapeMismatch)
	}

	intensity = make([][]float64, n)
	for r := range intensity {
		intensity[r] = make([]float64, n)
		for c := range intensity[r] {
			intensity[r][c] = float64(img.Gray16At(b.Min.X+c, b.Min.Y+r).Y) / scale
		}
	}
	return intensity, nil
}
