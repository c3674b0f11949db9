// Package scene turns run parameters into the input field and optical system
// of a propagation.
package scene

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/bob-anderson-ok/FourierOptics/internal/config"
	"github.com/bob-anderson-ok/FourierOptics/optics"
)

// GaussianBeam returns exp(-((x-x0)²+(y-y0)²)/w²).
func GaussianBeam(g *optics.Grid, waist, x0, y0 float64) optics.Field {
	x := g.X()
	w2 := waist * waist
	f := optics.NewField(g.N())
	for r := range f {
		for c := range f[r] {
			dx, dy := x[c]-x0, x[r]-y0
			f[r][c] = complex(math.Exp(-(dx*dx+dy*dy)/w2), 0)
		}
	}
	return f
}

// PointSource returns a single unit sample at the grid point nearest (x0, y0).
func PointSource(g *optics.Grid, x0, y0 float64) optics.Field {
	f := optics.NewField(g.N())
	f[g.Nearest(y0)][g.Nearest(x0)] = 1
	return f
}

// insideEllipse reports whether (x, y) is inside or on the ellipse centered
// on (x0, y0). The major axis is rotated paDegrees counter-clockwise from +y.
func insideEllipse(x, y, x0, y0, major, minor, paDegrees float64) bool {
	theta := paDegrees * math.Pi / 180.0
	dx, dy := x-x0, y-y0
	u := (-dx*math.Sin(theta) + dy*math.Cos(theta)) / (major / 2)
	v := (dx*math.Cos(theta) + dy*math.Sin(theta)) / (minor / 2)
	return u*u+v*v <= 1.0
}

// EllipticalAperture returns a unit-amplitude elliptical opening.
func EllipticalAperture(g *optics.Grid, x0, y0, major, minor, paDegrees float64) optics.Field {
	x := g.X()
	f := optics.NewField(g.N())
	for r := range f {
		for c := range f[r] {
			if insideEllipse(x[c], x[r], x0, y0, major, minor, paDegrees) {
				f[r][c] = 1
			}
		}
	}
	return f
}

// LoadSourceImage reads a square 8-bit grayscale PNG.
func LoadSourceImage(filename string) (img *image.Gray, err error) {
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
	if decoded.Bounds().Dx() != decoded.Bounds().Dy() {
		return nil, fmt.Errorf("the source image %q is not square", filename)
	}
	gray, ok := decoded.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("the source image %q is %s, not Gray", filename, colorModelString(decoded.ColorModel()))
	}
	return gray, nil
}

// ImageAperture converts a black-on-white image into an aperture: black pixels
// transmit, everything else blocks. Image row y becomes field row y.
func ImageAperture(img *image.Gray) optics.Field {
	b := img.Bounds()
	f := make(optics.Field, b.Dy())
	for y := range f {
		f[y] = make([]complex128, b.Dx())
		for x := range f[y] {
			if img.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0 {
				f[y][x] = 1
			}
		}
	}
	return f
}

// colorModelString names the color model of a rejected source image.
func colorModelString(m color.Model) string {
	switch m {
	case color.RGBAModel:
		return "RGBA"
	case color.NRGBAModel:
		return "NRGBA"
	case color.GrayModel:
		return "Gray"
	case color.Gray16Model:
		return "Gray16"
	case color.CMYKModel:
		return "CMYK"
	case color.AlphaModel:
		return "Alpha"
	case color.Alpha16Model:
		return "Alpha16"
	default:
		return fmt.Sprintf("Unknown (%T)", m)
	}
}

// Source builds the input field described by run on g. For an image source,
// img must already be loaded and match the grid size.
func Source(run *config.Run, g *optics.Grid, img *image.Gray) (optics.Field, error) {
	switch run.SourceKind {
	case config.SourceGaussian:
		return GaussianBeam(g, run.SourceWaistM, run.SourceXCenterM, run.SourceYCenterM), nil
	case config.SourcePoint:
		return PointSource(g, run.SourceXCenterM, run.SourceYCenterM), nil
	case config.SourceEllipse:
		return EllipticalAperture(g, run.SourceXCenterM, run.SourceYCenterM,
			run.SourceMajorAxisM, run.SourceMinorAxisM, run.SourcePaDegrees), nil
	case config.SourceImage:
		if img == nil {
			return nil, fmt.Errorf("image source without an image: %w", optics.ErrInvalidParameter)
		}
		if img.Bounds().Dx() != g.N() {
			return nil, fmt.Errorf("source image is %d pixels wide, grid has %d points: %w",
				img.Bounds().Dx(), g.N(), optics.ErrShapeMismatch)
		}
		return ImageAperture(img), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q: %w", run.SourceKind, optics.ErrInvalidParameter)
	}
}
