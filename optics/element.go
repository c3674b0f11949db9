package optics

import (
	"fmt"
	"math"
)

// Kind identifies the optical element variant.
type Kind int

const (
	// FreeSpace propagates over a distance with the angular-spectrum phase.
	FreeSpace Kind = iota
	// Lens applies the thin-lens quadratic phase.
	Lens
	// CircularAperture passes the disk of a given diameter.
	CircularAperture
	// GaussianAperture is a soft aperture with a Gaussian amplitude taper.
	GaussianAperture
	// GaussianAmplitudePSF blurs the complex field with a Gaussian kernel.
	GaussianAmplitudePSF
	// GaussianIntensityPSF convolves a real image with a Gaussian kernel and
	// keeps the magnitude.
	GaussianIntensityPSF
)

func (k Kind) String() string {
	switch k {
	case FreeSpace:
		return "FreeSpace"
	case Lens:
		return "Lens"
	case CircularAperture:
		return "CircularAperture"
	case GaussianAperture:
		return "GaussianAperture"
	case GaussianAmplitudePSF:
		return "GaussianAmplitudePSF"
	case GaussianIntensityPSF:
		return "GaussianIntensityPSF"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Domain is the domain a kernel is multiplied in.
type Domain int

const (
	// Position kernels multiply the field sampled on the x axis.
	Position Domain = iota
	// Frequency kernels multiply the centered spectrum sampled on the nu axis.
	Frequency
)

func (d Domain) String() string {
	if d == Frequency {
		return "frequency"
	}
	return "position"
}

// Element is an optical element with a kernel frozen at construction.
//
// Elements never modify the fields passed to them and never expose their kernel
// mutably, so one Element may propagate fields from many goroutines at once.
type Element struct {
	kind   Kind
	domain Domain
	grid   *Grid
	kernel Field

	// spectrum is Forward(kernel), cached for the convolution PSF.
	spectrum Field

	// waist is the effective Gaussian waist w of the PSF variants.
	waist float64

	desc string
}

// Diameter returns an aperture diameter for the aperture constructors and for
// NewSpaceLensSpaceSystem. A nil diameter means no aperture at all.
func Diameter(d float64) *float64 { return &d }

// NewFreeSpace returns the angular-spectrum propagator over distance L at
// wavenumber k. Its kernel exp(i·2π²(νx²+νy²)·L/k) has unit magnitude
// everywhere. Negative L propagates backwards.
func NewFreeSpace(g *Grid, L, k float64) (*Element, error) {
	if err := validate(g,
		check{"distance", L, finite},
		check{"wavenumber", k, positive},
	); err != nil {
		return nil, fmt.Errorf("free space: %w", err)
	}

	scale := 2 * math.Pi * math.Pi * L / k
	kernel := g.fillFrequency(func(nuX, nuY float64) complex128 {
		phi := scale * (nuX*nuX + nuY*nuY)
		return complex(math.Cos(phi), math.Sin(phi))
	})

	return &Element{
		kind:   FreeSpace,
		domain: Frequency,
		grid:   g,
		kernel: kernel,
		desc:   fmt.Sprintf("FreeSpace(L=%g, k=%g)", L, k),
	}, nil
}

// NewLens returns a thin lens of focal length f: exp(i·k(x²+y²)/(2f)).
func NewLens(g *Grid, f, k float64) (*Element, error) {
	if err := validate(g,
		check{"focal length", f, nonZero},
		check{"wavenumber", k, positive},
	); err != nil {
		return nil, fmt.Errorf("lens: %w", err)
	}

	scale := k / (2 * f)
	kernel := g.fill(func(x, y float64) complex128 {
		phi := scale * (x*x + y*y)
		return complex(math.Cos(phi), math.Sin(phi))
	})

	return &Element{
		kind:   Lens,
		domain: Position,
		grid:   g,
		kernel: kernel,
		desc:   fmt.Sprintf("Lens(f=%g, k=%g)", f, k),
	}, nil
}

// NewCircularAperture returns a binary pupil of diameter *d centered on the
// optical axis. Points with x²+y² <= D²/4 pass. A nil d passes everything.
func NewCircularAperture(g *Grid, d *float64) (*Element, error) {
	if err := validateDiameter(g, d); err != nil {
		return nil, fmt.Errorf("circular aperture: %w", err)
	}

	e := &Element{kind: CircularAperture, domain: Position, grid: g}
	if d == nil {
		e.kernel = g.fill(func(_, _ float64) complex128 { return 1 })
		e.desc = "CircularAperture(open)"
		return e, nil
	}

	r2 := *d * *d / 4
	e.kernel = g.fill(func(x, y float64) complex128 {
		if x*x+y*y <= r2 {
			return 1
		}
		return 0
	})
	e.desc = fmt.Sprintf("CircularAperture(D=%g)", *d)
	return e, nil
}

// NewGaussianAperture returns a soft pupil exp(-(x²+y²)/(D²/4)). A nil d
// passes everything.
func NewGaussianAperture(g *Grid, d *float64) (*Element, error) {
	if err := validateDiameter(g, d); err != nil {
		return nil, fmt.Errorf("gaussian aperture: %w", err)
	}

	e := &Element{kind: GaussianAperture, domain: Position, grid: g}
	if d == nil {
		e.kernel = g.fill(func(_, _ float64) complex128 { return 1 })
		e.desc = "GaussianAperture(open)"
		return e, nil
	}

	r2 := *d * *d / 4
	e.kernel = g.fill(func(x, y float64) complex128 {
		return complex(math.Exp(-(x*x+y*y)/r2), 0)
	})
	e.desc = fmt.Sprintf("GaussianAperture(D=%g)", *d)
	return e, nil
}

// NewGaussianAmplitudePSF returns the coherent diffraction-limited blur of a
// pupil of diameter D imaging at distance b with defocus delta. The kernel
// (w0/w)·exp(-(x²+y²)/w²) is evaluated on the position axis and multiplied in
// the frequency domain.
func NewGaussianAmplitudePSF(g *Grid, delta, k, b, d float64) (*Element, error) {
	w0, w, err := gaussianWaist(g, delta, k, b, d)
	if err != nil {
		return nil, fmt.Errorf("gaussian amplitude psf: %w", err)
	}

	amp := w0 / w
	w2 := w * w
	kernel := g.fill(func(x, y float64) complex128 {
		return complex(amp*math.Exp(-(x*x+y*y)/w2), 0)
	})

	return &Element{
		kind:   GaussianAmplitudePSF,
		domain: Frequency,
		grid:   g,
		kernel: kernel,
		waist:  w,
		desc:   fmt.Sprintf("GaussianAmplitudePSF(delta=%g, b=%g, D=%g, w=%g)", delta, b, d, w),
	}, nil
}

// NewGaussianIntensityPSF returns the incoherent blur matching
// NewGaussianAmplitudePSF. Propagate convolves a real intensity image with
// (w0/w)²·exp(-2(x²+y²)/w²) and returns the magnitude of the result.
func NewGaussianIntensityPSF(g *Grid, delta, k, b, d float64) (*Element, error) {
	w0, w, err := gaussianWaist(g, delta, k, b, d)
	if err != nil {
		return nil, fmt.Errorf("gaussian intensity psf: %w", err)
	}

	amp := (w0 / w) * (w0 / w)
	w2 := w * w
	kernel := g.fill(func(x, y float64) complex128 {
		return complex(amp*math.Exp(-2*(x*x+y*y)/w2), 0)
	})
	spectrum, err := Forward(kernel, g.dx)
	if err != nil {
		return nil, fmt.Errorf("gaussian intensity psf: %w", err)
	}

	return &Element{
		kind:     GaussianIntensityPSF,
		domain:   Frequency,
		grid:     g,
		kernel:   kernel,
		spectrum: spectrum,
		waist:    w,
		desc:     fmt.Sprintf("GaussianIntensityPSF(delta=%g, b=%g, D=%g, w=%g)", delta, b, d, w),
	}, nil
}

// Kind returns the element variant.
func (e *Element) Kind() Kind { return e.kind }

// Domain returns the domain the kernel is applied in.
func (e *Element) Domain() Domain { return e.domain }

// Grid returns the grid the element was built on.
func (e *Element) Grid() *Grid { return e.grid }

// Waist returns the effective Gaussian waist w of a PSF element, or 0 for the
// other variants.
func (e *Element) Waist() float64 { return e.waist }

// Kernel returns a copy of the element's kernel.
func (e *Element) Kernel() Field { return e.kernel.Clone() }

// KernelAt returns the kernel value at row r, column c.
func (e *Element) KernelAt(r, c int) complex128 { return e.kernel[r][c] }

func (e *Element) String() string { return e.desc }

// Propagate returns the field after passing through the element. The input is
// left untouched. A field whose shape differs from the element's grid yields
// ErrShapeMismatch.
func (e *Element) Propagate(f Field) (Field, error) {
	if err := checkShape(f, e.grid.n); err != nil {
		return nil, fmt.Errorf("%s: %w", e.kind, err)
	}

	switch {
	case e.kind == GaussianIntensityPSF:
		return e.convolve(f)

	case e.domain == Frequency:
		spec, err := Forward(f, e.grid.dx)
		if err != nil {
			return nil, err
		}
		multiplyInPlace(spec, e.kernel)
		return Backward(spec, e.grid.dx)

	default:
		out := f.Clone()
		multiplyInPlace(out, e.kernel)
		return out, nil
	}
}

// Blur applies a GaussianIntensityPSF to a real intensity image.
func (e *Element) Blur(img [][]float64) ([][]float64, error) {
	if e.kind != GaussianIntensityPSF {
		return nil, fmt.Errorf("blur needs a %s element, got %s: %w", GaussianIntensityPSF, e.kind, ErrInvalidParameter)
	}
	out, err := e.Propagate(FieldFromReal(img))
	if err != nil {
		return nil, err
	}
	return out.Real(), nil
}

// convolve multiplies the image spectrum by the cached kernel spectrum and
// keeps the magnitude; the residual imaginary part is numerical noise.
func (e *Element) convolve(img Field) (Field, error) {
	spec, err := Forward(img, e.grid.dx)
	if err != nil {
		return nil, err
	}
	multiplyInPlace(spec, e.spectrum)
	out, err := Backward(spec, e.grid.dx)
	if err != nil {
		return nil, err
	}
	for r := range out {
		for c, v := range out[r] {
			out[r][c] = complex(math.Hypot(real(v), imag(v)), 0)
		}
	}
	return out, nil
}

// gaussianWaist returns w0 = 4b/(D·k) and the defocused waist
// w = w0·sqrt(1+(b²δ/zR)²) with zR = 8b²/(D²·k).
func gaussianWaist(g *Grid, delta, k, b, d float64) (w0, w float64, err error) {
	if err := validate(g,
		check{"defocus", delta, finite},
		check{"wavenumber", k, positive},
		check{"image distance", b, positive},
		check{"diameter", d, positive},
	); err != nil {
		return 0, 0, err
	}

	w0 = 4 * b / (d * k)
	zR := 8 * b * b / (d * d * k)
	t := b * b * delta / zR
	w = w0 * math.Sqrt(1+t*t)
	if !(w > 0) || math.IsInf(w, 0) {
		return 0, 0, fmt.Errorf("degenerate waist %g: %w", w, ErrInvalidParameter)
	}
	return w0, w, nil
}

type rule int

const (
	finite rule = iota
	positive
	nonZero
)

type check struct {
	name  string
	value float64
	rule  rule
}

func validate(g *Grid, checks ...check) error {
	if g == nil {
		return fmt.Errorf("nil grid: %w", ErrInvalidParameter)
	}
	for _, c := range checks {
		if !isFinite(c.value) {
			return fmt.Errorf("%s must be finite, got %g: %w", c.name, c.value, ErrInvalidParameter)
		}
		switch c.rule {
		case positive:
			if c.value <= 0 {
				return fmt.Errorf("%s must be positive, got %g: %w", c.name, c.value, ErrInvalidParameter)
			}
		case nonZero:
			if c.value == 0 {
				return fmt.Errorf("%s must be non-zero: %w", c.name, ErrInvalidParameter)
			}
		}
	}
	return nil
}

func validateDiameter(g *Grid, d *float64) error {
	if d == nil {
		return validate(g)
	}
	return validate(g, check{"diameter", *d, positive})
}
