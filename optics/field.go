package optics

import (
	"fmt"
	"math/cmplx"
)

// Field is a square array of complex scalar amplitudes sampled on a Grid.
// Row r holds y = x[r]; column c holds x = x[c].
type Field [][]complex128

// NewField returns an n x n field of zeros.
func NewField(n int) Field {
	m := make(Field, n)
	for i := range m {
		m[i] = make([]complex128, n)
	}
	return m
}

// FieldFromReal lifts a real matrix, such as an intensity image, into a Field.
func FieldFromReal(m [][]float64) Field {
	f := make(Field, len(m))
	for r := range m {
		f[r] = make([]complex128, len(m[r]))
		for c, v := range m[r] {
			f[r][c] = complex(v, 0)
		}
	}
	return f
}

// Clone returns a deep copy of f.
func (f Field) Clone() Field {
	out := make(Field, len(f))
	for r := range f {
		out[r] = append([]complex128(nil), f[r]...)
	}
	return out
}

// Abs returns |f| elementwise.
func (f Field) Abs() [][]float64 {
	return f.apply(cmplx.Abs)
}

// Phase returns arg(f) elementwise, in radians.
func (f Field) Phase() [][]float64 {
	return f.apply(cmplx.Phase)
}

// Intensity returns |f|^2 elementwise.
func (f Field) Intensity() [][]float64 {
	return f.apply(func(v complex128) float64 {
		return real(v)*real(v) + imag(v)*imag(v)
	})
}

// Real returns the real part of f elementwise.
func (f Field) Real() [][]float64 {
	return f.apply(func(v complex128) float64 { return real(v) })
}

func (f Field) apply(fn func(complex128) float64) [][]float64 {
	out := make([][]float64, len(f))
	for r := range f {
		out[r] = make([]float64, len(f[r]))
		for c, v := range f[r] {
			out[r][c] = fn(v)
		}
	}
	return out
}

// squareSize returns the side of a square field, or ErrShapeMismatch for an
// empty, ragged or rectangular one.
func squareSize(f Field) (int, error) {
	n := len(f)
	if n == 0 {
		return 0, fmt.Errorf("empty field: %w", ErrShapeMismatch)
	}
	for r := range f {
		if len(f[r]) != n {
			return 0, fmt.Errorf("row %d has %d columns, want %d: %w", r, len(f[r]), n, ErrShapeMismatch)
		}
	}
	return n, nil
}

// checkShape verifies that f is n x n.
func checkShape(f Field, n int) error {
	got, err := squareSize(f)
	if err != nil {
		return err
	}
	if got != n {
		return fmt.Errorf("field is %dx%d, grid is %dx%d: %w", got, got, n, n, ErrShapeMismatch)
	}
	return nil
}

// multiplyInPlace sets f[r][c] *= k[r][c].
func multiplyInPlace(f, k Field) {
	for r := range f {
		fr, kr := f[r], k[r]
		for c := range fr {
			fr[c] *= kr[c]
		}
	}
}
