package optics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Forward returns the centered 2D Fourier transform of a position-domain field
// sampled at interval h:
//
//	F = h² · shift(DFT(unshift(f)))
//
// so that F approximates the continuous transform sampled on the grid's
// frequency axis. The input is not modified.
func Forward(f Field, h float64) (Field, error) {
	return centered(f, h, true)
}

// Backward inverts Forward for the same h:
//
//	f = 1/h² · shift(IDFT(unshift(F)))
//
// where IDFT carries the 1/n² normalization. Backward(Forward(f, h), h) equals f
// to floating point precision.
func Backward(F Field, h float64) (Field, error) {
	return centered(F, h, false)
}

func centered(in Field, h float64, forward bool) (Field, error) {
	if !(h > 0) || math.IsInf(h, 1) {
		return nil, fmt.Errorf("sampling interval must be positive and finite, got %g: %w", h, ErrInvalidParameter)
	}
	n, err := squareSize(in)
	if err != nil {
		return nil, err
	}

	// A fresh plan per call keeps concurrent transforms independent; the
	// plan's work buffers are not safe to share.
	fft := fourier.NewCmplxFFT(n)

	// Move the physical center to index 0.
	a := NewField(n)
	for r := 0; r < n; r++ {
		src := in[fft.UnshiftIdx(r)]
		dst := a[r]
		for c := 0; c < n; c++ {
			dst[c] = src[fft.UnshiftIdx(c)]
		}
	}

	fft2InPlace(fft, a, forward)

	var scale complex128
	if forward {
		scale = complex(h*h, 0)
	} else {
		// gonum's Sequence is unnormalized.
		scale = complex(1/(h*h*float64(n)*float64(n)), 0)
	}

	// Move zero back to the array center.
	out := NewField(n)
	for r := 0; r < n; r++ {
		src := a[fft.ShiftIdx(r)]
		dst := out[r]
		for c := 0; c < n; c++ {
			dst[c] = scale * src[fft.ShiftIdx(c)]
		}
	}
	return out, nil
}

// fft2InPlace runs the unnormalized 2D transform of a square array, rows then columns.
func fft2InPlace(fft *fourier.CmplxFFT, a Field, forward bool) {
	n := len(a)

	for y := 0; y < n; y++ {
		if forward {
			fft.Coefficients(a[y], a[y])
		} else {
			fft.Sequence(a[y], a[y])
		}
	}

	col := make([]complex128, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = a[y][x]
		}
		if forward {
			fft.Coefficients(col, col)
		} else {
			fft.Sequence(col, col)
		}
		for y := 0; y < n; y++ {
			a[y][x] = col[y]
		}
	}
}
