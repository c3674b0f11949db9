package optics

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// randomField fills an n x n field with values in the unit square of the complex plane.
func randomField(rng *rand.Rand, n int) Field {
	f := NewField(n)
	for r := range f {
		for c := range f[r] {
			re := (rng.Float64() - 0.5) * 2.0
			im := (rng.Float64() - 0.5) * 2.0
			f[r][c] = complex(re, im)
		}
	}
	return f
}

// approx compares complex values with a mixed absolute/relative tolerance.
func approx(tol float64) cmp.Option {
	return cmp.Comparer(func(a, b complex128) bool {
		d := cmplx.Abs(a - b)
		return d <= tol || d <= tol*cmplx.Abs(b)
	})
}

func requireFieldsClose(t *testing.T, want, got Field, tol float64) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx(tol)); diff != "" {
		t.Fatalf("fields differ (-want +got):\n%s", diff)
	}
}

func mustGrid(t *testing.T, xMin, xMax float64, n int) *Grid {
	t.Helper()
	g, err := NewGrid(xMin, xMax, n)
	require.NoError(t, err)
	return g
}
