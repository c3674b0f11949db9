package optics

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/FourierOptics/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	m.Run()
}

func TestSpaceLensSpaceSystemStages(t *testing.T) {
	g := mustGrid(t, -1e-3, 1e-3, 32)
	sys, err := NewSpaceLensSpaceSystem(g, 0.2, 0.3, 0.1, Diameter(1e-3), testK)
	require.NoError(t, err)

	assert.Equal(t, []StageInfo{
		{FreeSpace, Frequency},
		{Lens, Position},
		{CircularAperture, Position},
		{FreeSpace, Frequency},
	}, sys.Stages())
	assert.Same(t, g, sys.Grid())

	// One round trip per free-space stage; lens and aperture cost nothing.
	assert.Equal(t, 4, sys.Transforms())
}

func TestSpaceLensSpaceSystemMatchesManualStages(t *testing.T) {
	rng := rand.New(rand.NewSource(10))

	configs := []struct {
		name    string
		a, b, f float64
		d       *float64
	}{
		{"stopped", 0.2, 0.3, 0.1, Diameter(8e-4)},
		{"open", 0.15, 0.05, 0.25, nil},
		{"imaging 2f-2f", 0.2, 0.2, 0.1, Diameter(1.5e-3)},
		{"zero distances", 0, 0, 1, nil},
	}
	for _, cfg := range configs {
		t.Run(cfg.name, func(t *testing.T) {
			g := mustGrid(t, -1e-3, 1e-3, 40)
			sys, err := NewSpaceLensSpaceSystem(g, cfg.a, cfg.b, cfg.f, cfg.d, testK)
			require.NoError(t, err)

			spaceA, err := NewFreeSpace(g, cfg.a, testK)
			require.NoError(t, err)
			lens, err := NewLens(g, cfg.f, testK)
			require.NoError(t, err)
			aperture, err := NewCircularAperture(g, cfg.d)
			require.NoError(t, err)
			spaceB, err := NewFreeSpace(g, cfg.b, testK)
			require.NoError(t, err)

			f := randomField(rng, g.N())
			want := f
			for _, e := range []*Element{spaceA, lens, aperture, spaceB} {
				want, err = e.Propagate(want)
				require.NoError(t, err)
			}

			got, err := sys.Propagate(f)
			require.NoError(t, err)
			requireFieldsClose(t, want, got, 1e-12)
		})
	}
}

// Adjacent frequency stages share one transform pair and still agree with
// applying the elements one at a time.
func TestPipelineFusesAdjacentFrequencyStages(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := mustGrid(t, -1e-3, 1e-3, 32)

	s1, err := NewFreeSpace(g, 0.1, testK)
	require.NoError(t, err)
	s2, err := NewFreeSpace(g, 0.05, testK)
	require.NoError(t, err)
	psf, err := NewGaussianAmplitudePSF(g, 0.2, testK, 0.1, 2e-3)
	require.NoError(t, err)

	p, err := NewPipeline(g, s1, s2, psf)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Transforms())

	f := randomField(rng, g.N())
	want := f
	for _, e := range []*Element{s1, s2, psf} {
		want, err = e.Propagate(want)
		require.NoError(t, err)
	}
	got, err := p.Propagate(f)
	require.NoError(t, err)
	requireFieldsClose(t, want, got, 1e-9)
}

func TestPipelinePositionOnlyHasNoTransforms(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	g := mustGrid(t, -1, 1, 16)

	lens, err := NewLens(g, 0.5, 10)
	require.NoError(t, err)
	ap, err := NewGaussianAperture(g, Diameter(1))
	require.NoError(t, err)

	p, err := NewPipeline(g, lens, ap)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Transforms())

	f := randomField(rng, g.N())
	got, err := p.Propagate(f)
	require.NoError(t, err)
	for r := range f {
		for c := range f[r] {
			assert.Equal(t, f[r][c]*lens.KernelAt(r, c)*ap.KernelAt(r, c), got[r][c])
		}
	}
}

func TestPipelineWithIntensityPSF(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	g := mustGrid(t, -1e-3, 1e-3, 32)

	space, err := NewFreeSpace(g, 0.1, testK)
	require.NoError(t, err)
	blur, err := NewGaussianIntensityPSF(g, 0.5, testK, 0.1, 2e-3)
	require.NoError(t, err)

	p, err := NewPipeline(g, space, blur)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Transforms())

	f := randomField(rng, g.N())
	mid, err := space.Propagate(f)
	require.NoError(t, err)
	want, err := blur.Propagate(mid)
	require.NoError(t, err)

	got, err := p.Propagate(f)
	require.NoError(t, err)
	requireFieldsClose(t, want, got, 1e-9)
}

func TestPropagateTrace(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	g := mustGrid(t, -1e-3, 1e-3, 24)
	sys, err := NewSpaceLensSpaceSystem(g, 0.1, 0.2, 0.1, Diameter(1e-3), testK)
	require.NoError(t, err)

	f := randomField(rng, g.N())
	steps, err := sys.PropagateTrace(f)
	require.NoError(t, err)
	require.Len(t, steps, 4)

	want := f
	for i, e := range sys.Elements() {
		want, err = e.Propagate(want)
		require.NoError(t, err)
		requireFieldsClose(t, want, steps[i], 1e-9)
	}

	out, err := sys.Propagate(f)
	require.NoError(t, err)
	requireFieldsClose(t, out, steps[3], 1e-12)
}

func TestPipelineLeavesInputUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	g := mustGrid(t, -1e-3, 1e-3, 16)
	sys, err := NewSpaceLensSpaceSystem(g, 0.1, 0.1, 0.05, nil, testK)
	require.NoError(t, err)

	f := randomField(rng, g.N())
	orig := f.Clone()
	_, err = sys.Propagate(f)
	require.NoError(t, err)
	assert.Equal(t, orig, f)
}

func TestPipelineErrors(t *testing.T) {
	g := mustGrid(t, -1, 1, 8)
	other := mustGrid(t, -2, 2, 8)

	lens, err := NewLens(g, 1, 1)
	require.NoError(t, err)
	foreign, err := NewLens(other, 1, 1)
	require.NoError(t, err)
	twin, err := NewLens(mustGrid(t, -1, 1, 8), 1, 1)
	require.NoError(t, err)

	_, err = NewPipeline(g)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewPipeline(nil, lens)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewPipeline(g, lens, nil)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewPipeline(g, lens, foreign)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	p, err := NewPipeline(g, lens, twin)
	require.NoError(t, err)
	_, err = p.Propagate(NewField(9))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	_, err = p.PropagateTrace(NewField(7))
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = NewSpaceLensSpaceSystem(g, 1, 1, 0, nil, 1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewSpaceLensSpaceSystem(g, 1, 1, 1, Diameter(0), 1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewSpaceLensSpaceSystem(g, math.NaN(), 1, 1, nil, 1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewSpaceLensSpaceSystem(g, 1, 1, 1, nil, 0)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestPipelineConcurrentPropagate(t *testing.T) {
	rng := rand.New(rand.NewSource(16))
	g := mustGrid(t, -1e-3, 1e-3, 32)
	sys, err := NewSpaceLensSpaceSystem(g, 0.2, 0.2, 0.1, Diameter(1e-3), testK)
	require.NoError(t, err)

	inputs := make([]Field, 8)
	wants := make([]Field, len(inputs))
	for i := range inputs {
		inputs[i] = randomField(rng, g.N())
		wants[i], err = sys.Propagate(inputs[i])
		require.NoError(t, err)
	}

	got := make([]Field, len(inputs))
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = sys.Propagate(inputs[i])
		}(i)
	}
	wg.Wait()

	for i := range inputs {
		require.NoError(t, errs[i])
		assert.Equal(t, wants[i], got[i])
	}
}
