// Package optics propagates coherent scalar optical fields through free space,
// thin lenses, apertures and Gaussian blur kernels using Fourier optics.
//
// A Grid fixes the position and frequency sampling. Elements precompute their
// kernel on a Grid once, and multiply a field by it either in the position
// domain or, after a centered Forward transform, in the frequency domain. A
// Pipeline chains elements and only crosses domains where the next stage
// needs it.
//
// Typical use:
//
//	g, _ := optics.NewGrid(-2e-3, 2e-3, 512)
//	k := 2 * math.Pi / 633e-9
//	sys, _ := optics.NewSpaceLensSpaceSystem(g, 0.2, 0.2, 0.1, optics.Diameter(1e-3), k)
//	out, err := sys.Propagate(in)
//
// Grids, elements and pipelines are immutable after construction and safe for
// concurrent use.
package optics
