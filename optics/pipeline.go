package optics

import (
	"fmt"
	"strings"

	"github.com/bob-anderson-ok/FourierOptics/internal/monitoring"
)

// StageInfo describes one stage of a Pipeline.
type StageInfo struct {
	Kind   Kind
	Domain Domain
}

// Pipeline applies an ordered list of elements built on one grid.
//
// Propagate keeps the field in whichever domain the previous stage left it and
// crosses domains only when the next stage needs the other one. Consecutive
// position-domain stages therefore cost no transforms, and consecutive
// frequency-domain stages share a single forward/backward pair.
type Pipeline struct {
	grid       *Grid
	stages     []*Element
	transforms int
}

// NewPipeline returns a pipeline applying elements in the given order. Every
// element must be built on g (or an identical grid).
func NewPipeline(g *Grid, elements ...*Element) (*Pipeline, error) {
	if g == nil {
		return nil, fmt.Errorf("pipeline: nil grid: %w", ErrInvalidParameter)
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("pipeline: no stages: %w", ErrInvalidParameter)
	}
	for i, e := range elements {
		if e == nil {
			return nil, fmt.Errorf("pipeline: stage %d is nil: %w", i, ErrInvalidParameter)
		}
		if !e.grid.sameAs(g) {
			return nil, fmt.Errorf("pipeline: stage %d (%s) uses a different grid: %w", i, e.kind, ErrInvalidParameter)
		}
	}

	p := &Pipeline{
		grid:   g,
		stages: append([]*Element(nil), elements...),
	}
	p.transforms = p.countTransforms()

	names := make([]string, len(p.stages))
	for i, e := range p.stages {
		names[i] = e.String()
	}
	monitoring.Logf("optics: pipeline %s, %d transforms per propagation", strings.Join(names, " -> "), p.transforms)
	return p, nil
}

// NewSpaceLensSpaceSystem returns the four-stage imaging system
//
//	FreeSpace(a) -> Lens(f) -> CircularAperture(d) -> FreeSpace(b)
//
// at wavenumber k. A nil d leaves the lens unstopped.
func NewSpaceLensSpaceSystem(g *Grid, a, b, f float64, d *float64, k float64) (*Pipeline, error) {
	spaceA, err := NewFreeSpace(g, a, k)
	if err != nil {
		return nil, err
	}
	lens, err := NewLens(g, f, k)
	if err != nil {
		return nil, err
	}
	aperture, err := NewCircularAperture(g, d)
	if err != nil {
		return nil, err
	}
	spaceB, err := NewFreeSpace(g, b, k)
	if err != nil {
		return nil, err
	}
	return NewPipeline(g, spaceA, lens, aperture, spaceB)
}

// Grid returns the grid shared by all stages.
func (p *Pipeline) Grid() *Grid { return p.grid }

// Elements returns the stages in order.
func (p *Pipeline) Elements() []*Element {
	return append([]*Element(nil), p.stages...)
}

// Stages returns the kind and domain of every stage.
func (p *Pipeline) Stages() []StageInfo {
	out := make([]StageInfo, len(p.stages))
	for i, e := range p.stages {
		out[i] = StageInfo{Kind: e.kind, Domain: e.domain}
	}
	return out
}

// Transforms returns how many centered transforms (forward plus backward) a
// single call to Propagate performs.
func (p *Pipeline) Transforms() int { return p.transforms }

// Propagate returns the field leaving the last stage, in the position domain.
// The input is left untouched.
func (p *Pipeline) Propagate(f Field) (Field, error) {
	out, _, err := p.run(f, false)
	return out, err
}

// PropagateTrace is Propagate that also returns the position-domain field
// after every stage. The last entry equals the Propagate result.
func (p *Pipeline) PropagateTrace(f Field) ([]Field, error) {
	_, steps, err := p.run(f, true)
	return steps, err
}

func (p *Pipeline) run(f Field, trace bool) (Field, []Field, error) {
	if err := checkShape(f, p.grid.n); err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}

	h := p.grid.dx
	cur := f.Clone()
	domain := Position

	var steps []Field
	var err error
	for _, e := range p.stages {
		if e.kind == GaussianIntensityPSF {
			// Convolution works on a position-domain image.
			if domain == Frequency {
				if cur, err = Backward(cur, h); err != nil {
					return nil, nil, err
				}
				domain = Position
			}
			if cur, err = e.convolve(cur); err != nil {
				return nil, nil, err
			}
		} else {
			if e.domain != domain {
				if cur, err = cross(cur, h, e.domain); err != nil {
					return nil, nil, err
				}
				domain = e.domain
			}
			multiplyInPlace(cur, e.kernel)
		}

		if trace {
			snap := cur
			if domain == Frequency {
				if snap, err = Backward(cur, h); err != nil {
					return nil, nil, err
				}
			} else {
				snap = cur.Clone()
			}
			steps = append(steps, snap)
		}
	}

	if domain == Frequency {
		if cur, err = Backward(cur, h); err != nil {
			return nil, nil, err
		}
	}
	return cur, steps, nil
}

// cross moves a field into the target domain.
func cross(f Field, h float64, to Domain) (Field, error) {
	if to == Frequency {
		return Forward(f, h)
	}
	return Backward(f, h)
}

// countTransforms replays the domain walk of run.
func (p *Pipeline) countTransforms() int {
	n := 0
	domain := Position
	for _, e := range p.stages {
		if e.kind == GaussianIntensityPSF {
			if domain == Frequency {
				n++
			}
			n += 2
			domain = Position
			continue
		}
		if e.domain != domain {
			n++
			domain = e.domain
		}
	}
	if domain == Frequency {
		n++
	}
	return n
}
