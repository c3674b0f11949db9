package scene

import (
	"fmt"
	"math"

	"github.com/bob-anderson-ok/FourierOptics/internal/config"
	"github.com/bob-anderson-ok/FourierOptics/optics"
)

// System is the optical train of a run.
type System struct {
	Pipeline *optics.Pipeline

	// Blur is the incoherent PSF applied to the output intensity, or nil.
	Blur *optics.Element
}

// Wavenumber returns 2π/λ for a wavelength in nanometers.
func Wavenumber(wavelengthNm float64) float64 {
	return 2 * math.Pi / (wavelengthNm * 1e-9)
}

// NewGrid returns the sampling grid of run.
func NewGrid(run *config.Run) (*optics.Grid, error) {
	return optics.NewGrid(run.XMinM, run.XMaxM, run.NumPoints)
}

// Build assembles FreeSpace(a) -> Lens(f) -> aperture -> FreeSpace(b) on g.
// An amplitude PSF becomes a fifth stage; an intensity PSF is kept aside as
// Blur since it acts on intensities.
func Build(run *config.Run, g *optics.Grid) (*System, error) {
	k := Wavenumber(run.WavelengthNm)

	var psf *optics.Element
	if run.PSFGiven {
		var err error
		if run.PSFKind == config.PSFIntensity {
			psf, err = optics.NewGaussianIntensityPSF(g, run.PSFDefocus, k, run.PSFDistanceM, run.PSFDiameterM)
		} else {
			psf, err = optics.NewGaussianAmplitudePSF(g, run.PSFDefocus, k, run.PSFDistanceM, run.PSFDiameterM)
		}
		if err != nil {
			return nil, err
		}
	}

	sys := &System{}
	if psf != nil && psf.Kind() == optics.GaussianIntensityPSF {
		sys.Blur = psf
		psf = nil
	}

	if run.ApertureShape != config.ApertureGaussian && psf == nil {
		p, err := optics.NewSpaceLensSpaceSystem(g, run.DistanceAM, run.DistanceBM, run.FocalLengthM, run.ApertureDiameterM, k)
		if err != nil {
			return nil, err
		}
		sys.Pipeline = p
		return sys, nil
	}

	spaceA, err := optics.NewFreeSpace(g, run.DistanceAM, k)
	if err != nil {
		return nil, err
	}
	lens, err := optics.NewLens(g, run.FocalLengthM, k)
	if err != nil {
		return nil, err
	}
	var aperture *optics.Element
	if run.ApertureShape == config.ApertureGaussian {
		aperture, err = optics.NewGaussianAperture(g, run.ApertureDiameterM)
	} else {
		aperture, err = optics.NewCircularAperture(g, run.ApertureDiameterM)
	}
	if err != nil {
		return nil, err
	}
	spaceB, err := optics.NewFreeSpace(g, run.DistanceBM, k)
	if err != nil {
		return nil, err
	}

	stages := []*optics.Element{spaceA, lens, aperture, spaceB}
	if psf != nil {
		stages = append(stages, psf)
	}
	if sys.Pipeline, err = optics.NewPipeline(g, stages...); err != nil {
		return nil, err
	}
	return sys, nil
}

// Propagate runs in through the pipeline and returns the output field and
// its intensity, blurred when the system has an incoherent PSF.
func (s *System) Propagate(in optics.Field) (optics.Field, [][]float64, error) {
	out, err := s.Pipeline.Propagate(in)
	if err != nil {
		return nil, nil, err
	}
	intensity := out.Intensity()
	if s.Blur != nil {
		if intensity, err = s.Blur.Blur(intensity); err != nil {
			return nil, nil, fmt.Errorf("blur: %w", err)
		}
	}
	return out, intensity, nil
}
