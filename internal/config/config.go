// Package config reads the JSON5 parameter file that drives a propagation run.
package config

import (
	"fmt"
	"os"

	json "github.com/KevinWang15/go-json5"
)

// Source kinds.
const (
	SourceGaussian = "gaussian"
	SourcePoint    = "point"
	SourceEllipse  = "ellipse"
	SourceImage    = "image"
)

// Aperture shapes.
const (
	ApertureCircular = "circular"
	ApertureGaussian = "gaussian"
)

// PSF kinds.
const (
	PSFAmplitude = "amplitude"
	PSFIntensity = "intensity"
)

// Run holds every parameter of a propagation run. Lengths are in meters.
type Run struct {
	Title            string
	ShowInput        bool
	WindowSizePixels int
	OutputFolder     string

	XMinM        float64
	XMaxM        float64
	NumPoints    int
	WavelengthNm float64

	SourceKind       string
	SourceWaistM     float64
	SourceXCenterM   float64
	SourceYCenterM   float64
	SourceMajorAxisM float64
	SourceMinorAxisM float64
	SourcePaDegrees  float64
	PathToImage      string

	DistanceAM        float64
	DistanceBM        float64
	FocalLengthM      float64
	ApertureDiameterM *float64 // nil leaves the lens unstopped
	ApertureShape     string

	PSFGiven     bool
	PSFKind      string
	PSFDefocus   float64
	PSFDistanceM float64
	PSFDiameterM float64

	ZoomM               float64
	ProfileGiven        bool
	ProfileAngleDegrees float64
	ProfileOffsetM      float64
}

// Load reads and validates the parameter file at path. The raw file contents
// are returned alongside so the caller can echo them.
func Load(path string) (*Run, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("attempt to read input file %q failed: %w", path, err)
	}
	run, err := Parse(data)
	if err != nil {
		return nil, data, fmt.Errorf("%q: %w", path, err)
	}
	return run, data, nil
}

// Parse decodes JSON5 (or plain JSON) parameters and validates them.
func Parse(data []byte) (*Run, error) {
	var jsonTable map[string]interface{}
	if err := json.Unmarshal(data, &jsonTable); err != nil {
		return nil, fmt.Errorf("format error: %w", err)
	}

	var run Run
	if msg, ok := validateJsonTableAndFillRun(jsonTable, &run); !ok {
		return nil, fmt.Errorf("%s: %w", msg, ErrInvalidParameters)
	}
	return &run, nil
}

// FitSourceImage sets the grid size from the width of a square source image.
// An explicit grid.num_points must agree with it.
func (r *Run) FitSourceImage(width int) error {
	if r.NumPoints != 0 && r.NumPoints != width {
		return fmt.Errorf("grid.num_points: %d does not match the %d pixel source image: %w", r.NumPoints, width, ErrInvalidParameters)
	}
	r.NumPoints = width
	return nil
}
