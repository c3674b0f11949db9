package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameters is wrapped by every validation failure.
var ErrInvalidParameters = errors.New("invalid parameter file")

func getLeafValue(jsonTable map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = jsonTable
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func keyName(path []string) string {
	name := path[0]
	for _, p := range path[1:] {
		name += "." + p
	}
	return name
}

// floatLeaf reads an optional float64 leaf. found reports whether it was present.
func floatLeaf(jsonTable map[string]interface{}, dst *float64, path ...string) (msg string, found, ok bool) {
	v, found := getLeafValue(jsonTable, path...)
	if !found {
		return "", false, true
	}
	f, ok := v.(float64)
	if !ok {
		return keyName(path) + ": is not a float64", true, false
	}
	*dst = f
	return "", true, true
}

// requiredFloat reads a float64 leaf that must be present.
func requiredFloat(jsonTable map[string]interface{}, dst *float64, path ...string) (string, bool) {
	msg, found, ok := floatLeaf(jsonTable, dst, path...)
	if !ok {
		return msg, false
	}
	if !found {
		return keyName(path) + ": not found", false
	}
	return "", true
}

func stringLeaf(jsonTable map[string]interface{}, dst *string, path ...string) (string, bool) {
	v, found := getLeafValue(jsonTable, path...)
	if !found {
		return "", true
	}
	s, ok := v.(string)
	if !ok {
		return keyName(path) + ": is not a string", false
	}
	*dst = s
	return "", true
}

func validateJsonTableAndFillRun(jsonTable map[string]interface{}, run *Run) (string, bool) {
	msg := "No problem found in json file" // Initialize msg to presumed success.

	showInput, ok := getLeafValue(jsonTable, "show_input_bool")
	if ok {
		run.ShowInput, ok = showInput.(bool)
		if !ok {
			msg = "show_input_bool: is not a bool"
			return msg, false
		}
	}

	windowSize, ok := getLeafValue(jsonTable, "window_size_pixels")
	if !ok {
		run.WindowSizePixels = 500 // Default to 500 pixels if this field is missing
	} else {
		wSize, ok := windowSize.(float64)
		if !ok {
			msg = "window_size_pixels: is not a float64"
			return msg, false
		}
		run.WindowSizePixels = int(wSize)
	}

	if msg, ok := stringLeaf(jsonTable, &run.Title, "title"); !ok {
		return msg, false
	}

	run.OutputFolder = "."
	if msg, ok := stringLeaf(jsonTable, &run.OutputFolder, "output_folder"); !ok {
		return msg, false
	}

	if msg, ok := requiredFloat(jsonTable, &run.WavelengthNm, "wavelength_nm"); !ok {
		return msg, false
	}
	if run.WavelengthNm <= 0 {
		return "wavelength_nm: must be positive", false
	}

	// Source. An image source fixes the number of grid points itself.
	run.SourceKind = SourceGaussian
	if msg, ok := stringLeaf(jsonTable, &run.SourceKind, "source", "kind"); !ok {
		return msg, false
	}
	if msg, ok := validateSource(jsonTable, run); !ok {
		return msg, false
	}

	// Grid
	if msg, ok := requiredFloat(jsonTable, &run.XMinM, "grid", "x_min_m"); !ok {
		return msg, false
	}
	if msg, ok := requiredFloat(jsonTable, &run.XMaxM, "grid", "x_max_m"); !ok {
		return msg, false
	}
	if run.XMinM >= run.XMaxM {
		return "grid: x_min_m must be less than x_max_m", false
	}
	var numPoints float64
	msg, found, ok := floatLeaf(jsonTable, &numPoints, "grid", "num_points")
	if !ok {
		return msg, false
	}
	if found && numPoints != math.Trunc(numPoints) {
		return fmt.Sprintf("grid.num_points: %g is not a whole number", numPoints), false
	}
	switch {
	case found:
		run.NumPoints = int(numPoints)
	case run.SourceKind != SourceImage:
		return "grid.num_points: not found", false
	}
	if found && run.NumPoints < 2 {
		return "grid.num_points: must be at least 2", false
	}

	if msg, ok := validateSystem(jsonTable, run); !ok {
		return msg, false
	}
	if msg, ok := validatePSF(jsonTable, run); !ok {
		return msg, false
	}

	// Plot
	if msg, _, ok := floatLeaf(jsonTable, &run.ZoomM, "plot", "zoom_m"); !ok {
		return msg, false
	}
	if run.ZoomM < 0 {
		return "plot.zoom_m: must not be negative", false
	}
	msg, run.ProfileGiven, ok = floatLeaf(jsonTable, &run.ProfileAngleDegrees, "plot", "profile_angle_degrees")
	if !ok {
		return msg, false
	}
	if msg, _, ok := floatLeaf(jsonTable, &run.ProfileOffsetM, "plot", "profile_offset_m"); !ok {
		return msg, false
	}

	return "No problem found in json file", true
}

func validateSource(jsonTable map[string]interface{}, run *Run) (string, bool) {
	if msg, _, ok := floatLeaf(jsonTable, &run.SourceXCenterM, "source", "x_center_m"); !ok {
		return msg, false
	}
	if msg, _, ok := floatLeaf(jsonTable, &run.SourceYCenterM, "source", "y_center_m"); !ok {
		return msg, false
	}

	switch run.SourceKind {
	case SourceGaussian:
		if msg, ok := requiredFloat(jsonTable, &run.SourceWaistM, "source", "waist_m"); !ok {
			return msg, false
		}
		if run.SourceWaistM <= 0 {
			return "source.waist_m: must be positive", false
		}

	case SourcePoint:

	case SourceEllipse:
		if msg, ok := requiredFloat(jsonTable, &run.SourceMajorAxisM, "source", "major_axis_m"); !ok {
			return msg, false
		}
		if msg, ok := requiredFloat(jsonTable, &run.SourceMinorAxisM, "source", "minor_axis_m"); !ok {
			return msg, false
		}
		if run.SourceMajorAxisM <= 0 || run.SourceMinorAxisM <= 0 {
			return "source: ellipse axes must be positive", false
		}
		if msg, _, ok := floatLeaf(jsonTable, &run.SourcePaDegrees, "source", "pa_degrees"); !ok {
			return msg, false
		}

	case SourceImage:
		if msg, ok := stringLeaf(jsonTable, &run.PathToImage, "source", "path_to_image"); !ok {
			return msg, false
		}
		if run.PathToImage == "" {
			return "source.path_to_image: not found", false
		}

	default:
		return fmt.Sprintf("source.kind: %q is not one of gaussian, point, ellipse, image", run.SourceKind), false
	}
	return "", true
}

func validateSystem(jsonTable map[string]interface{}, run *Run) (string, bool) {
	if _, ok := getLeafValue(jsonTable, "system"); !ok {
		return "system group not found and is required.", false
	}

	if msg, ok := requiredFloat(jsonTable, &run.DistanceAM, "system", "distance_a_m"); !ok {
		return msg, false
	}
	if msg, ok := requiredFloat(jsonTable, &run.DistanceBM, "system", "distance_b_m"); !ok {
		return msg, false
	}
	if msg, ok := requiredFloat(jsonTable, &run.FocalLengthM, "system", "focal_length_m"); !ok {
		return msg, false
	}
	if run.FocalLengthM == 0 {
		return "system.focal_length_m: must not be zero", false
	}

	var d float64
	msg, found, ok := floatLeaf(jsonTable, &d, "system", "aperture_diameter_m")
	if !ok {
		return msg, false
	}
	if found {
		if d <= 0 {
			return "system.aperture_diameter_m: must be positive", false
		}
		run.ApertureDiameterM = &d
	}

	run.ApertureShape = ApertureCircular
	if msg, ok := stringLeaf(jsonTable, &run.ApertureShape, "system", "aperture_shape"); !ok {
		return msg, false
	}
	if run.ApertureShape != ApertureCircular && run.ApertureShape != ApertureGaussian {
		return fmt.Sprintf("system.aperture_shape: %q is not one of circular, gaussian", run.ApertureShape), false
	}
	return "", true
}

// validatePSF reads the optional psf group. Its distance defaults to
// distance_b_m and its diameter to the aperture diameter.
func validatePSF(jsonTable map[string]interface{}, run *Run) (string, bool) {
	_, run.PSFGiven = getLeafValue(jsonTable, "psf")
	if !run.PSFGiven {
		return "", true
	}

	run.PSFKind = PSFAmplitude
	if msg, ok := stringLeaf(jsonTable, &run.PSFKind, "psf", "kind"); !ok {
		return msg, false
	}
	if run.PSFKind != PSFAmplitude && run.PSFKind != PSFIntensity {
		return fmt.Sprintf("psf.kind: %q is not one of amplitude, intensity", run.PSFKind), false
	}

	if msg, _, ok := floatLeaf(jsonTable, &run.PSFDefocus, "psf", "defocus"); !ok {
		return msg, false
	}

	run.PSFDistanceM = run.DistanceBM
	if msg, _, ok := floatLeaf(jsonTable, &run.PSFDistanceM, "psf", "distance_m"); !ok {
		return msg, false
	}
	if run.PSFDistanceM <= 0 {
		return "psf.distance_m: must be positive", false
	}

	msg, found, ok := floatLeaf(jsonTable, &run.PSFDiameterM, "psf", "diameter_m")
	if !ok {
		return msg, false
	}
	if !found {
		if run.ApertureDiameterM == nil {
			return "psf.diameter_m: not found and the system has no aperture diameter", false
		}
		run.PSFDiameterM = *run.ApertureDiameterM
	}
	if run.PSFDiameterM <= 0 {
		return "psf.diameter_m: must be positive", false
	}
	return "", true
}
