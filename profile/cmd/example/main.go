// Example program demonstrating how to use the profile package to:
// 1. Load a 16-bit intensity image written by FourierOptics and extract a profile
// 2. Plot the profile
// 3. Draw the profile path on an 8-bit display image
//
// Usage:
//
//	go run main.go [scale]
//
// This example looks for intensity16bit.png in the current directory, written
// by FourierOptics on the same 256-point grid. If it doesn't exist, a focused
// Gaussian beam is propagated through a lens system to make synthetic test data.
package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bob-anderson-ok/FourierOptics/fieldplot"
	"github.com/bob-anderson-ok/FourierOptics/optics"
	"github.com/bob-anderson-ok/FourierOptics/profile"
)

const (
	xMax       = 2e-3 // half width of the field (m)
	numPoints  = 256
	wavelength = 633e-9 // m
	focal      = 0.5    // m
)

func main() {
	fmt.Println("Intensity Profile Example")
	fmt.Println("=========================")

	workDir, _ := os.Getwd()

	g, err := optics.NewGrid(-xMax, xMax, numPoints)
	if err != nil {
		log.Fatalf("Failed to build grid: %v", err)
	}

	// A horizontal cut slightly below center
	path, err := profile.NewPath(g, 0, 1e-4)
	if err != nil {
		log.Fatalf("Failed to compute path: %v", err)
	}

	fmt.Printf("\n  Path direction: %s", path.Direction)
	fmt.Printf("\n  Path start: (%.1f, %.1f)", path.StartX, path.StartY)
	fmt.Printf("\n  Path end: (%.1f, %.1f)\n", path.EndX, path.EndY)
	fmt.Printf("\nGenerated %d sample points along the path\n", len(path.SamplePoints))
	fmt.Printf("Path length: %.4g m\n", path.Length())

	// FourierOptics prints the scale it wrote intensity16bit.png with. Pass it
	// as the first argument; 65535 matches a peak intensity of 1.
	scale := 65535.0
	if len(os.Args) > 1 {
		scale, err = strconv.ParseFloat(os.Args[1], 64)
		if err != nil {
			log.Fatalf("Bad scale %q: %v", os.Args[1], err)
		}
	}

	intensityFile := filepath.Join(workDir, "intensity16bit.png")
	intensity, err := profile.LoadGray16PNG(intensityFile, g, scale)
	if err != nil {
		fmt.Printf("\nNote: Could not use %s: %v\n", intensityFile, err)
		fmt.Println("Using synthetic test data instead.")
		intensity, err = createTestIntensityMatrix(g)
		if err != nil {
			log.Fatalf("Failed to create test data: %v", err)
		}
	} else {
		fmt.Printf("\nLoaded intensity matrix: %dx%d pixels\n", len(intensity), len(intensity[0]))
	}

	points, err := profile.Extract(intensity, path)
	if err != nil {
		log.Fatalf("Failed to extract profile: %v", err)
	}
	fmt.Printf("Extracted %d profile points\n", len(points))

	fmt.Println("\nFirst 5 profile points:")
	for i := 0; i < 5 && i < len(points); i++ {
		fmt.Printf("  Distance: %.4g m, Intensity: %.4f\n", points[i].Distance, points[i].Intensity)
	}

	plotImg, err := fieldplot.PlotProfile(points, "Intensity along "+path.Direction, 1200, 500)
	if err != nil {
		log.Fatalf("Failed to plot profile: %v", err)
	}
	outputFile, err := fieldplot.SavePNG(workDir, "profilePlot.png", plotImg)
	if err != nil {
		log.Fatalf("Failed to save profile plot: %v", err)
	}
	fmt.Printf("\nProfile plot saved to: %s\n", outputFile)

	display, err := fieldplot.IntensityView(g, intensity, 0, 99.9)
	if err != nil {
		log.Fatalf("Failed to create display image: %v", err)
	}

	annotated := profile.DrawPathOnImage(display, path)
	annotatedFile, err := fieldplot.SavePNG(workDir, "intensityWithPath.png", annotated)
	if err != nil {
		log.Fatalf("Failed to save annotated image: %v", err)
	}
	fmt.Printf("Annotated image saved to: %s\n", annotatedFile)

	fmt.Println("\nExample complete!")
}

// createTestIntensityMatrix focuses a Gaussian beam through a 2f system and
// returns the intensity normalized to a peak of 1.
func createTestIntensityMatrix(g *optics.Grid) ([][]float64, error) {
	k := 2 * math.Pi / wavelength

	sys, err := optics.NewSpaceLensSpaceSystem(g, focal, focal, focal, optics.Diameter(3e-3), k)
	if err != nil {
		return nil, err
	}

	x := g.X()
	w := 5e-4
	amp := make([][]float64, g.N())
	for r := range amp {
		amp[r] = make([]float64, g.N())
		for c := range amp[r] {
			rr := (x[c]*x[c] + x[r]*x[r]) / (w * w)
			amp[r][c] = math.Exp(-rr)
		}
	}
	out, err := sys.Propagate(optics.FieldFromReal(amp))
	if err != nil {
		return nil, err
	}

	intensity := out.Intensity()
	peak := 0.0
	for _, row := range intensity {
		for _, v := range row {
			if v > peak {
				peak = v
			}
		}
	}
	if peak > 0 {
		for _, row := range intensity {
			for c := range row {
				row[c] /= peak
			}
		}
	}
	return intensity, nil
}
