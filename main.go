package main

import (
	"fmt"
	"image"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/bob-anderson-ok/FourierOptics/fieldplot"
	"github.com/bob-anderson-ok/FourierOptics/internal/config"
	"github.com/bob-anderson-ok/FourierOptics/internal/scene"
	"github.com/bob-anderson-ok/FourierOptics/optics"
	"github.com/bob-anderson-ok/FourierOptics/profile"
)

const version = "1_0_0"

// outputs collects the images written by a run for later display.
type outputs struct {
	input, kernels, output, intensity, profile image.Image
}

func main() {

	programStart := time.Now()

	args := os.Args
	if len(args) != 2 {
		fmt.Println("\n\tWrong number of arguments.\n\tUsage: FourierOptics <parameter-file>")
		os.Exit(1)
	}

	path := args[1]

	run, data, err := config.Load(path)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tProblem with parameter file: %w\n", err))
		os.Exit(2)
	}

	// Check for user wanting printout of complete parameter file
	if run.ShowInput {
		fmt.Printf("%s", "\nPrintout of complete parameter file contents...\n")
		fmt.Println(string(data))
	}

	fmt.Printf("\nVersion %s\n\n", version)

	// An image source fixes the number of grid points.
	var sourceImage *image.Gray
	if run.SourceKind == config.SourceImage {
		sourceImage, err = scene.LoadSourceImage(run.PathToImage)
		if err != nil {
			fmt.Println(fmt.Errorf("\n\tAttempt to read source image %q failed: %w\n", run.PathToImage, err))
			os.Exit(3)
		}
		if err := run.FitSourceImage(sourceImage.Bounds().Dx()); err != nil {
			fmt.Println(fmt.Errorf("\n\tProblem with parameter file: %w\n", err))
			os.Exit(3)
		}
	}

	g, err := scene.NewGrid(run)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tInvalid grid: %w", err))
		os.Exit(4)
	}

	wavelengthM := run.WavelengthNm * 1e-9
	fmt.Printf("Grid is %d x %d points, spacing %0.3g m, frequency spacing %0.3g 1/m\n", g.N(), g.N(), g.Dx(), g.Dnu())
	// Free-space kernels are sampled without aliasing up to N*dx^2/lambda.
	criticalDistance := float64(g.N()) * g.Dx() * g.Dx() / wavelengthM
	fmt.Printf("Critical propagation distance is %0.4g m (distances a=%0.4g m, b=%0.4g m)\n\n",
		criticalDistance, run.DistanceAM, run.DistanceBM)

	start := time.Now()
	sys, err := scene.Build(run, g)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tBuilding the optical system failed: %w", err))
		os.Exit(5)
	}
	for i, e := range sys.Pipeline.Elements() {
		fmt.Printf("  stage %d: %s (%s domain)\n", i+1, e, e.Domain())
	}
	if sys.Blur != nil {
		fmt.Printf("  output blur: %s\n", sys.Blur)
	}
	fmt.Printf("Kernel construction took %s, %d transforms per propagation\n\n", time.Since(start), sys.Pipeline.Transforms())

	in, err := scene.Source(run, g, sourceImage)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tBuilding the source field failed: %w", err))
		os.Exit(6)
	}

	start = time.Now()
	out, intensity, err := sys.Propagate(in)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tPropagation failed: %w", err))
		os.Exit(7)
	}
	fmt.Printf("Propagation took %s\n", time.Since(start))

	start = time.Now()
	imgs, err := writeOutputs(run, g, sys, in, out, intensity)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tWriting outputs failed: %w", err))
		os.Exit(8)
	}
	fmt.Printf("Writing images to %q took %s\n", run.OutputFolder, time.Since(start))

	fmt.Printf("\nTotal program run time is %s\n", time.Since(programStart))

	if run.WindowSizePixels > 0 {
		showWindows(run, imgs)
	}
}

func writeOutputs(run *config.Run, g *optics.Grid, sys *scene.System, in, out optics.Field, intensity [][]float64) (outputs, error) {
	var imgs outputs
	var err error
	save := func(name string, img image.Image) error {
		_, err := fieldplot.SavePNG(run.OutputFolder, name, img)
		return err
	}

	imgs.input, err = fieldplot.PlotField(in, g.PositionExtent(), "input", run.ZoomM, 1200, 550)
	if err != nil {
		return imgs, fmt.Errorf("input plot: %w", err)
	}
	if err := save("input.png", imgs.input); err != nil {
		return imgs, err
	}

	imgs.kernels, err = fieldplot.PlotKernels(sys.Pipeline, run.ZoomM, 0, 400*float64(len(sys.Pipeline.Stages())), 400)
	if err != nil {
		return imgs, fmt.Errorf("kernel plot: %w", err)
	}
	if err := save("kernels.png", imgs.kernels); err != nil {
		return imgs, err
	}

	imgs.output, err = fieldplot.PlotField(out, g.PositionExtent(), "output", run.ZoomM, 1200, 550)
	if err != nil {
		return imgs, fmt.Errorf("output plot: %w", err)
	}
	if err := save("output.png", imgs.output); err != nil {
		return imgs, err
	}

	// Make a user-friendly .png of the output intensity
	view, err := fieldplot.IntensityView(g, intensity, 0.0, 99.9)
	if err != nil {
		return imgs, fmt.Errorf("creation of the display image failed: %w", err)
	}
	imgs.intensity = view

	// and the scientific version, with the peak at full scale
	scale, err := fieldplot.WriteIntensity16(run.OutputFolder, "intensity16bit.png", g, intensity)
	if err != nil {
		return imgs, fmt.Errorf("creation of the 16 bit image failed: %w", err)
	}
	fmt.Printf("16 bit intensity image: pixel value = intensity * %0.6g\n", scale)

	if run.ProfileGiven {
		path, err := profile.NewPath(g, run.ProfileAngleDegrees, run.ProfileOffsetM)
		if err != nil {
			return imgs, fmt.Errorf("profile path: %w", err)
		}
		fmt.Printf("Profile runs %s over %0.4g m\n", path.Direction, path.Length())

		points, err := profile.Extract(intensity, path)
		if err != nil {
			return imgs, err
		}
		imgs.profile, err = fieldplot.PlotProfile(points, "Intensity along "+path.Direction, 1200, 500)
		if err != nil {
			return imgs, fmt.Errorf("profile plot: %w", err)
		}
		if err := save("profile.png", imgs.profile); err != nil {
			return imgs, err
		}
		imgs.intensity = profile.DrawPathOnImage(view, path)
	}

	if err := save("intensity8bit.png", imgs.intensity); err != nil {
		return imgs, err
	}
	return imgs, nil
}

func showWindows(run *config.Run, imgs outputs) {
	size := float32(run.WindowSizePixels)

	// We supply an ID (hopefully unique) because we may need to use the preferences API
	myApp := app.NewWithID("com.gmail.ok.anderson.bob.fourieroptics")

	newImageWindow := func(title string, img image.Image, w, h float32) fyne.Window {
		c := canvas.NewImageFromImage(img)
		c.FillMode = canvas.ImageFillContain
		c.SetMinSize(fyne.NewSize(w, h))

		win := myApp.NewWindow(title)
		win.SetContent(container.NewStack(c))
		win.Resize(fyne.NewSize(w, h))
		return win
	}

	title := run.Title
	if title == "" {
		title = "FourierOptics"
	}

	w := newImageWindow(title+" - output intensity", imgs.intensity, size, size)
	w.SetPadded(false)
	w.CenterOnScreen()

	newImageWindow("Input field", imgs.input, 1.6*size, 0.75*size).Show()
	newImageWindow("Stage kernels", imgs.kernels, 2*size, 0.5*size).Show()
	newImageWindow("Output field", imgs.output, 1.6*size, 0.75*size).Show()
	if imgs.profile != nil {
		newImageWindow("Intensity profile", imgs.profile, 1.9*size, 0.8*size).Show()
	}

	w.ShowAndRun()
}
