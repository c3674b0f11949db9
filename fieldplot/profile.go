package fieldplot

import (
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/bob-anderson-ok/FourierOptics/profile"
)

// ProfilePlot returns a line plot of an intensity cross-section.
func ProfilePlot(points []profile.Point, title string) (*plot.Plot, error) {
	if len(points) < 2 {
		return nil, ErrEmptyPlot
	}

	p := newPlot(title)
	span := points[len(points)-1].Distance - points[0].Distance
	p.X.Label.Text = "distance along path"
	p.Y.Label.Text = "intensity"
	p.X.Tick.Marker = StepTicks{Step: span / 10, Format: "%.3g"}
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(points))
	for i, pt := range points {
		pts[i].X = pt.Distance
		pts[i].Y = pt.Intensity
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("fieldplot: profile: %w", err)
	}
	line.Color = color.RGBA{R: 0, G: 0, B: 255, A: 255} // blue
	p.Add(line)

	hpts := plotter.XYs{
		{X: points[0].Distance, Y: 0.0},
		{X: points[len(points)-1].Distance, Y: 0.0},
	}
	hline, err := plotter.NewLine(hpts)
	if err != nil {
		return nil, fmt.Errorf("fieldplot: profile: %w", err)
	}
	hline.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	hline.Color = color.RGBA{R: 0, G: 0, B: 0, A: 255} // black
	p.Add(hline)

	return p, nil
}

// PlotProfile renders ProfilePlot into an image of wPx by hPx pixels.
func PlotProfile(points []profile.Point, title string, wPx, hPx float64) (image.Image, error) {
	p, err := ProfilePlot(points, title)
	if err != nil {
		return nil, err
	}
	return render([][]*plot.Plot{{p}}, wPx, hPx)
}
