// Package fieldplot renders optical fields, element kernels and intensity
// profiles to images with gonum/plot.
package fieldplot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"

	// Liberation fonts register automatically on import
	_ "gonum.org/v1/plot/font/liberation"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const dpi = 96

// ErrEmptyPlot is returned when there is nothing to draw.
var ErrEmptyPlot = errors.New("fieldplot: nothing to plot")

// StepTicks is a tick marker with a fixed step between ticks.
type StepTicks struct {
	Step   float64
	Format string
}

func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	if !(t.Step > 0) || math.IsInf(t.Step, 0) {
		return plot.DefaultTicks{}.Ticks(min, max)
	}
	var ticks []plot.Tick
	start := math.Ceil(min/t.Step) * t.Step
	for i := 0; ; i++ {
		v := start + float64(i)*t.Step
		if v > max {
			break
		}
		ticks = append(ticks, plot.Tick{
			Value: v,
			Label: fmt.Sprintf(t.Format, v),
		})
	}
	return ticks
}

// newPlot returns a plot with the Liberation Sans fonts used for every panel.
func newPlot(title string) *plot.Plot {
	p := plot.New()

	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = vg.Points(12)

	p.X.Label.TextStyle.Font.Typeface = "Liberation"
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = vg.Points(11)

	p.Y.Label.TextStyle.Font.Typeface = "Liberation"
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = vg.Points(11)

	p.X.Tick.Label.Font.Typeface = "Liberation"
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = vg.Points(9)

	p.Y.Tick.Label.Font.Typeface = "Liberation"
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = vg.Points(9)

	p.Title.Text = title
	return p
}

// render draws a grid of plots, one row per slice, into an in-memory image of
// wPx by hPx pixels.
func render(rows [][]*plot.Plot, wPx, hPx float64) (image.Image, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyPlot
	}
	if !(wPx > 0) || !(hPx > 0) {
		return nil, fmt.Errorf("fieldplot: image size %gx%g must be positive", wPx, hPx)
	}

	width := vg.Length(wPx) * vg.Inch / dpi
	height := vg.Length(hPx) * vg.Inch / dpi
	c := vgimg.New(width, height)
	dc := draw.New(c)

	t := draw.Tiles{
		Rows:      len(rows),
		Cols:      len(rows[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(rows, t, dc)
	for j := range rows {
		for i, p := range rows[j] {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}
	return c.Image(), nil
}

// SavePNG writes img as folder/name, creating folder if needed, and returns
// the path written.
func SavePNG(folder, name string, img image.Image) (path string, err error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("cannot create output folder %q: %w", folder, err)
	}
	path = filepath.Join(folder, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return path, nil
}
