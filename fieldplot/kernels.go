package fieldplot

import (
	"fmt"
	"image"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"

	"github.com/bob-anderson-ok/FourierOptics/optics"
)

// KernelExtent returns the axes a kernel is sampled on. Free-space kernels
// live on the frequency axis; every other kernel is sampled in position.
func KernelExtent(e *optics.Element) [4]float64 {
	if e.Kind() == optics.FreeSpace {
		return e.Grid().FrequencyExtent()
	}
	return e.Grid().PositionExtent()
}

// PlotKernels renders the real part of every stage kernel of p in one row.
// zoomPosition and zoomFrequency bound position and frequency panels
// respectively; 0 shows the whole grid.
func PlotKernels(p *optics.Pipeline, zoomPosition, zoomFrequency float64, wPx, hPx float64) (image.Image, error) {
	elements := p.Elements()
	row := make([]*plot.Plot, len(elements))
	for i, e := range elements {
		zoom := zoomPosition
		unit := "x"
		if e.Kind() == optics.FreeSpace {
			zoom = zoomFrequency
			unit = "ν"
		}

		g, err := newMatrixGrid(e.Kernel().Real(), KernelExtent(e), zoom)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, e.Kind(), err)
		}
		panel := heatPanel(fmt.Sprintf("%d: %s", i+1, e.Kind()), g, palette.Heat(256, 1))
		panel.X.Label.Text = unit
		row[i] = panel
	}
	return render([][]*plot.Plot{row}, wPx, hPx)
}
