// Package profile extracts intensity cross-sections from sampled output planes
// along straight paths through the grid, and marks those paths on display
// images.
package profile

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/bob-anderson-ok/FourierOptics/optics"
)

// PathPoint is a sample along a path, in fractional (column, row) indices.
type PathPoint struct {
	X                 float64 // column index
	Y                 float64 // row index
	DistanceFromStart float64 // in samples
}

// Point is one sample of an extracted profile.
type Point struct {
	Distance  float64 // distance from the path start, in meters
	Intensity float64
}

// Path is a straight line through a square grid. The line runs along
// (cos θ, sin θ) in (column, row) space and is shifted by Offset along the
// normal (-sin θ, cos θ), both measured from the grid center.
type Path struct {
	AngleDegrees float64
	Offset       float64 // meters

	StartX, StartY float64 // fractional column/row of the entry point
	EndX, EndY     float64 // fractional column/row of the exit point
	Direction      string  // e.g. "left to right"
	SamplePoints   []PathPoint

	n  int
	dx float64
}

// side is the grid edge a path crosses.
type side string

const (
	left   side = "left"
	right  side = "right"
	top    side = "top"
	bottom side = "bottom"
)

type annotatedPoint struct {
	X, Y float64
	T    float64 // parameter along the line direction
	Side side
}

// ErrNoIntersection is returned when the path misses the grid.
var ErrNoIntersection = errors.New("profile: path does not cross the grid")

// NewPath returns the path through g at the given angle and offset, sampled
// at one-sample intervals.
func NewPath(g *optics.Grid, angleDegrees, offset float64) (*Path, error) {
	if g == nil {
		return nil, fmt.Errorf("profile: nil grid: %w", optics.ErrInvalidParameter)
	}
	if math.IsNaN(angleDegrees) || math.IsInf(angleDegrees, 0) || math.IsNaN(offset) || math.IsInf(offset, 0) {
		return nil, fmt.Errorf("profile: angle %g and offset %g must be finite: %w", angleDegrees, offset, optics.ErrInvalidParameter)
	}

	n := g.N()
	p := &Path{AngleDegrees: angleDegrees, Offset: offset, n: n, dx: g.Dx()}

	w := float64(n - 1)
	theta := angleDegrees * math.Pi / 180.0
	d := offset / g.Dx()

	start, end, err := pathSquareIntersections(w, theta, d)
	if err != nil {
		return nil, err
	}

	// Move the origin from the center to sample (0, 0).
	delta := w / 2.0
	p.StartX, p.StartY = start.X+delta, start.Y+delta
	p.EndX, p.EndY = end.X+delta, end.Y+delta
	p.Direction = fmt.Sprintf("%s to %s", start.Side, end.Side)

	p.computeSamplePoints()
	return p, nil
}

// pathSquareIntersections finds where a line crosses the square of width w
// centered on the origin and returns the entry and exit points in the order
// the line direction visits them.
func pathSquareIntersections(w, theta, d float64) (annotatedPoint, annotatedPoint, error) {
	halfW := w / 2.0

	ux, uy := math.Cos(theta), math.Sin(theta)
	x0, y0 := -d*uy, d*ux

	var hits []annotatedPoint
	if math.Abs(ux) > 1e-12 {
		for _, edge := range []struct {
			x float64
			s side
		}{{-halfW, left}, {halfW, right}} {
			t := (edge.x - x0) / ux
			y := y0 + t*uy
			if y >= -halfW-1e-9 && y <= halfW+1e-9 {
				hits = append(hits, annotatedPoint{edge.x, y, t, edge.s})
			}
		}
	}
	if math.Abs(uy) > 1e-12 {
		for _, edge := range []struct {
			y float64
			s side
		}{{-halfW, top}, {halfW, bottom}} {
			t := (edge.y - y0) / uy
			x := x0 + t*ux
			if x >= -halfW-1e-9 && x <= halfW+1e-9 {
				hits = append(hits, annotatedPoint{x, edge.y, t, edge.s})
			}
		}
	}

	hits = removeDuplicatePoints(hits, 1e-9)
	if len(hits) < 2 {
		return annotatedPoint{}, annotatedPoint{}, ErrNoIntersection
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].T < hits[j].T })
	return hits[0], hits[len(hits)-1], nil
}

func removeDuplicatePoints(pts []annotatedPoint, tol float64) []annotatedPoint {
	var result []annotatedPoint
	for _, p := range pts {
		duplicate := false
		for _, r := range result {
			if math.Abs(p.X-r.X) < tol && math.Abs(p.Y-r.Y) < tol {
				duplicate = true
				break
			}
		}
		if !duplicate {
			result = append(result, p)
		}
	}
	return result
}

// computeSamplePoints samples the path at unit steps from start to end,
// both included.
func (p *Path) computeSamplePoints() {
	xLength := p.EndX - p.StartX
	yLength := p.EndY - p.StartY
	pathLength := math.Hypot(xLength, yLength)

	p.SamplePoints = nil
	if pathLength == 0 {
		p.SamplePoints = []PathPoint{{X: p.StartX, Y: p.StartY}}
		return
	}

	steps := int(math.Round(pathLength))
	for i := 0; i <= steps; i++ {
		k := math.Min(float64(i), pathLength)
		p.SamplePoints = append(p.SamplePoints, PathPoint{
			X:                 p.StartX + k*xLength/pathLength,
			Y:                 p.StartY + k*yLength/pathLength,
			DistanceFromStart: k,
		})
	}
}

// Length returns the path length in meters.
func (p *Path) Length() float64 {
	return math.Hypot(p.EndX-p.StartX, p.EndY-p.StartY) * p.dx
}

// Extract samples m along the path with bilinear interpolation. m is indexed
// [row][column] and must be the n×n plane of the grid the path was built on.
func Extract(m [][]float64, p *Path) ([]Point, error) {
	n := p.n
	if len(m) != n {
		return nil, fmt.Errorf("profile: image has %d rows, path grid has %d: %w", len(m), n, optics.ErrShapeMismatch)
	}
	for r := range m {
		if len(m[r]) != n {
			return nil, fmt.Errorf("profile: row %d has %d columns, want %d: %w", r, len(m[r]), n, optics.ErrShapeMismatch)
		}
	}

	out := make([]Point, len(p.SamplePoints))
	for i, pt := range p.SamplePoints {
		out[i] = Point{
			Distance:  pt.DistanceFromStart * p.dx,
			Intensity: interpolate(m, pt.X, pt.Y),
		}
	}
	return out, nil
}

// interpolate performs bilinear interpolation on a square matrix at the
// fractional (column, row) position (x, y), clamped to the matrix.
func interpolate(matrix [][]float64, x, y float64) float64 {
	n := len(matrix)
	last := float64(n - 1)

	x = math.Max(0, math.Min(x, last))
	y = math.Max(0, math.Min(y, last))

	x0 := min(int(x), n-2)
	y0 := min(int(y), n-2)
	x1 := x0 + 1
	y1 := y0 + 1

	xFrac := x - float64(x0)
	yFrac := y - float64(y0)

	v00 := matrix[y0][x0]
	v01 := matrix[y0][x1]
	v10 := matrix[y1][x0]
	v11 := matrix[y1][x1]

	v0 := v00*(1-xFrac) + v01*xFrac
	v1 := v10*(1-xFrac) + v11*xFrac

	return v0*(1-yFrac) + v1*yFrac
}

// DrawPathOnImage returns a copy of img with the path drawn in red, a red dot
// at its start and a green dot at its end. img must be the same size as the
// path's grid.
func DrawPathOnImage(img image.Image, p *Path) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	drawLine(result, p.StartX, p.StartY, p.EndX, p.EndY, color.RGBA{R: 255, A: 255})
	drawDot(result, p.StartX, p.StartY, 3, color.RGBA{R: 255, A: 255})
	drawDot(result, p.EndX, p.EndY, 3, color.RGBA{G: 255, A: 255})

	return result
}

// drawLine draws a line with Bresenham's algorithm.
func drawLine(img *image.RGBA, x1, y1, x2, y2 float64, col color.Color) {
	cx, cy := int(math.Round(x1)), int(math.Round(y1))
	ex, ey := int(math.Round(x2)), int(math.Round(y2))

	dx := abs(ex - cx)
	dy := -abs(ey - cy)
	sx, sy := 1, 1
	if cx > ex {
		sx = -1
	}
	if cy > ey {
		sy = -1
	}
	err := dx + dy

	b := img.Bounds()
	for {
		if image.Pt(cx, cy).In(b) {
			img.Set(cx, cy, col)
		}
		if cx == ex && cy == ey {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			cx += sx
		}
		if e2 <= dx {
			err += dx
			cy += sy
		}
	}
}

func drawDot(img *image.RGBA, cx, cy float64, radius int, col color.Color) {
	px0, py0 := int(math.Round(cx)), int(math.Round(cy))
	b := img.Bounds()
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius && image.Pt(px0+x, py0+y).In(b) {
				img.Set(px0+x, py0+y, col)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
