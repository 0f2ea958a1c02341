package rendering

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Canvas is a 2D drawing surface in data coordinates.
// Implementations are not expected to be safe for concurrent use.
type Canvas interface {
	Scatter(label string, points []r2.Vec, style MarkerStyle)
	Polyline(label string, points []r2.Vec, style LineStyle)
	Annotate(at r2.Vec, text string, style TextStyle)
	SetTitle(title string)
	SetAxisLabels(x, y string)
	SetEqualAspect()
	ShowLegend()
}

// CanvasFactory creates a canvas sized for the given number of points.
type CanvasFactory func(points int) Canvas

type MarkerStyle struct {
	Color color.RGBA
	Size  float64
	Layer int
}

type LineStyle struct {
	Color color.RGBA
	Width float64
	Layer int
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

type TextStyle struct {
	Color    color.RGBA
	FontSize float64
	// Offset is in pixels from the anchor point.
	Offset r2.Vec
	Align  Align
}

var (
	LightGray = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	Green     = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	DarkGreen = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	Blue      = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)
