// Package plotting draws tours with go-chart.
package plotting

import (
	"errors"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/r2"

	"tsplib_viewer/modules/rendering"
)

var ErrEmptyCanvas = errors.New("nothing was drawn on the canvas")

const (
	smallSide = 1000
	largeSide = 1400
	// Above this many points the larger image keeps markers apart.
	largeThreshold = 1000
	margin         = 0.05
)

type layer struct {
	order  int
	series chart.Series
}

type label struct {
	at    r2.Vec
	text  string
	style rendering.TextStyle
}

// ChartCanvas implements rendering.Canvas on top of a go-chart Chart.
type ChartCanvas struct {
	width, height int
	title         string
	xLabel        string
	yLabel        string
	equalAspect   bool
	legend        bool
	layers        []layer
	labels        []label
	min, max      r2.Vec
	empty         bool
}

var _ rendering.Canvas = (*ChartCanvas)(nil)

func NewChartCanvas(width, height int) *ChartCanvas {
	return &ChartCanvas{width: width, height: height, empty: true}
}

// NewChartCanvasFor returns a square canvas large enough for the given number of points.
func NewChartCanvasFor(points int) rendering.Canvas {
	side := smallSide
	if points >= largeThreshold {
		side = largeSide
	}

	return NewChartCanvas(side, side)
}

func (c *ChartCanvas) Scatter(name string, points []r2.Vec, style rendering.MarkerStyle) {
	if len(points) == 0 {
		return
	}

	xs, ys := c.split(points)

	c.layers = append(c.layers, layer{
		order: style.Layer,
		series: chart.ContinuousSeries{
			Name: name,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    dotWidth(style.Size),
				DotColor:    toDrawing(style.Color),
			},
			XValues: xs,
			YValues: ys,
		},
	})
}

func (c *ChartCanvas) Polyline(name string, points []r2.Vec, style rendering.LineStyle) {
	if len(points) == 0 {
		return
	}

	xs, ys := c.split(points)

	c.layers = append(c.layers, layer{
		order: style.Layer,
		series: chart.ContinuousSeries{
			Name: name,
			Style: chart.Style{
				StrokeWidth: style.Width,
				StrokeColor: toDrawing(style.Color),
			},
			XValues: xs,
			YValues: ys,
		},
	})
}

func (c *ChartCanvas) Annotate(at r2.Vec, text string, style rendering.TextStyle) {
	c.include(at)
	c.labels = append(c.labels, label{at: at, text: text, style: style})
}

func (c *ChartCanvas) SetTitle(title string) {
	c.title = strings.ReplaceAll(title, "\n", "  |  ")
}

func (c *ChartCanvas) SetAxisLabels(x, y string) {
	c.xLabel = x
	c.yLabel = y
}

func (c *ChartCanvas) SetEqualAspect() {
	c.equalAspect = true
}

func (c *ChartCanvas) ShowLegend() {
	c.legend = true
}

func (c *ChartCanvas) WritePNG(w io.Writer) error {
	return c.write(chart.PNG, w)
}

func (c *ChartCanvas) WriteSVG(w io.Writer) error {
	return c.write(chart.SVG, w)
}

// SaveFile writes an SVG when path ends in .svg and a PNG otherwise.
func (c *ChartCanvas) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		err = c.WriteSVG(file)
	} else {
		err = c.WritePNG(file)
	}
	if err != nil {
		return err
	}

	return file.Close()
}

func (c *ChartCanvas) write(provider chart.RendererProvider, w io.Writer) error {
	if len(c.layers) == 0 && len(c.labels) == 0 {
		return ErrEmptyCanvas
	}

	graph := c.build()

	return graph.Render(provider, w)
}

func (c *ChartCanvas) build() chart.Chart {
	xRange, yRange := c.ranges()

	ordered := slices.Clone(c.layers)
	slices.SortStableFunc(ordered, func(a, b layer) int {
		return a.order - b.order
	})

	series := make([]chart.Series, 0, len(ordered)+1)
	for _, l := range ordered {
		series = append(series, l.series)
	}

	if len(c.labels) > 0 {
		series = append(series, c.annotations(xRange, yRange))
	}

	graph := chart.Chart{
		Title:      c.title,
		TitleStyle: chart.Style{FontSize: 14},
		Width:      c.width,
		Height:     c.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: c.xLabel, Range: xRange},
		YAxis:      chart.YAxis{Name: c.yLabel, Range: yRange},
		Series:     series,
	}

	if c.legend {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	return graph
}

func (c *ChartCanvas) annotations(xRange, yRange *chart.ContinuousRange) chart.AnnotationSeries {
	// Pixel offsets are converted to data units with the plot scale.
	xPerPixel := (xRange.Max - xRange.Min) / float64(c.width)
	yPerPixel := (yRange.Max - yRange.Min) / float64(c.height)

	values := make([]chart.Value2, len(c.labels))
	for i, l := range c.labels {
		align := chart.TextHorizontalAlignLeft
		if l.style.Align == rendering.AlignCenter {
			align = chart.TextHorizontalAlignCenter
		}

		values[i] = chart.Value2{
			XValue: l.at.X + l.style.Offset.X*xPerPixel,
			YValue: l.at.Y + l.style.Offset.Y*yPerPixel,
			Label:  l.text,
			Style: chart.Style{
				FontSize:            l.style.FontSize,
				FontColor:           toDrawing(l.style.Color),
				TextHorizontalAlign: align,
			},
		}
	}

	return chart.AnnotationSeries{Annotations: values}
}

func (c *ChartCanvas) ranges() (*chart.ContinuousRange, *chart.ContinuousRange) {
	if c.empty {
		return &chart.ContinuousRange{Min: 0, Max: 1}, &chart.ContinuousRange{Min: 0, Max: 1}
	}

	spanX := c.max.X - c.min.X
	spanY := c.max.Y - c.min.Y

	if c.equalAspect {
		span := math.Max(spanX, spanY)
		spanX, spanY = span, span
	}
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	centre := r2.Scale(0.5, r2.Add(c.min, c.max))
	halfX := spanX * (0.5 + margin)
	halfY := spanY * (0.5 + margin)

	return &chart.ContinuousRange{Min: centre.X - halfX, Max: centre.X + halfX},
		&chart.ContinuousRange{Min: centre.Y - halfY, Max: centre.Y + halfY}
}

func (c *ChartCanvas) split(points []r2.Vec) ([]float64, []float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))

	for i, p := range points {
		c.include(p)
		xs[i] = p.X
		ys[i] = p.Y
	}

	return xs, ys
}

func (c *ChartCanvas) include(p r2.Vec) {
	if c.empty {
		c.min, c.max = p, p
		c.empty = false
		return
	}

	c.min.X = math.Min(c.min.X, p.X)
	c.min.Y = math.Min(c.min.Y, p.Y)
	c.max.X = math.Max(c.max.X, p.X)
	c.max.Y = math.Max(c.max.Y, p.Y)
}

// dotWidth maps a marker area in points squared to a go-chart dot radius.
func dotWidth(size float64) float64 {
	if size <= 0 {
		return 1
	}

	return math.Max(1, math.Sqrt(size)/2)
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
