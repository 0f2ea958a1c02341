package rendering

import (
	"gonum.org/v1/gonum/spatial/r2"
)

type scatterCall struct {
	label  string
	points []r2.Vec
	style  MarkerStyle
}

type polylineCall struct {
	label  string
	points []r2.Vec
	style  LineStyle
}

type annotation struct {
	at    r2.Vec
	text  string
	style TextStyle
}

type recordingCanvas struct {
	scatters    []scatterCall
	polylines   []polylineCall
	annotations []annotation
	title       string
	xLabel      string
	yLabel      string
	equalAspect bool
	legend      bool
}

func (c *recordingCanvas) Scatter(label string, points []r2.Vec, style MarkerStyle) {
	c.scatters = append(c.scatters, scatterCall{label: label, points: points, style: style})
}

func (c *recordingCanvas) Polyline(label string, points []r2.Vec, style LineStyle) {
	c.polylines = append(c.polylines, polylineCall{label: label, points: points, style: style})
}

func (c *recordingCanvas) Annotate(at r2.Vec, text string, style TextStyle) {
	c.annotations = append(c.annotations, annotation{at: at, text: text, style: style})
}

func (c *recordingCanvas) SetTitle(title string) { c.title = title }

func (c *recordingCanvas) SetAxisLabels(x, y string) {
	c.xLabel = x
	c.yLabel = y
}

func (c *recordingCanvas) SetEqualAspect() { c.equalAspect = true }

func (c *recordingCanvas) ShowLegend() { c.legend = true }

func (c *recordingCanvas) touched() bool {
	return len(c.scatters)+len(c.polylines)+len(c.annotations) > 0 || c.title != "" || c.legend
}
