// Package rendering computes the closed-cycle cost of a tour and draws it
// over the city coordinates of its problem.
package rendering

import (
	"fmt"

	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
	"gonum.org/v1/gonum/spatial/r2"

	"tsplib_viewer/modules/models"
	"tsplib_viewer/modules/utilities"
)

type Request struct {
	Name            string
	Cities          models.Coordinates
	Tour            models.Tour
	ShowEdgeWeights bool
	// Canvas is optional. When nil the renderer's factory creates one.
	Canvas Canvas
}

type Result struct {
	TotalCost float64
	// EdgeLengths holds one distance per tour edge, in visiting order.
	EdgeLengths []float64
	Canvas      Canvas
}

type Renderer struct {
	newCanvas CanvasFactory
	logger    *slog.Logger
}

func NewRenderer(newCanvas CanvasFactory, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Renderer{newCanvas: newCanvas, logger: logger}
}

// RenderTour draws tour on canvas (or on a new one when canvas is nil)
// and returns its total cost.
func (r *Renderer) RenderTour(name string, cities models.Coordinates, tour models.Tour, showEdgeWeights bool, canvas Canvas) (float64, error) {
	result, err := r.Render(Request{
		Name:            name,
		Cities:          cities,
		Tour:            tour,
		ShowEdgeWeights: showEdgeWeights,
		Canvas:          canvas,
	})

	return result.TotalCost, err
}

// Render draws the request and returns the total cost of the closed tour:
// the sum of distance(tour[i], tour[(i+1) mod n]) over all n positions.
// Tours with fewer than two cities cost 0 and only produce a warning.
func (r *Renderer) Render(req Request) (Result, error) {
	// Every id is resolved before drawing so a bad tour leaves the canvas untouched.
	points, err := resolve(req.Name, req.Cities, req.Tour)
	if err != nil {
		return Result{}, err
	}

	canvas := req.Canvas
	if canvas == nil {
		if r.newCanvas == nil {
			return Result{}, ErrNoCanvas
		}
		canvas = r.newCanvas(len(req.Cities))
	}

	canvas.Scatter("Cities", req.Cities.Points(), MarkerStyle{Color: LightGray, Size: 10, Layer: 5})

	numCities := len(points)

	if numCities > 0 {
		startID := req.Tour[0]
		start := points[0]
		label := fmt.Sprintf("Start/End (%d)", startID)

		canvas.Annotate(start, label, TextStyle{Color: DarkGreen, FontSize: 10, Offset: r2.Vec{X: 5, Y: 5}, Align: AlignLeft})
		canvas.Scatter(label, []r2.Vec{start}, MarkerStyle{Color: Green, Size: 50, Layer: 7})
	}

	totalCost := 0.0
	var edgeLengths []float64

	switch {
	case numCities > 1:
		edges := models.ConvertTourToEdges(req.Tour)
		edgeLengths = make([]float64, len(edges))

		for i, edge := range edges {
			from := req.Cities[edge.From]
			to := req.Cities[edge.To]

			edgeLengths[i] = utilities.Distance(from, to)

			if req.ShowEdgeWeights {
				middle := r2.Scale(0.5, r2.Add(from, to))
				canvas.Annotate(middle, fmt.Sprintf("%.1f", edgeLengths[i]), TextStyle{Color: Green, FontSize: 6, Align: AlignCenter})
			}
		}

		totalCost = utilities.TourLength(points)

		path := append(slices.Clone(points), points[0])
		canvas.Polyline("Tour", path, LineStyle{Color: Blue, Width: 1, Layer: 3})
	case numCities == 1:
		r.logger.Warn("tour contains a single city, no route is drawn", "problem", req.Name, "city", req.Tour[0])
	default:
		r.logger.Warn("tour is empty, no start/end point and no route are drawn", "problem", req.Name)
	}

	canvas.SetTitle(fmt.Sprintf("Tour for %s\nTotal cost: %.2f", req.Name, totalCost))
	canvas.SetAxisLabels("X coordinate", "Y coordinate")
	canvas.SetEqualAspect()
	canvas.ShowLegend()

	return Result{TotalCost: totalCost, EdgeLengths: edgeLengths, Canvas: canvas}, nil
}

func resolve(name string, cities models.Coordinates, tour models.Tour) ([]r2.Vec, error) {
	points := make([]r2.Vec, len(tour))

	for i, id := range tour {
		point, ok := cities[id]
		if !ok {
			return nil, &LookupError{Problem: name, Position: i, ID: id}
		}
		points[i] = point
	}

	return points, nil
}
