package rendering

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
	"gonum.org/v1/gonum/spatial/r2"

	"tsplib_viewer/modules/models"
)

const (
	cityA models.CityID = 1
	cityB models.CityID = 2
	cityC models.CityID = 3
	cityZ models.CityID = 26
)

func triangle() models.Coordinates {
	return models.Coordinates{
		cityA: {X: 0, Y: 0},
		cityB: {X: 3, Y: 0},
		cityC: {X: 3, Y: 4},
	}
}

func newTestRenderer() (*Renderer, *bytes.Buffer) {
	var notices bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&notices, nil))

	return NewRenderer(nil, logger), &notices
}

func TestRenderTriangle(t *testing.T) {
	renderer, notices := newTestRenderer()
	canvas := &recordingCanvas{}

	result, err := renderer.Render(Request{Name: "triangle3", Cities: triangle(), Tour: models.Tour{cityA, cityB, cityC}, Canvas: canvas})
	require.NoError(t, err)

	assert.Equal(t, 12.0, result.TotalCost)
	assert.Equal(t, []float64{3, 4, 5}, result.EdgeLengths)
	assert.Same(t, canvas, result.Canvas)
	assert.Empty(t, notices.String())

	require.Len(t, canvas.polylines, 1)
	path := canvas.polylines[0].points
	assert.Equal(t, []r2.Vec{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}, {X: 0, Y: 0}}, path)
	assert.Equal(t, "Tour", canvas.polylines[0].label)

	require.Len(t, canvas.scatters, 2)
	assert.Equal(t, "Cities", canvas.scatters[0].label)
	assert.Len(t, canvas.scatters[0].points, 3)
	assert.Equal(t, "Start/End (1)", canvas.scatters[1].label)
	assert.Equal(t, []r2.Vec{{X: 0, Y: 0}}, canvas.scatters[1].points)

	require.Len(t, canvas.annotations, 1)
	assert.Equal(t, "Start/End (1)", canvas.annotations[0].text)

	assert.Equal(t, "Tour for triangle3\nTotal cost: 12.00", canvas.title)
	assert.Equal(t, "X coordinate", canvas.xLabel)
	assert.Equal(t, "Y coordinate", canvas.yLabel)
	assert.True(t, canvas.equalAspect)
	assert.True(t, canvas.legend)
}

func TestRenderEdgeWeights(t *testing.T) {
	renderer, _ := newTestRenderer()
	canvas := &recordingCanvas{}

	result, err := renderer.Render(Request{Name: "triangle3", Cities: triangle(), Tour: models.Tour{cityA, cityB, cityC}, ShowEdgeWeights: true, Canvas: canvas})
	require.NoError(t, err)
	assert.Equal(t, 12.0, result.TotalCost)

	require.Len(t, canvas.annotations, 4)
	weights := canvas.annotations[1:]
	assert.Equal(t, annotation{at: r2.Vec{X: 1.5, Y: 0}, text: "3.0", style: weights[0].style}, weights[0])
	assert.Equal(t, annotation{at: r2.Vec{X: 3, Y: 2}, text: "4.0", style: weights[1].style}, weights[1])
	assert.Equal(t, annotation{at: r2.Vec{X: 1.5, Y: 2}, text: "5.0", style: weights[2].style}, weights[2])
	assert.Equal(t, AlignCenter, weights[0].style.Align)
}

func TestEdgeWeightsDoNotChangeCost(t *testing.T) {
	renderer, _ := newTestRenderer()
	cities := models.Coordinates{
		1: {X: 0.5, Y: 7.25},
		2: {X: 13.1, Y: -2},
		3: {X: 8.8, Y: 9.9},
		4: {X: -4, Y: 3.3},
		5: {X: 2, Y: 2},
	}
	tour := models.Tour{1, 4, 2, 5, 3}

	plain, err := renderer.RenderTour("five", cities, tour, false, &recordingCanvas{})
	require.NoError(t, err)
	annotated, err := renderer.RenderTour("five", cities, tour, true, &recordingCanvas{})
	require.NoError(t, err)

	assert.Equal(t, plain, annotated)
}

func TestCostIsRotationAndReversalInvariant(t *testing.T) {
	renderer, _ := newTestRenderer()
	cities := models.Coordinates{
		1: {X: 0, Y: 0},
		2: {X: 10, Y: 0},
		3: {X: 10, Y: 10},
		4: {X: 0, Y: 10},
	}

	base, err := renderer.RenderTour("square", cities, models.Tour{1, 2, 3, 4}, false, &recordingCanvas{})
	require.NoError(t, err)
	assert.Equal(t, 40.0, base)

	rotated, err := renderer.RenderTour("square", cities, models.Tour{3, 4, 1, 2}, false, &recordingCanvas{})
	require.NoError(t, err)
	assert.InDelta(t, base, rotated, 1e-9)

	canvas := &recordingCanvas{}
	reversed, err := renderer.RenderTour("square", cities, models.Tour{4, 3, 2, 1}, false, canvas)
	require.NoError(t, err)
	assert.InDelta(t, base, reversed, 1e-9)
	assert.Equal(t, "Start/End (4)", canvas.annotations[0].text)
}

func TestRenderSingleCity(t *testing.T) {
	renderer, notices := newTestRenderer()
	canvas := &recordingCanvas{}

	result, err := renderer.Render(Request{Name: "triangle3", Cities: triangle(), Tour: models.Tour{cityA}, Canvas: canvas})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.TotalCost)
	assert.Empty(t, result.EdgeLengths)
	assert.Empty(t, canvas.polylines)
	require.Len(t, canvas.scatters, 2)
	assert.Equal(t, []r2.Vec{{X: 0, Y: 0}}, canvas.scatters[1].points)
	assert.Equal(t, "Tour for triangle3\nTotal cost: 0.00", canvas.title)
	assert.Contains(t, notices.String(), "single city")
	assert.Contains(t, notices.String(), "level=WARN")
}

func TestRenderEmptyTour(t *testing.T) {
	renderer, notices := newTestRenderer()
	canvas := &recordingCanvas{}

	result, err := renderer.Render(Request{Name: "triangle3", Cities: triangle(), Canvas: canvas})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.TotalCost)
	assert.Empty(t, canvas.polylines)
	assert.Empty(t, canvas.annotations)
	require.Len(t, canvas.scatters, 1)
	assert.Equal(t, "Cities", canvas.scatters[0].label)
	assert.Len(t, canvas.scatters[0].points, 3)
	assert.Contains(t, notices.String(), "tour is empty")
}

func TestRenderUnknownCity(t *testing.T) {
	renderer, _ := newTestRenderer()
	canvas := &recordingCanvas{}
	cities := models.Coordinates{cityA: {X: 0, Y: 0}}

	result, err := renderer.Render(Request{Name: "broken", Cities: cities, Tour: models.Tour{cityA, cityZ}, Canvas: canvas})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrUnknownCity)

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, cityZ, lookupErr.ID)
	assert.Equal(t, 1, lookupErr.Position)
	assert.Equal(t, "broken", lookupErr.Problem)

	assert.Equal(t, 0.0, result.TotalCost)
	assert.False(t, canvas.touched())
}

func TestRenderUsesFactory(t *testing.T) {
	var requested int
	created := &recordingCanvas{}
	renderer := NewRenderer(func(points int) Canvas {
		requested = points
		return created
	}, nil)

	result, err := renderer.Render(Request{Name: "triangle3", Cities: triangle(), Tour: models.Tour{cityC, cityB, cityA}})
	require.NoError(t, err)

	assert.Equal(t, 3, requested)
	assert.Same(t, created, result.Canvas)
	assert.Equal(t, 12.0, result.TotalCost)
}

func TestRenderWithoutCanvas(t *testing.T) {
	renderer, _ := newTestRenderer()

	_, err := renderer.Render(Request{Name: "triangle3", Cities: triangle(), Tour: models.Tour{cityA}})
	assert.ErrorIs(t, err, ErrNoCanvas)
}

func TestRenderEdgeLengthsFollowTourEdges(t *testing.T) {
	renderer, _ := newTestRenderer()
	canvas := &recordingCanvas{}

	square := models.Coordinates{
		1: {X: 0, Y: 0},
		2: {X: 10, Y: 0},
		3: {X: 10, Y: 10},
		4: {X: 0, Y: 10},
	}
	tour := models.Tour{1, 3, 2, 4}

	result, err := renderer.Render(Request{Name: "square4", Cities: square, Tour: tour, Canvas: canvas})
	require.NoError(t, err)

	edges := models.ConvertTourToEdges(tour)
	require.Len(t, result.EdgeLengths, len(edges))
	assert.Equal(t, models.Edge{From: 4, To: 1}, edges[len(edges)-1])

	diagonal := 10 * math.Sqrt2
	assert.InDeltaSlice(t, []float64{diagonal, 10, diagonal, 10}, result.EdgeLengths, 1e-9)

	sum := 0.0
	for _, length := range result.EdgeLengths {
		sum += length
	}
	assert.InDelta(t, sum, result.TotalCost, 1e-9)
	assert.InDelta(t, 20+2*diagonal, result.TotalCost, 1e-9)
}
