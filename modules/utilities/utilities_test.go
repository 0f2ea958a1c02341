package utilities

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 3, Y: 4}))
	assert.Equal(t, 5.0, Distance(r2.Vec{X: 3, Y: 4}, r2.Vec{X: 0, Y: 0}))
	assert.Equal(t, 0.0, Distance(r2.Vec{X: 1.5, Y: -2}, r2.Vec{X: 1.5, Y: -2}))
	assert.Equal(t, math.Sqrt(2), Distance(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 1}))
}

func TestTourLengthClosesTheCycle(t *testing.T) {
	points := []r2.Vec{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}

	assert.Equal(t, 12.0, TourLength(points))
}

func TestTourLengthDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, TourLength(nil))
	assert.Equal(t, 0.0, TourLength([]r2.Vec{{X: 10, Y: 10}}))
	assert.Equal(t, 2.0, TourLength([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}))
}

func TestExtractSizeSuffix(t *testing.T) {
	size, err := ExtractSizeSuffix("a280")
	require.NoError(t, err)
	assert.Equal(t, 280, size)

	size, err = ExtractSizeSuffix("pr2392")
	require.NoError(t, err)
	assert.Equal(t, 2392, size)

	size, err = ExtractSizeSuffix("ali535")
	require.NoError(t, err)
	assert.Equal(t, 535, size)

	_, err = ExtractSizeSuffix("berlin")
	assert.ErrorIs(t, err, ErrNoNumber)

	_, err = ExtractSizeSuffix("1abc")
	assert.ErrorIs(t, err, ErrNoNumber)
}

func TestFilterStrings(t *testing.T) {
	filtered := FilterStrings([]string{"a280.tsp", "a280.opt.tour", "berlin52.tsp"}, func(s string) bool {
		return strings.HasSuffix(s, ".tsp")
	})

	assert.Equal(t, []string{"a280.tsp", "berlin52.tsp"}, filtered)
}
