package utilities

import (
	"errors"
	"math"
	"regexp"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

var ErrNoNumber = errors.New("no number found in the string")

var sizeSuffix = regexp.MustCompile(`(\d+)$`)

// Distance is the Euclidean distance sqrt((x2-x1)^2 + (y2-y1)^2).
func Distance(from, to r2.Vec) float64 {
	dx := to.X - from.X
	dy := to.Y - from.Y

	return math.Sqrt(dx*dx + dy*dy)
}

// TourLength sums the distances of the closed cycle through points,
// including the edge from the last point back to the first.
// Fewer than two points have length 0.
func TourLength(points []r2.Vec) float64 {
	sum := 0.0
	p := len(points)

	if p < 2 {
		return 0
	}

	for i := 0; i < p; i++ {
		sum += Distance(points[i], points[(i+1)%p])
	}

	return sum
}

// ExtractSizeSuffix returns the number the input ends with, e.g. 280 for "a280".
func ExtractSizeSuffix(input string) (int, error) {
	match := sizeSuffix.FindString(input)

	if match == "" {
		return 0, ErrNoNumber
	}

	number, err := strconv.Atoi(match)
	if err != nil {
		return 0, err
	}

	return number, nil
}

func FilterStrings(strings []string, condition func(string) bool) []string {
	result := []string{}

	for _, str := range strings {
		if condition(str) {
			result = append(result, str)
		}
	}

	return result
}
