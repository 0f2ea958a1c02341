package statistics

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"
)

var (
	ErrNoEdges   = errors.New("tour has no edges")
	ErrNoOptimal = errors.New("optimal cost must be positive")
)

type TourStats struct {
	Edges                     int
	Min, Max                  float64
	Mean, Median, StdDev, P90 float64
	Skewness, Kurtosis        float64
}

// CalculateEdgeStats summarises the edge lengths of a tour.
// Skewness and kurtosis are 0 when every edge has the same length.
func CalculateEdgeStats(lengths []float64) (TourStats, error) {
	if len(lengths) == 0 {
		return TourStats{}, ErrNoEdges
	}

	data := stats.Float64Data(lengths)

	minWeight, err := data.Min()
	if err != nil {
		return TourStats{}, err
	}
	maxWeight, err := data.Max()
	if err != nil {
		return TourStats{}, err
	}
	avgWeight, err := data.Mean()
	if err != nil {
		return TourStats{}, err
	}
	median, err := data.Median()
	if err != nil {
		return TourStats{}, err
	}
	stdDevWeight, err := data.StandardDeviationPopulation()
	if err != nil {
		return TourStats{}, err
	}
	p90, err := data.Percentile(90)
	if err != nil {
		return TourStats{}, err
	}

	var sumOfCubes, sumOfFourthPowers float64
	for _, length := range lengths {
		diff := length - avgWeight
		cube := diff * diff * diff
		sumOfCubes += cube
		sumOfFourthPowers += cube * diff
	}

	n := float64(len(lengths))
	skewness, kurtosis := 0.0, 0.0
	if stdDevWeight > 0 {
		skewness = (sumOfCubes / n) / math.Pow(stdDevWeight, 3)
		kurtosis = (sumOfFourthPowers/n)/math.Pow(stdDevWeight, 4) - 3
	}

	return TourStats{
		Edges:    len(lengths),
		Min:      minWeight,
		Max:      maxWeight,
		Mean:     avgWeight,
		Median:   median,
		StdDev:   stdDevWeight,
		P90:      p90,
		Skewness: skewness,
		Kurtosis: kurtosis,
	}, nil
}

// Gap is how far cost lies above optimal, in percent of optimal.
func Gap(cost float64, optimal int) (float64, error) {
	if optimal <= 0 {
		return 0, ErrNoOptimal
	}

	return 100.0 * (cost - float64(optimal)) / float64(optimal), nil
}
