package models

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/r2"
)

// CityID is the node number used by TSPLIB problem and tour files.
type CityID int

type Coordinates map[CityID]r2.Vec

// Tour is an ordered visiting sequence. The city after the last one is the first one.
type Tour []CityID

type Edge struct {
	From, To CityID
}

type Problem struct {
	Name           string
	Type           string
	Comment        string
	Dimension      int
	EdgeWeightType string
	Cities         Coordinates
}

// ConvertTourToEdges returns the edges of the closed cycle described by tour.
// A tour with fewer than two cities has no edges.
func ConvertTourToEdges(tour Tour) []Edge {
	n := len(tour)
	if n < 2 {
		return nil
	}

	tourEdges := make([]Edge, n)

	for i := 0; i < n-1; i++ {
		tourEdges[i] = Edge{From: tour[i], To: tour[i+1]}
	}
	last, first := tour[n-1], tour[0]
	tourEdges[n-1] = Edge{From: last, To: first}

	return tourEdges
}

// Points returns the coordinates of every city, ordered by id.
func (c Coordinates) Points() []r2.Vec {
	ids := c.IDs()
	points := make([]r2.Vec, len(ids))
	for i, id := range ids {
		points[i] = c[id]
	}

	return points
}

func (c Coordinates) IDs() []CityID {
	ids := make([]CityID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}
