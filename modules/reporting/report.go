package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"tsplib_viewer/modules/statistics"
)

type Row struct {
	Problem    string
	Dimension  int
	TourCost   float64
	Optimal    int
	HasOptimal bool
	Gap        float64
	// Edges is only written when HasEdges is set; tours with fewer than two cities have none.
	Edges    statistics.TourStats
	HasEdges bool
	Image    string
}

var header = []string{
	"Problem",
	"Dimension",
	"Tour cost",
	"Optimal cost",
	"Gap [%]",
	"Edges",
	"Min edge",
	"Mean edge",
	"Median edge",
	"Max edge",
	"Edge std dev",
	"P90 edge",
	"Edge skewness",
	"Edge kurtosis",
	"Image"}

func SaveReport(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteReport(file, rows); err != nil {
		return err
	}

	return file.Close()
}

func WriteReport(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return err
	}

	floatFormat := "%.2f"
	for _, row := range rows {
		optimal, gap := "", ""
		if row.HasOptimal {
			optimal = strconv.Itoa(row.Optimal)
			gap = fmt.Sprintf(floatFormat, row.Gap)
		}

		edgeCells := make([]string, 9)
		if row.HasEdges {
			edges := row.Edges
			edgeCells[0] = strconv.Itoa(edges.Edges)
			for i, value := range []float64{edges.Min, edges.Mean, edges.Median, edges.Max, edges.StdDev, edges.P90, edges.Skewness, edges.Kurtosis} {
				edgeCells[i+1] = fmt.Sprintf(floatFormat, value)
			}
		}

		record := []string{
			row.Problem,
			strconv.Itoa(row.Dimension),
			fmt.Sprintf(floatFormat, row.TourCost),
			optimal,
			gap,
		}
		record = append(record, edgeCells...)
		record = append(record, row.Image)

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}
