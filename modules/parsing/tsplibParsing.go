package parsing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/readahead"
	"gonum.org/v1/gonum/spatial/r2"

	"tsplib_viewer/modules/models"
)

var (
	ErrNoCoordinates = errors.New("no NODE_COORD_SECTION or DISPLAY_DATA_SECTION found")
	ErrNoTour        = errors.New("no TOUR_SECTION found")
)

type section int

const (
	header section = iota
	nodeCoords
	displayData
	tourNodes
	other
)

func ParseProblemFile(path string) (models.Problem, error) {
	var problem models.Problem

	err := withFile(path, func(r io.Reader) error {
		var err error
		problem, err = ParseProblem(r)
		return err
	})

	return problem, err
}

func ParseTourFile(path string) (name string, tour models.Tour, err error) {
	err = withFile(path, func(r io.Reader) error {
		name, tour, err = ParseTour(r)
		return err
	})

	return name, tour, err
}

// ParseProblem reads a TSPLIB problem and returns its city coordinates.
// Coordinates come from NODE_COORD_SECTION, or from DISPLAY_DATA_SECTION
// for explicit-weight problems that only carry display positions.
func ParseProblem(r io.Reader) (models.Problem, error) {
	problem := models.Problem{}
	nodeCities := models.Coordinates{}
	displayCities := models.Coordinates{}

	scanner := bufio.NewScanner(r)
	current := header
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "EOF" {
			break
		}

		if next, ok := sectionStart(line); ok {
			current = next
			continue
		}

		if key, value, ok := keyValue(line); ok {
			current = header
			if err := setHeader(&problem, key, value); err != nil {
				return models.Problem{}, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			continue
		}

		var target models.Coordinates
		switch current {
		case nodeCoords:
			target = nodeCities
		case displayData:
			target = displayCities
		default:
			continue
		}

		id, point, err := parseCoordinate(line)
		if err != nil {
			return models.Problem{}, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if _, exists := target[id]; exists {
			return models.Problem{}, fmt.Errorf("line %d: duplicate city %d", lineNumber, id)
		}
		target[id] = point
	}

	if err := scanner.Err(); err != nil {
		return models.Problem{}, err
	}

	problem.Cities = nodeCities
	if len(problem.Cities) == 0 {
		problem.Cities = displayCities
	}
	if len(problem.Cities) == 0 {
		return models.Problem{}, fmt.Errorf("%s: %w", problem.Name, ErrNoCoordinates)
	}

	if problem.Dimension != 0 && problem.Dimension != len(problem.Cities) {
		return models.Problem{}, fmt.Errorf("the number of cities (%d) does not match the dimension (%d)", len(problem.Cities), problem.Dimension)
	}

	return problem, nil
}

// ParseTour reads a TSPLIB tour file. The TOUR_SECTION ends at -1 or EOF.
func ParseTour(r io.Reader) (name string, tour models.Tour, err error) {
	scanner := bufio.NewScanner(r)
	current := header
	found := false
	dimension := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "EOF" {
			break
		}

		if next, ok := sectionStart(line); ok {
			current = next
			found = found || next == tourNodes
			continue
		}

		if current != tourNodes {
			if key, value, ok := keyValue(line); ok {
				switch key {
				case "NAME":
					name = value
				case "DIMENSION":
					dimension, err = strconv.Atoi(value)
					if err != nil {
						return "", nil, err
					}
				}
			}
			continue
		}

		done := false
		for _, field := range strings.Fields(line) {
			id, err := strconv.Atoi(field)
			if err != nil {
				return "", nil, err
			}
			if id == -1 {
				done = true
				break
			}
			tour = append(tour, models.CityID(id))
		}
		if done {
			current = other
		}
	}

	if err := scanner.Err(); err != nil {
		return "", nil, err
	}

	if !found {
		return "", nil, ErrNoTour
	}

	if dimension != 0 && dimension != len(tour) {
		return "", nil, fmt.Errorf("the tour length (%d) does not match the dimension (%d)", len(tour), dimension)
	}

	return name, tour, nil
}

func setHeader(problem *models.Problem, key, value string) error {
	switch key {
	case "NAME":
		problem.Name = value
	case "TYPE":
		problem.Type = value
	case "COMMENT":
		if problem.Comment != "" {
			problem.Comment += "; "
		}
		problem.Comment += value
	case "DIMENSION":
		dimension, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		problem.Dimension = dimension
	case "EDGE_WEIGHT_TYPE":
		problem.EdgeWeightType = value
	}

	return nil
}

func sectionStart(line string) (section, bool) {
	switch strings.TrimSpace(strings.TrimSuffix(line, ":")) {
	case "NODE_COORD_SECTION":
		return nodeCoords, true
	case "DISPLAY_DATA_SECTION":
		return displayData, true
	case "TOUR_SECTION":
		return tourNodes, true
	case "EDGE_WEIGHT_SECTION", "FIXED_EDGES_SECTION", "DEMAND_SECTION", "DEPOT_SECTION", "EDGE_DATA_SECTION":
		return other, true
	}

	return header, false
}

// keyValue splits "KEY : value" and "KEY: value" header lines.
func keyValue(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}

	key = strings.TrimSpace(key)
	if !isKeyword(key) {
		return "", "", false
	}

	return key, strings.TrimSpace(value), true
}

func isKeyword(key string) bool {
	if key == "" {
		return false
	}

	for _, r := range key {
		if (r < 'A' || r > 'Z') && r != '_' {
			return false
		}
	}

	return true
}

func parseCoordinate(line string) (models.CityID, r2.Vec, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, r2.Vec{}, fmt.Errorf("expected \"id x y\", got %q", line)
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, r2.Vec{}, err
	}

	x, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, r2.Vec{}, err
	}

	y, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, r2.Vec{}, err
	}

	return models.CityID(id), r2.Vec{X: x, Y: y}, nil
}

func withFile(path string, parse func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := readahead.NewReader(file)
	defer reader.Close()

	if err := parse(reader); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
