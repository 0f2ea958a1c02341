// Package indexing lists a TSPLIB data folder and classifies its files.
package indexing

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"

	"tsplib_viewer/modules/utilities"
)

const (
	ProblemKind = "tsp"
	TourKind    = "tour"
)

// Entry is one file of the data folder. For "a280.opt.tour" the name is
// "a280", the kind "tour" and the size 280.
type Entry struct {
	Path    string
	Name    string
	Kind    string
	Size    int
	HasSize bool
}

// Pair is a problem together with a tour for the same instance.
type Pair struct {
	Problem Entry
	Tour    Entry
}

// ReadFolder returns every regular file of dir sorted by size, then name.
func ReadFolder(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if !dirEntry.Type().IsRegular() {
			continue
		}

		entries = append(entries, classify(dir, dirEntry.Name()))
	}

	slices.SortFunc(entries, compareEntries)

	return entries, nil
}

func LoadProblems(dir string) ([]Entry, error) {
	return load(dir, ProblemKind)
}

func LoadSolutions(dir string) ([]Entry, error) {
	return load(dir, TourKind)
}

// Pairs matches problems with the tour of the same name. Problems without a
// tour are skipped; when several tours share a name the first one is used.
func Pairs(problems, tours []Entry) []Pair {
	byName := make(map[string]Entry, len(tours))
	for _, tour := range tours {
		if _, exists := byName[tour.Name]; !exists {
			byName[tour.Name] = tour
		}
	}

	pairs := []Pair{}
	for _, problem := range problems {
		if tour, ok := byName[problem.Name]; ok {
			pairs = append(pairs, Pair{Problem: problem, Tour: tour})
		}
	}

	return pairs
}

func load(dir, kind string) ([]Entry, error) {
	entries, err := ReadFolder(dir)
	if err != nil {
		return nil, err
	}

	filtered := []Entry{}
	for _, entry := range entries {
		if entry.Kind == kind {
			filtered = append(filtered, entry)
		}
	}

	return filtered, nil
}

func classify(dir, fileName string) Entry {
	entry := Entry{Path: filepath.Join(dir, fileName)}

	entry.Name, _, _ = strings.Cut(fileName, ".")
	if dot := strings.LastIndex(fileName, "."); dot >= 0 {
		entry.Kind = fileName[dot+1:]
	}

	if size, err := utilities.ExtractSizeSuffix(entry.Name); err == nil {
		entry.Size = size
		entry.HasSize = true
	}

	return entry
}

func compareEntries(a, b Entry) int {
	if a.Size != b.Size {
		return a.Size - b.Size
	}

	return strings.Compare(a.Path, b.Path)
}
