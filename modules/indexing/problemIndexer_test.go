package indexing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("EOF\n"), 0o644))
	}
}

func TestReadFolder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a280.tsp", "a280.opt.tour", "berlin52.tsp", "burma14.tsp", "README")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "tar_gz"), 0o755))

	entries, err := ReadFolder(dir)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	assert.Equal(t, Entry{Path: filepath.Join(dir, "README"), Name: "README"}, entries[0])
	assert.Equal(t, "burma14", entries[1].Name)
	assert.Equal(t, 14, entries[1].Size)
	assert.Equal(t, "berlin52", entries[2].Name)

	assert.Equal(t, Entry{Path: filepath.Join(dir, "a280.opt.tour"), Name: "a280", Kind: "tour", Size: 280, HasSize: true}, entries[3])
	assert.Equal(t, Entry{Path: filepath.Join(dir, "a280.tsp"), Name: "a280", Kind: "tsp", Size: 280, HasSize: true}, entries[4])
}

func TestLoadProblemsAndSolutions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a280.tsp", "a280.opt.tour", "berlin52.tsp", "berlin52.opt.tour", "pr2392.tsp", "ali535.tsp.gz")

	problems, err := LoadProblems(dir)
	require.NoError(t, err)
	assert.Len(t, problems, 3)
	for _, problem := range problems {
		assert.Equal(t, ProblemKind, problem.Kind)
	}

	solutions, err := LoadSolutions(dir)
	require.NoError(t, err)
	require.Len(t, solutions, 2)
	assert.Equal(t, "berlin52", solutions[0].Name)
	assert.Equal(t, "a280", solutions[1].Name)

	pairs := Pairs(problems, solutions)
	require.Len(t, pairs, 2)
	assert.Equal(t, "berlin52", pairs[0].Problem.Name)
	assert.Equal(t, filepath.Join(dir, "berlin52.opt.tour"), pairs[0].Tour.Path)
	assert.Equal(t, "a280", pairs[1].Problem.Name)
}

func TestReadMissingFolder(t *testing.T) {
	_, err := ReadFolder(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
