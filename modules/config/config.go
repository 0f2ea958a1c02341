// Package config reads the YAML configuration of the viewer. Every URL and
// folder used by the pipeline comes from here.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Archive     ArchiveOptions  `yaml:"archive"`
	Solutions   SolutionOptions `yaml:"solutions"`
	Render      RenderOptions   `yaml:"render"`
	Report      string          `yaml:"report"`
	LogLevel    slog.Level      `yaml:"log-level"`
	HTTPTimeout time.Duration   `yaml:"http-timeout"`
}

type ArchiveOptions struct {
	URL        string `yaml:"url"`
	BaseDir    string `yaml:"base-dir"`
	ArchiveDir string `yaml:"archive-dir"`
	Workers    int    `yaml:"workers"`
}

type SolutionOptions struct {
	URL   string `yaml:"url"`
	Cache string `yaml:"cache"`
}

type RenderOptions struct {
	OutputDir       string `yaml:"output-dir"`
	Format          string `yaml:"format"`
	ShowEdgeWeights bool   `yaml:"show-edge-weights"`
	// MaxSize skips problems with more cities, 0 renders everything.
	MaxSize int `yaml:"max-size"`
	Workers int `yaml:"workers"`
}

func Default() Config {
	return Config{
		Archive: ArchiveOptions{
			URL:        "http://comopt.ifi.uni-heidelberg.de/software/TSPLIB95/tsp/ALL_tsp.tar.gz",
			BaseDir:    "ALL_tsp",
			ArchiveDir: "tar_gz",
			Workers:    4,
		},
		Solutions: SolutionOptions{
			URL:   "http://comopt.ifi.uni-heidelberg.de/software/TSPLIB95/STSP.html",
			Cache: "optimal_symmetric_tsp_solutions.html",
		},
		Render: RenderOptions{
			OutputDir: "results/images",
			Format:    "png",
			Workers:   4,
		},
		Report:      "results/tours.csv",
		LogLevel:    slog.LevelInfo,
		HTTPTimeout: time.Minute,
	}
}

// ReadConfig loads file on top of the defaults. A missing file yields the defaults.
func ReadConfig(file string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("%s: %w", file, err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", file, err)
	}

	return config, nil
}

func (c Config) Validate() error {
	switch {
	case c.Archive.URL == "":
		return fmt.Errorf("%w: archive.url is empty", ErrInvalidConfig)
	case c.Archive.BaseDir == "":
		return fmt.Errorf("%w: archive.base-dir is empty", ErrInvalidConfig)
	case c.Render.Format != "png" && c.Render.Format != "svg":
		return fmt.Errorf("%w: render.format must be png or svg, got %q", ErrInvalidConfig, c.Render.Format)
	case c.Render.MaxSize < 0:
		return fmt.Errorf("%w: render.max-size is negative", ErrInvalidConfig)
	}

	return nil
}
