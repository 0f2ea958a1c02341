package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"tsplib_viewer/modules/config"
	"tsplib_viewer/modules/fetching"
	"tsplib_viewer/modules/indexing"
	"tsplib_viewer/modules/logging"
	"tsplib_viewer/modules/parsing"
	"tsplib_viewer/modules/plotting"
	"tsplib_viewer/modules/rendering"
	"tsplib_viewer/modules/reporting"
	"tsplib_viewer/modules/scraping"
	"tsplib_viewer/modules/statistics"
	"tsplib_viewer/modules/utilities"
)

type options struct {
	configPath string
	fetch      bool
	problem    string
	weights    bool
	outputDir  string
}

func parseOptions(args []string) (options, error) {
	var opts options

	flags := flag.NewFlagSet("tsplib_viewer", flag.ContinueOnError)
	flags.StringVar(&opts.configPath, "config", "config.yaml", "path of the YAML configuration")
	flags.BoolVar(&opts.fetch, "fetch", false, "download and unpack the TSPLIB archive first")
	flags.StringVar(&opts.problem, "problem", "", "render only this problem")
	flags.BoolVar(&opts.weights, "weights", false, "annotate every edge with its length")
	flags.StringVar(&opts.outputDir, "out", "", "image folder, overrides render.output-dir")

	if err := flags.Parse(args); err != nil {
		return options{}, err
	}

	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.ReadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading config:", err)
		os.Exit(1)
	}
	if opts.weights {
		cfg.Render.ShowEdgeWeights = true
	}
	if opts.outputDir != "" {
		cfg.Render.OutputDir = opts.outputDir
	}

	logger := logging.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, logger *slog.Logger) error {
	client := &http.Client{Timeout: cfg.HTTPTimeout}

	if opts.fetch {
		fetcher := fetching.NewArchiveFetcher(fetching.Config{
			URL:        cfg.Archive.URL,
			BaseDir:    cfg.Archive.BaseDir,
			ArchiveDir: cfg.Archive.ArchiveDir,
			Workers:    cfg.Archive.Workers,
		}, client, logger)

		summary, err := fetcher.Fetch(ctx)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			logger.Warn("some files could not be decompressed", "failed", summary.Failed, "error", summary.Err())
		}
	}

	scraper := scraping.NewSolutionScraper(cfg.Solutions.URL, cfg.Solutions.Cache, client, logger)
	solutions, err := scraper.Load(ctx)
	if err != nil {
		logger.Warn("optimal solutions are not available", "error", err)
		solutions = scraping.Solutions{}
	}

	pairs, err := selectPairs(cfg, opts.problem)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no problem with a tour found in %s", cfg.Archive.BaseDir)
	}

	logger.Info("rendering tours", "count", len(pairs), "known optima", len(solutions))
	logger.Debug("selected problems", "names", problemNames(pairs))

	renderer := rendering.NewRenderer(plotting.NewChartCanvasFor, logger)
	rows := renderAll(ctx, cfg, pairs, renderer, solutions, logger)

	if len(rows) == 0 {
		return errors.New("no tour could be rendered")
	}

	if err := reporting.SaveReport(cfg.Report, rows); err != nil {
		return err
	}
	logger.Info("report saved", "path", cfg.Report, "rows", len(rows))

	return nil
}

func selectPairs(cfg config.Config, problem string) ([]indexing.Pair, error) {
	problems, err := indexing.LoadProblems(cfg.Archive.BaseDir)
	if err != nil {
		return nil, err
	}
	tours, err := indexing.LoadSolutions(cfg.Archive.BaseDir)
	if err != nil {
		return nil, err
	}

	pairs := indexing.Pairs(problems, tours)

	selected := make([]indexing.Pair, 0, len(pairs))
	for _, pair := range pairs {
		if problem != "" && pair.Problem.Name != problem {
			continue
		}
		if cfg.Render.MaxSize > 0 && pair.Problem.HasSize && pair.Problem.Size > cfg.Render.MaxSize {
			continue
		}
		selected = append(selected, pair)
	}

	return selected, nil
}

func renderAll(ctx context.Context, cfg config.Config, pairs []indexing.Pair, renderer *rendering.Renderer, solutions scraping.Solutions, logger *slog.Logger) []reporting.Row {
	var (
		rows []reporting.Row
		mu   sync.Mutex
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(cfg.Render.Workers, 1))

	for _, pair := range pairs {
		pair := pair
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			row, err := renderPair(cfg, pair, renderer, solutions)
			if err != nil {
				logger.Error("could not render tour", "problem", pair.Problem.Name, "error", err)
				return nil
			}
			logger.Debug("tour rendered", "problem", pair.Problem.Name, "cost", row.TourCost, "took", time.Since(start))

			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		logger.Warn("rendering interrupted", "error", err)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Dimension != rows[j].Dimension {
			return rows[i].Dimension < rows[j].Dimension
		}
		return rows[i].Problem < rows[j].Problem
	})

	return rows
}

func renderPair(cfg config.Config, pair indexing.Pair, renderer *rendering.Renderer, solutions scraping.Solutions) (reporting.Row, error) {
	problem, err := parsing.ParseProblemFile(pair.Problem.Path)
	if err != nil {
		return reporting.Row{}, err
	}

	_, tour, err := parsing.ParseTourFile(pair.Tour.Path)
	if err != nil {
		return reporting.Row{}, err
	}

	name := problem.Name
	if name == "" {
		name = pair.Problem.Name
	}

	result, err := renderer.Render(rendering.Request{
		Name:            name,
		Cities:          problem.Cities,
		Tour:            tour,
		ShowEdgeWeights: cfg.Render.ShowEdgeWeights,
	})
	if err != nil {
		return reporting.Row{}, err
	}

	canvas, ok := result.Canvas.(*plotting.ChartCanvas)
	if !ok {
		return reporting.Row{}, fmt.Errorf("%s: canvas %T cannot be saved", name, result.Canvas)
	}

	image := filepath.Join(cfg.Render.OutputDir, pair.Problem.Name+"."+cfg.Render.Format)
	if err := canvas.SaveFile(image); err != nil {
		return reporting.Row{}, err
	}

	row := reporting.Row{
		Problem:   name,
		Dimension: len(problem.Cities),
		TourCost:  result.TotalCost,
		Image:     image,
	}

	if edgeStats, err := statistics.CalculateEdgeStats(result.EdgeLengths); err == nil {
		row.Edges = edgeStats
		row.HasEdges = true
	}

	if optimal, ok := solutions.Optimal(pair.Problem.Name); ok {
		if gap, err := statistics.Gap(result.TotalCost, optimal); err == nil {
			row.Optimal = optimal
			row.HasOptimal = true
			row.Gap = gap
		}
	}

	return row, nil
}

// problemNames lists the non-empty problem names of pairs, for log output.
func problemNames(pairs []indexing.Pair) []string {
	names := make([]string, len(pairs))
	for i, pair := range pairs {
		names[i] = pair.Problem.Name
	}

	return utilities.FilterStrings(names, func(name string) bool { return name != "" })
}
