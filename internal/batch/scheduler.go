package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"hdrmeta/internal/lightlevel"
	"hdrmeta/internal/logging"
)

// Analyzer computes the metrics of one file.
type Analyzer interface {
	AnalyzeFile(path string) lightlevel.Metrics
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(path string) lightlevel.Metrics

// AnalyzeFile calls f(path).
func (f AnalyzerFunc) AnalyzeFile(path string) lightlevel.Metrics { return f(path) }

// Result pairs a file with its metrics.
type Result struct {
	Path    string
	Metrics lightlevel.Metrics
}

// EmitFunc receives results in emission order. Returning an error stops the
// run.
type EmitFunc func(Result) error

// Scheduler dispatches files to a worker pool.
type Scheduler struct {
	Workers  int
	Analyzer Analyzer
	Logger   *slog.Logger
}

// Groups returns the number of full groups the scheduler dispatches in
// parallel for n files and the index where sequential processing starts.
// Both are zero when the run is entirely sequential.
func Groups(n, workers int) (full, remainderStart int) {
	if workers <= 1 || n < workers {
		return 0, 0
	}
	full = n / workers
	return full, full * workers
}

// Run analyzes paths and passes every result to emit. Cancellation is
// observed between groups and between sequential files; the group in flight
// always completes.
func (s *Scheduler) Run(ctx context.Context, paths []string, emit EmitFunc) error {
	if s.Analyzer == nil {
		return errors.New("batch scheduler requires an analyzer")
	}
	if emit == nil {
		return errors.New("batch scheduler requires an emit function")
	}
	logger := logging.NewComponentLogger(s.Logger, "batch")

	full, rest := Groups(len(paths), s.Workers)
	logger.Debug("batch plan",
		logging.Int("files", len(paths)),
		logging.Int("workers", s.Workers),
		logging.Int("parallel_groups", full),
		logging.Int("sequential_files", len(paths)-rest),
	)
	if full > 0 {
		if err := s.runGroups(ctx, logger, paths[:rest], emit); err != nil {
			return err
		}
	}
	return s.runSequential(ctx, paths[rest:], emit)
}

func (s *Scheduler) runSequential(ctx context.Context, paths []string, emit EmitFunc) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(Result{Path: path, Metrics: s.Analyzer.AnalyzeFile(path)}); err != nil {
			return fmt.Errorf("emit %s: %w", path, err)
		}
	}
	return nil
}

// runGroups processes len(paths)/Workers groups on a pool started once.
func (s *Scheduler) runGroups(ctx context.Context, logger *slog.Logger, paths []string, emit EmitFunc) error {
	jobs := make(chan string)
	results := make(chan Result, s.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- Result{Path: path, Metrics: s.Analyzer.AnalyzeFile(path)}
			}
		}()
	}
	defer func() {
		close(jobs)
		wg.Wait()
	}()

	group := make([]Result, 0, s.Workers)
	for start := 0; start < len(paths); start += s.Workers {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := paths[start : start+s.Workers]
		for _, path := range batch {
			jobs <- path
		}

		group = group[:0]
		for range batch {
			group = append(group, <-results)
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Path < group[j].Path })
		logger.Debug("group complete", logging.Int("start", start), logging.Int("size", len(group)))

		for _, r := range group {
			if err := emit(r); err != nil {
				return fmt.Errorf("emit %s: %w", r.Path, err)
			}
		}
	}
	return nil
}
