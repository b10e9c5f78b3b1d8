package batch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hdrmeta/internal/lightlevel"
)

// metricsFor derives deterministic metrics from a path.
func metricsFor(path string) lightlevel.Metrics {
	var sum float64
	for _, c := range path {
		sum += float64(c)
	}
	return lightlevel.Metrics{MaxFALL: sum, MaxCLL: 2 * sum}
}

func collect(t *testing.T, s *Scheduler, paths []string) []Result {
	t.Helper()
	var got []Result
	if err := s.Run(context.Background(), paths, func(r Result) error {
		got = append(got, r)
		return nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return got
}

func resultPaths(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Path
	}
	return out
}

func TestGroups(t *testing.T) {
	tests := []struct {
		n, workers    int
		full, restIdx int
	}{
		{n: 10, workers: 0, full: 0, restIdx: 0},
		{n: 10, workers: 1, full: 0, restIdx: 0},
		{n: 3, workers: 4, full: 0, restIdx: 0},
		{n: 4, workers: 4, full: 1, restIdx: 4},
		{n: 10, workers: 4, full: 2, restIdx: 8},
		{n: 12, workers: 3, full: 4, restIdx: 12},
	}
	for _, tt := range tests {
		full, rest := Groups(tt.n, tt.workers)
		if full != tt.full || rest != tt.restIdx {
			t.Errorf("Groups(%d,%d) = (%d,%d), want (%d,%d)", tt.n, tt.workers, full, rest, tt.full, tt.restIdx)
		}
	}
}

func TestRunGroupEmitsSortedByPath(t *testing.T) {
	// Every call waits until all four are in flight, then they finish in
	// reverse path order.
	delays := map[string]time.Duration{
		"a.tif": 40 * time.Millisecond,
		"b.tif": 30 * time.Millisecond,
		"c.tif": 20 * time.Millisecond,
		"d.tif": 0,
	}
	var started sync.WaitGroup
	started.Add(4)
	var mu sync.Mutex
	var finished []string

	s := &Scheduler{Workers: 4, Analyzer: AnalyzerFunc(func(path string) lightlevel.Metrics {
		started.Done()
		started.Wait()
		time.Sleep(delays[path])
		mu.Lock()
		finished = append(finished, path)
		mu.Unlock()
		return metricsFor(path)
	})}

	got := collect(t, s, []string{"c.tif", "a.tif", "d.tif", "b.tif"})
	want := []string{"a.tif", "b.tif", "c.tif", "d.tif"}
	if !slices.Equal(resultPaths(got), want) {
		t.Fatalf("emitted %v, want %v", resultPaths(got), want)
	}
	if finished[0] != "d.tif" {
		t.Fatalf("expected d.tif to finish first, got order %v", finished)
	}
	for _, r := range got {
		if r.Metrics != metricsFor(r.Path) {
			t.Fatalf("metrics for %s = %+v", r.Path, r.Metrics)
		}
	}
}

func TestRunSequentialMatchesParallel(t *testing.T) {
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = fmt.Sprintf("frame_%03d.tif", i)
	}
	analyzer := AnalyzerFunc(metricsFor)

	parallel := collect(t, &Scheduler{Workers: 4, Analyzer: analyzer}, paths)
	for _, workers := range []int{0, 1, 16} {
		sequential := collect(t, &Scheduler{Workers: workers, Analyzer: analyzer}, paths)
		if !slices.Equal(sequential, parallel) {
			t.Fatalf("workers=%d: %v, want %v", workers, sequential, parallel)
		}
	}

	single := collect(t, &Scheduler{Workers: 4, Analyzer: analyzer}, paths[:1])
	if len(single) != 1 || single[0] != parallel[0] {
		t.Fatalf("single file: %v", single)
	}
}

func TestRunRemainderIsSequential(t *testing.T) {
	s := &Scheduler{Workers: 4, Analyzer: AnalyzerFunc(metricsFor)}
	got := collect(t, s, []string{"d", "c", "b", "a", "f", "e"})
	want := []string{"a", "b", "c", "d", "f", "e"}
	if !slices.Equal(resultPaths(got), want) {
		t.Fatalf("emitted %v, want %v", resultPaths(got), want)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	s := &Scheduler{Workers: 3, Analyzer: AnalyzerFunc(func(path string) lightlevel.Metrics {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return metricsFor(path)
	})}

	paths := make([]string, 9)
	for i := range paths {
		paths[i] = fmt.Sprintf("%02d", i)
	}
	got := collect(t, s, paths)
	if len(got) != len(paths) {
		t.Fatalf("emitted %d results, want %d", len(got), len(paths))
	}
	if p := peak.Load(); p > 3 {
		t.Fatalf("peak concurrency %d exceeds workers", p)
	}
}

func TestRunFailuresDoNotStopSiblings(t *testing.T) {
	s := &Scheduler{Workers: 2, Analyzer: AnalyzerFunc(func(path string) lightlevel.Metrics {
		if path == "bad" {
			return lightlevel.CannotOpen()
		}
		return metricsFor(path)
	})}
	got := collect(t, s, []string{"bad", "good", "more", "rest"})
	if len(got) != 4 {
		t.Fatalf("emitted %d results, want 4", len(got))
	}
	if got[0].Path != "bad" || got[0].Metrics.Status != lightlevel.StatusCannotOpen {
		t.Fatalf("first result = %+v", got[0])
	}
}

func TestRunCancelledAtGroupBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	s := &Scheduler{Workers: 2, Analyzer: AnalyzerFunc(func(path string) lightlevel.Metrics {
		calls.Add(1)
		return metricsFor(path)
	})}

	var emitted int
	err := s.Run(ctx, []string{"a", "b", "c", "d", "e"}, func(Result) error {
		emitted++
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// The first group still emits in full.
	if emitted != 2 || calls.Load() != 2 {
		t.Fatalf("emitted=%d calls=%d, want 2 and 2", emitted, calls.Load())
	}
}

func TestRunEmitErrorStops(t *testing.T) {
	errDisk := errors.New("disk full")
	for _, workers := range []int{1, 2} {
		s := &Scheduler{Workers: workers, Analyzer: AnalyzerFunc(metricsFor)}
		var emitted int
		err := s.Run(context.Background(), []string{"a", "b", "c", "d"}, func(Result) error {
			emitted++
			return errDisk
		})
		if !errors.Is(err, errDisk) {
			t.Fatalf("workers=%d: err = %v", workers, err)
		}
		if emitted != 1 {
			t.Fatalf("workers=%d: emitted %d, want 1", workers, emitted)
		}
	}
}

func TestRunRequiresAnalyzer(t *testing.T) {
	s := &Scheduler{Workers: 2}
	if err := s.Run(context.Background(), []string{"a"}, func(Result) error { return nil }); err == nil {
		t.Fatal("expected error without analyzer")
	}
}
