package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hdrmeta/internal/activearea"
	"hdrmeta/internal/batch"
	"hdrmeta/internal/config"
	"hdrmeta/internal/filelist"
	"hdrmeta/internal/frame"
	"hdrmeta/internal/lightlevel"
	"hdrmeta/internal/logging"
	"hdrmeta/internal/pq"
	"hdrmeta/internal/preflight"
	"hdrmeta/internal/results"
)

type scanOptions struct {
	analysis  analysisFlags
	sampling  samplingFlags
	logPath   string
	mustList  string
	processed string
	result    string
	threads   int
	yes       bool
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan [folder]",
		Short: "Measure every frame under a folder and append the results",
		Long: "Scan discovers TIFF frames under folder (default: the working directory),\n" +
			"detects the active picture area unless rows are given, and appends\n" +
			"path, MaxFALL and MaxCLL for every frame to the result file.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			defer func() { _ = ctx.closeLogger() }()
			var folder string
			if len(args) > 0 {
				folder = args[0]
			}
			return runScan(cmd, cfg, logger, folder, &opts)
		},
	}

	bindAnalysisFlags(cmd, &opts.analysis)
	bindSamplingFlags(cmd, &opts.sampling)
	cmd.Flags().StringVarP(&opts.logPath, "loglist", "l", "", "Processed-file log to append to")
	cmd.Flags().StringVarP(&opts.mustList, "filelist", "m", "", "Only analyze files whose names appear in this list")
	cmd.Flags().StringVarP(&opts.processed, "processedfiles", "p", "", "Skip files listed in a previous run's log")
	cmd.Flags().StringVarP(&opts.result, "result-file", "n", "", "Result file to append to")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", 0, "Frames analyzed concurrently (default from config)")
	cmd.Flags().BoolVar(&opts.yes, "yes", false, "Continue without asking when files are missing or frames disagree")
	return cmd
}

// outputPaths returns the result and log paths, defaulting to stamped names
// in the configured directories.
func outputPaths(cfg *config.Config, opts *scanOptions, now time.Time) (string, string, error) {
	resultName, logName := results.DefaultNames(now)
	resultPath := filepath.Join(cfg.Paths.ResultsDir, resultName)
	logPath := filepath.Join(cfg.Paths.LogDir, logName)

	var err error
	if opts.result != "" {
		if resultPath, err = resolveInputPath(opts.result); err != nil {
			return "", "", err
		}
	}
	if opts.logPath != "" {
		if logPath, err = resolveInputPath(opts.logPath); err != nil {
			return "", "", err
		}
	}
	return resultPath, logPath, nil
}

func runScan(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, folder string, opts *scanOptions) error {
	out := cmd.OutOrStdout()
	started := time.Now()
	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	settings, err := resolveAnalysisSettings(cmd, cfg, &opts.analysis)
	if err != nil {
		return err
	}
	threads := cfg.Analysis.Threads
	if cmd.Flags().Changed("threads") {
		threads = opts.threads
	}
	if threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", threads)
	}

	source, err := resolveInputPath(folder)
	if err != nil {
		return err
	}
	resultPath, logPath, err := outputPaths(cfg, opts, time.Now())
	if err != nil {
		return err
	}
	plan := preflight.Plan{SourceDir: source, ResultPath: resultPath, LogPath: logPath}
	if opts.mustList != "" {
		if plan.MustList, err = resolveInputPath(opts.mustList); err != nil {
			return err
		}
	}
	if opts.processed != "" {
		if plan.Processed, err = resolveInputPath(opts.processed); err != nil {
			return err
		}
	}
	if err := preflight.Err(preflight.RunAll(plan)); err != nil {
		return err
	}

	confirm := newConfirmer(cmd.InOrStdin(), out, opts.yes)
	files, err := selectFrames(out, confirm, plan)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No frames to analyze.")
		return nil
	}
	logger.Info("frames selected", logging.Int("count", len(files)), logging.String("source", source))

	seedText := "-"
	if !settings.RegionSet {
		sampleSize, seed, rng, err := opts.sampling.resolve(cmd, cfg)
		if err != nil {
			return err
		}
		seedText = strconv.FormatUint(seed, 10)
		fmt.Fprintln(out, "Scanning active dimensions...")
		voter := activearea.Voter{Decode: frame.DecodeFile, Rand: rng, Logger: logger}
		consensus, err := voter.Vote(cmd.Context(), files, sampleSize)
		if err != nil {
			return fmt.Errorf("detect active area: %w", err)
		}
		if err := acceptConsensus(out, confirm, consensus); err != nil {
			return err
		}
		settings.Region = consensus.Region()
	}

	table, err := pq.NewTable(settings.Policy)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderKeyValues("Run parameters", [][2]string{
		{"Source", source},
		{"Frames", strconv.Itoa(len(files))},
		{"Range", settings.Policy.String()},
		{"Color space", settings.ColorSpace.String()},
		{"Row offset", strconv.Itoa(settings.Region.RowOffset)},
		{"Row count", strconv.Itoa(settings.Region.RowCount)},
		{"Rows from flags", yesNo(settings.RegionSet)},
		{"Sample seed", seedText},
		{"Mandatory list", orDash(plan.MustList)},
		{"Processed list", orDash(plan.Processed)},
		{"Result file", resultPath},
		{"Log file", logPath},
		{"Threads", strconv.Itoa(threads)},
		{"Run ID", runID},
	}))

	writer, err := results.Open(resultPath, logPath, runID)
	if err != nil {
		return err
	}
	summary, runErr := analyzeFrames(cmd, logger, writer, files, threads, &lightlevel.FileAnalyzer{
		Decode:     frame.DecodeFile,
		Region:     settings.Region,
		ColorSpace: settings.ColorSpace,
		Table:      table,
		Logger:     logger,
	})
	if err := writer.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close results: %w", err)
	}
	fmt.Fprintln(out, summary.String())
	logger.Info("scan finished",
		logging.Int("analyzed", summary.analyzed),
		logging.Int("cannot_open", summary.cannotOpen),
		logging.Int("invalid_region", summary.invalidRegion),
		logging.Bool("rows_from_flags", settings.RegionSet),
		logging.Duration("elapsed", time.Since(started)),
	)
	return runErr
}

// selectFrames discovers frames and applies the mandatory and processed
// lists.
func selectFrames(out io.Writer, confirm confirmer, plan preflight.Plan) ([]string, error) {
	files, err := filelist.Discover(plan.SourceDir)
	if err != nil {
		return nil, err
	}

	if plan.MustList != "" {
		listed, err := filelist.ReadList(plan.MustList)
		if err != nil {
			return nil, err
		}
		kept, missing := filelist.RequireListed(files, listed)
		if len(missing) > 0 {
			for _, name := range missing {
				fmt.Fprintf(out, "Cannot find listed file: %s\n", name)
			}
			if err := confirmOrAbort(confirm, out, fmt.Sprintf("%d file(s) are missing. Continue?", len(missing))); err != nil {
				return nil, err
			}
		}
		files = kept
	}

	if plan.Processed != "" {
		processed, err := filelist.ReadList(plan.Processed)
		if err != nil {
			return nil, err
		}
		files = filelist.ExcludeProcessed(files, processed)
	}
	return files, nil
}

// acceptConsensus reports a disputed vote, asks whether to continue, and
// rejects a winner that is not a usable band.
func acceptConsensus(out io.Writer, confirm confirmer, c activearea.Consensus) error {
	if c.Disagreement {
		fmt.Fprintln(out, "Sampled frames disagree on the active area.")
		fmt.Fprintln(out, renderTally(c))
		if err := confirmOrAbort(confirm, out, fmt.Sprintf("Use rows %s?", c.Winner.Key)); err != nil {
			return err
		}
	}
	if !c.Valid() {
		return fmt.Errorf("%w: detection found no picture band (offset %d, count %d); set --y-offset and --y-length",
			errZeroActiveLength, c.Winner.RowOffset, c.Winner.RowCount)
	}
	return nil
}

type scanSummary struct {
	analyzed      int
	cannotOpen    int
	invalidRegion int
	peakFALL      float64
	peakCLL       float64
}

func (s *scanSummary) add(m lightlevel.Metrics) {
	s.analyzed++
	switch m.Status {
	case lightlevel.StatusCannotOpen:
		s.cannotOpen++
	case lightlevel.StatusInvalidRegion:
		s.invalidRegion++
	default:
		s.peakFALL = max(s.peakFALL, m.MaxFALL)
		s.peakCLL = max(s.peakCLL, m.MaxCLL)
	}
}

func (s *scanSummary) String() string {
	return renderKeyValues("Summary", [][2]string{
		{"Frames recorded", strconv.Itoa(s.analyzed)},
		{"Cannot open", strconv.Itoa(s.cannotOpen)},
		{"Invalid region", strconv.Itoa(s.invalidRegion)},
		{"Highest MaxFALL", lightlevel.FormatValue(s.peakFALL)},
		{"Highest MaxCLL", lightlevel.FormatValue(s.peakCLL)},
	})
}

func analyzeFrames(cmd *cobra.Command, logger *slog.Logger, writer *results.Writer, files []string, threads int, analyzer batch.Analyzer) (*scanSummary, error) {
	summary := &scanSummary{}
	bar := newProgress(cmd.ErrOrStderr(), len(files), "Analyzing")
	scheduler := batch.Scheduler{Workers: threads, Analyzer: analyzer, Logger: logger}

	err := scheduler.Run(cmd.Context(), files, func(r batch.Result) error {
		if err := writer.Record(r.Path, r.Metrics); err != nil {
			return err
		}
		summary.add(r.Metrics)
		_ = bar.Add(1)
		return nil
	})
	_ = bar.Finish()
	return summary, err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
