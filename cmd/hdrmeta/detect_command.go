package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hdrmeta/internal/activearea"
	"hdrmeta/internal/filelist"
	"hdrmeta/internal/frame"
	"hdrmeta/internal/preflight"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var sampling samplingFlags

	cmd := &cobra.Command{
		Use:   "detect [folder]",
		Short: "Sample frames and report the detected active picture area",
		Args:  cobra.MaximumNArgs(1),
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
			source, err := resolveInputPath(folder)
			if err != nil {
				return err
			}
			if err := preflight.Err(preflight.RunAll(preflight.Plan{SourceDir: source})); err != nil {
				return err
			}

			sampleSize, seed, rng, err := sampling.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			files, err := filelist.Discover(source)
			if err != nil {
				return err
			}
			voter := activearea.Voter{Decode: frame.DecodeFile, Rand: rng, Logger: logger}
			consensus, err := voter.Vote(cmd.Context(), files, sampleSize)
			if err != nil {
				return fmt.Errorf("detect active area: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTally(consensus))
			fmt.Fprintf(out, "Sampled %d of %d frames (seed %d)\n", consensus.Sampled, len(files), seed)
			if consensus.Valid() {
				fmt.Fprintf(out, "Active area: --y-offset %d --y-length %d\n", consensus.Winner.RowOffset, consensus.Winner.RowCount)
			} else {
				fmt.Fprintln(out, "Active area: not detected")
			}
			if consensus.Disagreement {
				fmt.Fprintln(out, "Warning: sampled frames disagree")
			}
			fmt.Fprintln(out, rangeSuggestion(consensus))
			return nil
		},
	}

	bindSamplingFlags(cmd, &sampling)
	return cmd
}

// renderTally lists every candidate band and its votes.
func renderTally(c activearea.Consensus) string {
	rows := make([][]string, 0, len(c.Tally))
	for _, cand := range c.Tally {
		winner := ""
		if cand.Key == c.Winner.Key {
			winner = "*"
		}
		rows = append(rows, []string{
			winner,
			strconv.Itoa(cand.RowOffset),
			strconv.Itoa(cand.RowCount),
			strconv.Itoa(cand.Count),
			strconv.Itoa(cand.BelowLegalBlack),
		})
	}
	return renderTable("Active area votes",
		[]string{"", "Offset", "Rows", "Votes", "Below legal black"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func rangeSuggestion(c activearea.Consensus) string {
	var below int
	for _, cand := range c.Tally {
		below += cand.BelowLegalBlack
	}
	if below > 0 {
		return fmt.Sprintf("Range: %d sampled frame(s) have code values below legal black; use --range full", below)
	}
	return "Range: no code values below legal black; legal range is plausible"
}
