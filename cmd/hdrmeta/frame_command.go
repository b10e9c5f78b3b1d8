package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hdrmeta/internal/activearea"
	"hdrmeta/internal/frame"
	"hdrmeta/internal/lightlevel"
	"hdrmeta/internal/pq"
)

func newFrameCommand(ctx *commandContext) *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "frame <file>",
		Short: "Measure a single frame",
		Long: "Frame decodes one TIFF file and prints its light levels. Without\n" +
			"--y-offset/--y-length the frame's own detected active area is used.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			settings, err := resolveAnalysisSettings(cmd, cfg, &flags)
			if err != nil {
				return err
			}
			path, err := resolveInputPath(args[0])
			if err != nil {
				return err
			}
			buf, err := frame.DecodeFile(path)
			if err != nil {
				return err
			}

			obs := activearea.Detect(buf)
			region := settings.Region
			if !settings.RegionSet {
				if !obs.Valid() {
					return fmt.Errorf("%w: no picture band detected in %s; set --y-offset and --y-length", errZeroActiveLength, path)
				}
				region = obs.Region()
			}

			table, err := pq.NewTable(settings.Policy)
			if err != nil {
				return err
			}
			m := lightlevel.Analyze(buf, region, settings.ColorSpace, table)
			fall, cll := m.Values()

			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues("Frame", [][2]string{
				{"File", path},
				{"Size", fmt.Sprintf("%dx%d", buf.Width, buf.Height)},
				{"Detected area", obs.Key()},
				{"Analyzed rows", region.String()},
				{"Range", settings.Policy.String()},
				{"Color space", settings.ColorSpace.String()},
				{"Status", m.Status.String()},
				{"MaxFALL", lightlevel.FormatValue(fall)},
				{"MaxCLL", lightlevel.FormatValue(cll)},
				{"Mean luma", lightlevel.FormatValue(m.MeanLuma)},
				{"Below legal black", yesNo(obs.BelowLegalBlack())},
			}))
			return nil
		},
	}

	bindAnalysisFlags(cmd, &flags)
	return cmd
}
