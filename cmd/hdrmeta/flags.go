package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"hdrmeta/internal/config"
	"hdrmeta/internal/frame"
	"hdrmeta/internal/lightlevel"
	"hdrmeta/internal/pq"
)

// analysisFlags are shared by the commands that measure frames.
type analysisFlags struct {
	rangeName  string
	colorSpace string
	yOffset    int
	yLength    int
}

func bindAnalysisFlags(cmd *cobra.Command, f *analysisFlags) {
	cmd.Flags().StringVarP(&f.rangeName, "range", "r", "", "Code value range: full or legal (default from config)")
	cmd.Flags().StringVarP(&f.colorSpace, "colorspace", "c", "", "Luma coefficients: 2020 or p3 (default from config)")
	cmd.Flags().IntVarP(&f.yOffset, "y-offset", "y", 0, "First row of the active picture area")
	cmd.Flags().IntVarP(&f.yLength, "y-length", "d", 0, "Number of rows in the active picture area")
}

// analysisSettings are the resolved per-run analysis parameters.
type analysisSettings struct {
	Policy     pq.RangePolicy
	ColorSpace lightlevel.ColorSpace
	Region     frame.Region
	// RegionSet is true when the rows came from flags instead of detection.
	RegionSet bool
}

var errZeroActiveLength = errors.New("active area length must be positive")

func resolveAnalysisSettings(cmd *cobra.Command, cfg *config.Config, f *analysisFlags) (analysisSettings, error) {
	var s analysisSettings

	rangeName := cfg.Analysis.Range
	if cmd.Flags().Changed("range") {
		rangeName = f.rangeName
	}
	policy, err := pq.ParseRangePolicy(rangeName)
	if err != nil {
		return s, err
	}
	s.Policy = policy

	csName := cfg.Analysis.ColorSpace
	if cmd.Flags().Changed("colorspace") {
		csName = f.colorSpace
	}
	cs, err := lightlevel.ParseColorSpace(csName)
	if err != nil {
		return s, err
	}
	s.ColorSpace = cs

	offsetSet := cmd.Flags().Changed("y-offset")
	lengthSet := cmd.Flags().Changed("y-length")
	if offsetSet || lengthSet {
		if f.yOffset < 0 {
			return s, fmt.Errorf("y offset must not be negative, got %d", f.yOffset)
		}
		if !lengthSet || f.yLength <= 0 {
			return s, fmt.Errorf("%w, got %d", errZeroActiveLength, f.yLength)
		}
		s.Region = frame.Region{RowOffset: f.yOffset, RowCount: f.yLength}
		s.RegionSet = true
	}
	return s, nil
}

// samplingFlags control active-area detection.
type samplingFlags struct {
	sampleSize int
	seed       uint64
}

func bindSamplingFlags(cmd *cobra.Command, f *samplingFlags) {
	cmd.Flags().IntVar(&f.sampleSize, "sample-size", 0, "Frames sampled to detect the active area (default from config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed for frame sampling (0 picks one)")
}

// resolve returns the sample size and a seeded source. The seed is
// returned so it can be reported and the run reproduced.
func (f *samplingFlags) resolve(cmd *cobra.Command, cfg *config.Config) (int, uint64, *rand.Rand, error) {
	size := cfg.Analysis.SampleSize
	if cmd.Flags().Changed("sample-size") {
		size = f.sampleSize
	}
	if size < 1 {
		return 0, 0, nil, fmt.Errorf("sample size must be at least 1, got %d", size)
	}
	seed := f.seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	return size, seed, rand.New(rand.NewPCG(seed, seed>>1)), nil
}
