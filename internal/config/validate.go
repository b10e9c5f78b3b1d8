package config

import (
	"errors"
	"fmt"

	"hdrmeta/internal/pq"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAnalysis() error {
	if _, err := pq.ParseRangePolicy(c.Analysis.Range); err != nil {
		return fmt.Errorf("analysis.range: %w", err)
	}
	switch CanonicalColorSpace(c.Analysis.ColorSpace) {
	case "2020", "p3":
	default:
		return fmt.Errorf("analysis.color_space: unsupported value %q (expected 2020 or P3)", c.Analysis.ColorSpace)
	}
	if c.Analysis.Threads <= 0 {
		return errors.New("analysis.threads must be positive")
	}
	if c.Analysis.SampleSize <= 0 {
		return errors.New("analysis.sample_size must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
