package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAnalysis()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.Range = strings.ToLower(strings.TrimSpace(c.Analysis.Range))
	if c.Analysis.Range == "" {
		c.Analysis.Range = defaultRange
	}
	c.Analysis.ColorSpace = CanonicalColorSpace(c.Analysis.ColorSpace)
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ResultsDir) == "" {
		c.Paths.ResultsDir = defaultResultsDir
	}
	if c.Paths.ResultsDir, err = expandPath(c.Paths.ResultsDir); err != nil {
		return fmt.Errorf("paths.results_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv(envLogLevelOverride); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		file, err := expandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = file
	}
	return nil
}

// CanonicalColorSpace maps accepted color space spellings to "2020" or
// "p3". Unknown values are returned lower-cased so Validate can report them.
func CanonicalColorSpace(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "", "2020", "bt2020", "rec2020":
		return "2020"
	case "p3", "p3d65", "p3-d65":
		return "p3"
	default:
		return v
	}
}
