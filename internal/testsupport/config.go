package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"hdrmeta/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Output directories exist on return and logging is limited to errors.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ResultsDir = filepath.Join(base, "results")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{cfgVal.Paths.LogDir, cfgVal.Paths.ResultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithThreads sets the worker count.
func WithThreads(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.Threads = n
	}
}

// WithSampleSize sets the number of frames sampled for active-area detection.
func WithSampleSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.SampleSize = n
	}
}

// WithSharedOutputDir points results and logs at one directory.
func WithSharedOutputDir() ConfigOption {
	return func(b *configBuilder) {
		dir := filepath.Join(b.baseDir, "out")
		b.cfg.Paths.LogDir = dir
		b.cfg.Paths.ResultsDir = dir
	}
}

// WriteConfig serializes cfg as TOML to path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config %s: %v", path, err)
	}
}
