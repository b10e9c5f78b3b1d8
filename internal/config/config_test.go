package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"hdrmeta/internal/config"
)

func TestLoadDefaultConfigWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "hdrmeta", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.Analysis.Threads != 4 {
		t.Fatalf("expected 4 threads by default, got %d", cfg.Analysis.Threads)
	}
	if cfg.Analysis.SampleSize != 10 {
		t.Fatalf("expected sample size 10 by default, got %d", cfg.Analysis.SampleSize)
	}
	if cfg.Analysis.Range != "full" || cfg.Analysis.ColorSpace != "2020" {
		t.Fatalf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
	if !filepath.IsAbs(cfg.Paths.LogDir) || !filepath.IsAbs(cfg.Paths.ResultsDir) {
		t.Fatalf("expected absolute output directories, got %+v", cfg.Paths)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "hdrmeta.toml")
	content := `
[analysis]
range = "LEGAL"
color_space = "P3D65"
threads = 8
sample_size = 25

[paths]
log_dir = "~/hdr/logs"

[logging]
level = "DEBUG"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to exist, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Analysis.Range != "legal" {
		t.Fatalf("expected normalized range, got %q", cfg.Analysis.Range)
	}
	if cfg.Analysis.ColorSpace != "p3" {
		t.Fatalf("expected canonical color space, got %q", cfg.Analysis.ColorSpace)
	}
	if cfg.Analysis.Threads != 8 || cfg.Analysis.SampleSize != 25 {
		t.Fatalf("unexpected analysis values: %+v", cfg.Analysis)
	}
	if want := filepath.Join(tempHome, "hdr", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("expected expanded log dir %q, got %q", want, cfg.Paths.LogDir)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero threads", "[analysis]\nthreads = 0\n", "analysis.threads"},
		{"zero sample size", "[analysis]\nsample_size = 0\n", "analysis.sample_size"},
		{"bad range", "[analysis]\nrange = \"video\"\n", "analysis.range"},
		{"bad color space", "[analysis]\ncolor_space = \"709\"\n", "analysis.color_space"},
		{"bad log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"unknown key", "[analysis]\nthreadz = 2\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLogLevelEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HDRMETA_LOG_LEVEL", "warn")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env override, got %q", cfg.Logging.Level)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Analysis != config.Default().Analysis {
		t.Fatalf("sample analysis section %+v differs from defaults %+v", decoded.Analysis, config.Default().Analysis)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestCanonicalColorSpace(t *testing.T) {
	tests := map[string]string{
		"":       "2020",
		"BT2020": "2020",
		"P3":     "p3",
		"p3-d65": "p3",
		"709":    "709",
	}
	for in, want := range tests {
		if got := config.CanonicalColorSpace(in); got != want {
			t.Fatalf("CanonicalColorSpace(%q) = %q, want %q", in, got, want)
		}
	}
}
