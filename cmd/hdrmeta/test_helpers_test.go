package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hdrmeta/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	sourceDir  string
	outDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	cfg := testsupport.NewConfig(t,
		testsupport.WithThreads(2),
		testsupport.WithSampleSize(4),
		testsupport.WithSharedOutputDir(),
	)
	env := &cliTestEnv{
		configPath: filepath.Join(base, "hdrmeta.toml"),
		sourceDir:  filepath.Join(base, "frames"),
		outDir:     cfg.Paths.ResultsDir,
	}
	if err := os.MkdirAll(env.sourceDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", env.sourceDir, err)
	}
	testsupport.WriteConfig(t, env.configPath, cfg)
	return env
}

// writeFrame writes a 2-pixel-wide frame of height rows whose picture band
// is [bandStart, bandEnd) at peak white.
func writeFrame(t *testing.T, path string, height, bandStart, bandEnd int) {
	t.Helper()
	frame := testsupport.Letterbox{Width: 2, Height: height, BandStart: bandStart, BandEnd: bandEnd, Peak: 0xffff}
	testsupport.WriteFrame(t, path, frame.Image())
}

// writeLetterboxed writes n frames of height 6 with the picture in rows 1-4.
func (e *cliTestEnv) writeLetterboxed(t *testing.T, n int) []string {
	t.Helper()
	paths := make([]string, n)
	for i := range n {
		paths[i] = filepath.Join(e.sourceDir, fmt.Sprintf("f_%04d.tif", i))
		writeFrame(t, paths[i], 6, 1, 5)
	}
	return paths
}

func runCLI(t *testing.T, stdin string, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
