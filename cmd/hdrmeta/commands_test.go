package main

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeLetterboxed(t, 3)

	out, err := runCLI(t, "", env.configPath, "detect", env.sourceDir, "--seed", "11")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	requireContains(t, out, "Active area votes")
	requireContains(t, out, "--y-offset 1 --y-length 4")
	requireContains(t, out, "use --range full")
}

func TestDetectEmptyFolder(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, "", env.configPath, "detect", env.sourceDir); err == nil {
		t.Fatal("expected error for folder without frames")
	}
}

func TestFrameCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	path := env.writeLetterboxed(t, 1)[0]

	out, err := runCLI(t, "", env.configPath, "frame", path)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	requireContains(t, out, "1,4")
	requireContains(t, out, "5000")
	requireContains(t, out, "10000")

	out, err = runCLI(t, "", env.configPath, "frame", path, "-y", "0", "-d", "6", "-c", "p3")
	if err != nil {
		t.Fatalf("frame with rows: %v", err)
	}
	requireContains(t, out, "3333.33")
	requireContains(t, out, "P3")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "", env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.outDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err = runCLI(t, "", "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := runCLI(t, "", "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}

	out, err = runCLI(t, "", target, "config", "validate")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestInvalidConfigFailsCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[analysis]\nthreads = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := runCLI(t, "", path, "detect", t.TempDir()); err == nil {
		t.Fatal("expected config error")
	}
}

func TestLineConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "\n", want: true},
		{input: "yes please\n", want: true},
		{input: "n\n", want: false},
		{input: "No\n", want: false},
		{input: "", want: false},
	}
	for _, tt := range tests {
		var out strings.Builder
		c := &lineConfirmer{in: bufio.NewReader(strings.NewReader(tt.input)), out: &out}
		got, err := c.Confirm("Continue?")
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		requireContains(t, out.String(), "Continue? [Y/n]")
	}
}

func TestNewConfirmer(t *testing.T) {
	if ok, err := newConfirmer(strings.NewReader(""), nil, true).Confirm("x"); !ok || err != nil {
		t.Fatalf("--yes confirmer = %v, %v", ok, err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()
	if _, err := newConfirmer(r, nil, false).Confirm("x"); !errors.Is(err, errConfirmationNeeded) {
		t.Fatalf("pipe confirmer err = %v, want errConfirmationNeeded", err)
	}
}
