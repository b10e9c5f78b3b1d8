package preflight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Plan names the paths a scan reads and writes. Empty paths are skipped.
type Plan struct {
	SourceDir  string
	ResultPath string
	LogPath    string
	MustList   string
	Processed  string
}

// RunAll executes the checks applicable to the plan.
func RunAll(p Plan) []Result {
	var results []Result

	results = append(results, CheckDirectoryAccess("Source directory", p.SourceDir, Read))

	if p.MustList != "" {
		results = append(results, CheckFileReadable("Mandatory file list", p.MustList))
	}
	if p.Processed != "" {
		results = append(results, CheckFileReadable("Processed file list", p.Processed))
	}

	// Both outputs commonly share a directory; check it once.
	checked := map[string]bool{}
	for _, out := range []struct{ name, path string }{
		{"Result directory", p.ResultPath},
		{"Log directory", p.LogPath},
	} {
		if out.path == "" {
			continue
		}
		dir := filepath.Dir(out.path)
		if checked[dir] {
			continue
		}
		checked[dir] = true
		results = append(results, CheckDirectoryAccess(out.name, dir, Write))
	}

	return results
}

// Err joins the details of every failed check, or returns nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.New("preflight failed: " + strings.Join(failed, "; "))
}
