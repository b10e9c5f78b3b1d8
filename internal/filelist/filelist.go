package filelist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// ErrEmptyList is returned when a list file has no entries.
var ErrEmptyList = errors.New("list is empty")

var frameExtensions = []string{".tif", ".tiff"}

// IsFrame reports whether name has a TIFF extension, ignoring case.
func IsFrame(name string) bool {
	ext := cases.Fold().String(filepath.Ext(name))
	return slices.Contains(frameExtensions, ext)
}

// Discover walks root recursively and returns every TIFF file, sorted
// case-insensitively by path.
func Discover(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsFrame(d.Name()) {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover frames in %s: %w", root, err)
	}
	SortPaths(found)
	return found, nil
}

// SortPaths sorts paths case-insensitively, falling back to byte order for
// paths that differ only in case.
func SortPaths(paths []string) {
	fold := cases.Fold()
	keys := make(map[string]string, len(paths))
	for _, p := range paths {
		keys[p] = fold.String(p)
	}
	slices.SortStableFunc(paths, func(a, b string) int {
		if c := strings.Compare(keys[a], keys[b]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}

// Base returns the last component of p, treating both '/' and '\' as
// separators.
func Base(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ReadList reads the entries of a list file. It fails with ErrEmptyList
// when the file holds no entries.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list: %w", err)
	}
	defer f.Close()

	entries, err := ParseList(f)
	if err != nil {
		return nil, fmt.Errorf("read list %s: %w", path, err)
	}
	return entries, nil
}

// ParseList reads list entries from r.
func ParseList(r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if field, _, ok := strings.Cut(line, "\t"); ok {
			line = field
		}
		if Base(line) == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyList
	}
	return entries, nil
}

func baseSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if b := Base(p); b != "" {
			set[b] = struct{}{}
		}
	}
	return set
}

// RequireListed keeps the found files whose base name appears in listed.
// missing holds the listed base names with no found file, sorted.
func RequireListed(found, listed []string) (kept, missing []string) {
	want := baseSet(listed)
	have := baseSet(found)

	for _, p := range found {
		if _, ok := want[Base(p)]; ok {
			kept = append(kept, p)
		}
	}
	for name := range want {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	return kept, missing
}

// ExcludeProcessed drops found files whose base name appears in processed.
func ExcludeProcessed(found, processed []string) []string {
	done := baseSet(processed)
	out := make([]string, 0, len(found))
	for _, p := range found {
		if _, ok := done[Base(p)]; !ok {
			out = append(out, p)
		}
	}
	return out
}
