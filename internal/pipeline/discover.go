package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover returns the regular files directly inside dir whose base name
// matches pattern, sorted for a deterministic counting order. Paths listed in
// exclude (typically the report being written) are skipped.
func Discover(dir, pattern string, exclude ...string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	skip := map[string]bool{}
	for _, p := range exclude {
		if abs, err := filepath.Abs(p); err == nil {
			skip[abs] = true
		}
	}

	var files []string
	for _, e := range entries {
		if ok, _ := filepath.Match(pattern, e.Name()); !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil && skip[abs] {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}
