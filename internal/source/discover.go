package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFiles returns the files in dir whose extension (lower-cased, with dot)
// is in exts, sorted by name for deterministic processing order. A missing
// directory yields an empty slice, not an error; the caller decides whether
// zero files is fatal.
func FindFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
