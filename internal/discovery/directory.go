package discovery

import (
	"os"
	"path/filepath"
)

// ListFiles returns the plain files (not subdirectories) directly inside
// dir, sorted. Used by callers that already know a project's source
// directories and just need their immediate contents, without a recursive
// walk or junk-directory pruning. A directory that cannot be read yields an
// empty list; the caller decides whether that is worth a warning.
func ListFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}
