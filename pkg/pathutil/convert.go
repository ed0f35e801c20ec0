// Package pathutil converts between absolute and relative paths.
//
// gprdeps resolves and stores every path (project files, source files)
// absolute internally, to avoid ambiguity once sources from several
// directories are mixed in one graph. Display output, however, should be
// relative to whatever directory the settings' RelTo names, for
// readability. This package is the conversion layer between the two.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root
// directory. Falls back to the original path if conversion fails, the path
// is already relative, or it falls outside rootDir.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}

// ToRelativeAll converts every path in paths, in place order, used by the
// table and tree formatters (stats, duplicates, import paths) that display
// many paths relative to the same root at once.
func ToRelativeAll(paths []string, rootDir string) []string {
	if len(paths) == 0 {
		return paths
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = ToRelative(p, rootDir)
	}
	return out
}
