// Package discovery walks a set of root directories looking for project
// files (spec 4.6's "discovers project files by walking a root, skipping
// typical junk directories"). Multiple roots are walked concurrently, since
// a large tree's directory enumeration is I/O-bound.
package discovery

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/briot/gprdeps/internal/logging"
)

// gprExt is the extension that marks a project file.
const gprExt = ".gpr"

// builtinJunk lists directory basenames always skipped, on top of whatever
// the caller's exclude patterns add. Mirrors the junk list a hand-rolled
// walker hardcodes when it isn't generic enough to be worth configuring.
var builtinJunk = map[string]bool{
	".git":        true,
	".svn":        true,
	".hg":         true,
	"__pycache__": true,
	"objects":     true,
}

// Find walks every root and returns every discovered project file path,
// sorted for deterministic output. exclude is a set of doublestar glob
// patterns (spec Section 6's Exclude knob) checked against the path
// relative to the root being walked; a directory matching one is pruned
// entirely rather than merely skipped. When resolveSymlinks is set (spec
// Section 6's ResolveSymbolicLinks knob), a discovered path is canonicalized
// through its symlinks before being used as the identity dedup keys on —
// and ultimately returned as — so two roots that reach the same project
// file through different links are recognized as one.
func Find(ctx context.Context, roots []string, exclude []string, resolveSymlinks bool) ([]string, error) {
	results := make([][]string, len(roots))
	g, ctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			found, err := findOne(ctx, root, exclude)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []string
	seen := make(map[string]bool)
	for _, found := range results {
		for _, p := range found {
			key := p
			if resolveSymlinks {
				if resolved, err := filepath.EvalSymlinks(p); err == nil {
					key = resolved
					p = resolved
				}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, p)
		}
	}
	sort.Strings(all)
	return all, nil
}

// findOne walks a single root. root may itself be an explicit .gpr file,
// in which case it is returned directly without walking.
func findOne(ctx context.Context, root string, exclude []string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(root), gprExt) {
		return []string{root}, nil
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logging.Warnf("could not read %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && shouldPrune(path, root, d.Name(), exclude) {
				return fs.SkipDir
			}
			return nil
		}

		if strings.EqualFold(filepath.Ext(path), gprExt) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// shouldPrune reports whether the directory at path must not be descended
// into: it carries a reserved junk name, or its path relative to root
// matches one of the caller's exclude patterns.
func shouldPrune(path, root, base string, exclude []string) bool {
	if builtinJunk[base] {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, rel+"/"); matched {
			return true
		}
	}
	return false
}
