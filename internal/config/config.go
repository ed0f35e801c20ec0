// Package config loads the tool's settings (spec Section 6 "Configuration
// knobs" and the restored settings.rs surface) from a `.gprdeps.kdl` file,
// following the teacher's three-step merge: a home-directory base config,
// a project-directory config, and CLI flag overrides layered on top.
package config

import (
	"os"

	"github.com/briot/gprdeps/pkg/pathutil"
)

// Settings holds every tool-level knob consumed by the evaluator, the
// discovery walker and the query actions, but not defined by them.
type Settings struct {
	// ReportMissingSourceDirs, when true, surfaces a warning whenever a
	// project's Source_Dirs entry does not exist on disk.
	ReportMissingSourceDirs bool

	// ResolveSymbolicLinks controls whether discovered paths are resolved
	// through symlinks before being used as identity for already-seen-file
	// dedup. Slower, but avoids parsing the same file twice under two
	// different links.
	ResolveSymbolicLinks bool

	// RuntimeGPR lists project files implicitly imported by every
	// non-abstract project (language runtime projects).
	RuntimeGPR []string

	// Root lists the directories (or explicit project files) discovery
	// starts from.
	Root []string

	// Trim drops attributes irrelevant to source-file analysis once a
	// project has been fully evaluated, to bound memory on large trees.
	Trim bool

	// RelTo is the directory every displayed path is made relative to.
	RelTo string

	// Exclude lists doublestar glob patterns skipped during discovery, in
	// addition to the built-in junk-directory list.
	Exclude []string
}

// Default returns the zero-configuration settings: nothing reported,
// nothing trimmed, paths displayed relative to the current directory, and
// the built-in exclusion patterns.
func Default() Settings {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Settings{
		RelTo:   cwd,
		Exclude: defaultExclusions(),
	}
}

func defaultExclusions() []string {
	return []string{
		"**/.git/**",
		"**/.svn/**",
		"**/obj/**",
		"**/lib/**",
		"**/.build/**",
	}
}

// DisplayPath renders path relative to RelTo when possible, absolute
// otherwise — mirrors settings.rs's display_path.
func (s Settings) DisplayPath(path string) string {
	return pathutil.ToRelative(path, s.RelTo)
}

// Load merges, on top of Default, the global `~/.gprdeps.kdl` and then the
// project `<searchDir>/.gprdeps.kdl`. Command-line overrides are not applied
// here. searchDir defaults to the current directory when empty.
func Load(searchDir string) (Settings, error) {
	cfg := Default()
	if searchDir == "" {
		searchDir = "."
	}

	if home, err := os.UserHomeDir(); err == nil {
		if base, ok, err := LoadKDL(home); err != nil {
			return cfg, err
		} else if ok {
			cfg = mergeSettings(cfg, base)
		}
	}

	if proj, ok, err := LoadKDL(searchDir); err != nil {
		return cfg, err
	} else if ok {
		cfg = mergeSettings(cfg, proj)
	}

	return cfg, nil
}

// mergeSettings layers override on top of base: RelTo is replaced when
// override sets it, boolean fields are OR-ed (an override cannot turn off a
// flag the base set), slice fields are replaced only when override set one
// (an absent KDL node leaves the base's list, e.g. built-in exclusions,
// untouched).
func mergeSettings(base, override Settings) Settings {
	out := base
	if override.RelTo != "" {
		out.RelTo = override.RelTo
	}
	out.ReportMissingSourceDirs = out.ReportMissingSourceDirs || override.ReportMissingSourceDirs
	out.ResolveSymbolicLinks = out.ResolveSymbolicLinks || override.ResolveSymbolicLinks
	out.Trim = out.Trim || override.Trim
	if len(override.RuntimeGPR) > 0 {
		out.RuntimeGPR = override.RuntimeGPR
	}
	if len(override.Root) > 0 {
		out.Root = override.Root
	}
	if len(override.Exclude) > 0 {
		out.Exclude = override.Exclude
	}
	return out
}
