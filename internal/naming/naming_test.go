package naming_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/evaluator"
	"github.com/briot/gprdeps/internal/gprparser"
	"github.com/briot/gprdeps/internal/naming"
	"github.com/briot/gprdeps/internal/scenario"
	"github.com/briot/gprdeps/internal/strintern"
)

func process(t *testing.T, src string) (*evaluator.GprFile, *scenario.Set, *strintern.Table) {
	t.Helper()
	tbl := strintern.New()
	raw, err := gprparser.Parse("a.gpr", src, tbl)
	require.NoError(t, err)

	scenars := scenario.NewSet(tbl)
	gpr := evaluator.NewGprFile(raw.Path, tbl)
	require.NoError(t, gpr.Process(raw.Name, raw.Body, nil, nil, scenars))
	return gpr, scenars, tbl
}

func TestResolvePicksUpDefaultsWhenNothingDeclared(t *testing.T) {
	gpr, scenars, tbl := process(t, `project A is
             end A;`)

	per, err := naming.Resolve(gpr, scenars, tbl)
	require.NoError(t, err)
	require.Equal(t, 1, per.Len())

	var n *naming.Naming
	for _, v := range per.Entries() {
		n = v
	}
	require.Equal(t, []string{"."}, idsToStrings(n.SourceDirs, tbl))
	require.Equal(t, []string{"ada"}, idsToStrings(n.Languages, tbl))
	require.Equal(t, "-", tbl.Lookup(n.DotReplacement))
	require.Equal(t, ".ads", tbl.Lookup(n.SpecSuffix[tbl.Intern("ada")]))
	require.Equal(t, ".adb", tbl.Lookup(n.BodySuffix[tbl.Intern("ada")]))
}

func TestResolveHonoursDeclaredSourceDirsAndLanguages(t *testing.T) {
	gpr, scenars, tbl := process(t, `project A is
                for Source_Dirs use ("src", "gen");
                for Languages use ("ada", "c");
             end A;`)

	per, err := naming.Resolve(gpr, scenars, tbl)
	require.NoError(t, err)

	var n *naming.Naming
	for _, v := range per.Entries() {
		n = v
	}
	require.ElementsMatch(t, []string{"src", "gen"}, idsToStrings(n.SourceDirs, tbl))
	require.ElementsMatch(t, []string{"ada", "c"}, idsToStrings(n.Languages, tbl))
}

func TestFindSourceFilesMatchesSuffixesAndFlagsMain(t *testing.T) {
	gpr, scenars, tbl := process(t, `project A is
                for Source_Dirs use ("src");
                for Main use ("main.adb");
             end A;`)

	per, err := naming.Resolve(gpr, scenars, tbl)
	require.NoError(t, err)
	var n *naming.Naming
	for _, v := range per.Entries() {
		n = v
	}

	fsys := fstest.MapFS{
		"src/pkg.ads":  {Data: []byte("package Pkg is end Pkg;")},
		"src/pkg.adb":  {Data: []byte("package body Pkg is end Pkg;")},
		"src/main.adb": {Data: []byte("procedure Main is begin null; end Main;")},
		"src/notes.md": {Data: []byte("# notes")},
	}

	files := n.FindSourceFiles(fsys, "a.gpr", tbl, false)
	require.Len(t, files, 3)

	var mains int
	for _, f := range files {
		if f.IsMain {
			mains++
			require.Equal(t, "src/main.adb", f.Path)
		}
	}
	require.Equal(t, 1, mains)
}

func TestFindSourceFilesSkipsMissingDirectoryInsteadOfFailing(t *testing.T) {
	gpr, scenars, tbl := process(t, `project A is
                for Source_Dirs use ("missing");
             end A;`)

	per, err := naming.Resolve(gpr, scenars, tbl)
	require.NoError(t, err)
	var n *naming.Naming
	for _, v := range per.Entries() {
		n = v
	}

	files := n.FindSourceFiles(fstest.MapFS{}, "a.gpr", tbl, false)
	require.Empty(t, files)
}

func TestFindSourceFilesReportsMissingDirectoryWhenEnabled(t *testing.T) {
	gpr, scenars, tbl := process(t, `project A is
                for Source_Dirs use ("missing");
             end A;`)

	per, err := naming.Resolve(gpr, scenars, tbl)
	require.NoError(t, err)
	var n *naming.Naming
	for _, v := range per.Entries() {
		n = v
	}

	// report=true only changes whether the condition is logged, never the
	// result: a missing source directory is still non-fatal either way.
	files := n.FindSourceFiles(fstest.MapFS{}, "a.gpr", tbl, true)
	require.Empty(t, files)
}

func idsToStrings(ids []strintern.ID, tbl *strintern.Table) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = tbl.Lookup(id)
	}
	return out
}
