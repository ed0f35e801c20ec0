package display_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/display"
	"github.com/briot/gprdeps/internal/query"
)

func TestFormatPathRendersBranchChain(t *testing.T) {
	out := display.FormatPath([]query.PathStep{
		{Project: "a.gpr"},
		{Source: "a.adb"},
		{Unit: "pkg"},
		{Source: "pkg.adb"},
	}, true, false)

	require.Equal(t, "a.gpr\n└─→ a.adb\n  └─→ (pkg)\n    └─→ pkg.adb\n", out)
}

func TestFormatPathNotFound(t *testing.T) {
	require.Equal(t, "No path found.\n", display.FormatPath(nil, false, false))
}

func TestFormatPathShowIDsAnnotatesEachStep(t *testing.T) {
	out := display.FormatPath([]query.PathStep{
		{ID: 3, Project: "a.gpr"},
		{ID: 7, Source: "a.adb"},
	}, true, true)

	require.Equal(t, "a.gpr [D]\n└─→ a.adb [H]\n", out)
}

func TestFormatImportPathRendersChain(t *testing.T) {
	out := display.FormatImportPath([]string{"a.adb", "b.adb"}, true)
	require.Equal(t, "a.adb\n└─→ b.adb\n", out)
}

func TestFormatFileListEmptyIsNone(t *testing.T) {
	require.Equal(t, "(none)\n", display.FormatFileList(nil))
}

func TestFormatStatsIncludesEveryCount(t *testing.T) {
	out := display.FormatStats(query.Stats{
		DistinctScenarios: 2,
		GraphNodes:        10,
		Projects:          1,
		Units:             4,
		SourceFiles:       5,
		GraphEdges:        9,
	})
	require.True(t, strings.Contains(out, "Scenarios:"))
	require.True(t, strings.Contains(out, "Graph edges:"))
}

func TestFormatDuplicatesEmpty(t *testing.T) {
	require.Equal(t, "No duplicate file names found.\n", display.FormatDuplicates(nil))
}

func TestFormatDuplicatesListsEachRow(t *testing.T) {
	out := display.FormatDuplicates([]query.Duplicate{
		{Name: "pkg.adb", FirstProj: "p1.gpr", SecondProj: "p2.gpr"},
	})
	require.True(t, strings.Contains(out, "pkg.adb"))
	require.True(t, strings.Contains(out, "p1.gpr"))
	require.True(t, strings.Contains(out, "p2.gpr"))
}
