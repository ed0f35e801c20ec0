package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/graph"
	"github.com/briot/gprdeps/internal/query"
	"github.com/briot/gprdeps/internal/scenario"
	"github.com/briot/gprdeps/internal/strintern"
)

func TestUnusedPrunesSinkButKeepsMainAndIgnored(t *testing.T) {
	tbl := strintern.New()
	g := graph.New()
	unitA := g.AddUnit(qname(tbl, "a"))
	unitB := g.AddUnit(qname(tbl, "b"))
	unitVendor := g.AddUnit(qname(tbl, "vendor"))
	unitMain := g.AddUnit(qname(tbl, "main"))
	srcA := g.AddSource("a.adb")
	srcB := g.AddSource("b.adb")
	srcVendor := g.AddSource("vendor/v.adb")
	srcMain := g.AddSource("main.adb")

	g.AddEdge(unitA, srcA, graph.Edge{Kind: graph.UnitSource})
	g.AddEdge(unitB, srcB, graph.Edge{Kind: graph.UnitSource})
	g.AddEdge(unitVendor, srcVendor, graph.Edge{Kind: graph.UnitSource})
	g.AddEdge(unitMain, srcMain, graph.Edge{Kind: graph.UnitSource})
	g.AddEdge(srcMain, unitA, graph.Edge{Kind: graph.SourceImports})
	// b and vendor are pure sinks: nothing ever imports their units.

	env := query.NewEnvironment(g, scenario.NewSet(tbl), tbl)
	env.Keepers["main.adb"] = true

	unused := env.Unused([]string{"vendor/"})
	require.Equal(t, []string{"b.adb"}, unused)
}

func TestUnusedEmptyGraphReturnsNothing(t *testing.T) {
	tbl := strintern.New()
	env := query.NewEnvironment(graph.New(), scenario.NewSet(tbl), tbl)
	require.Empty(t, env.Unused(nil))
}
