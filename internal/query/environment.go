// Package query implements the read-only reporting actions run against an
// already-built dependency graph (spec 4.10): statistics, duplicate
// filenames, direct and recursive file imports, and shortest path between
// two nodes. None of it mutates the graph; it only walks it.
package query

import (
	"github.com/briot/gprdeps/internal/evaluator"
	"github.com/briot/gprdeps/internal/graph"
	"github.com/briot/gprdeps/internal/scenario"
	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/types"
)

// Environment bundles everything a query action needs to read: the unified
// graph, the scenario variables declared while building it, and the
// per-source-file language the graph itself does not carry on its nodes.
type Environment struct {
	Graph     *graph.Graph
	Scenarios *scenario.Set
	Interner  *strintern.Table

	// FileLang maps a source node's path to its language, lower-cased and
	// interned, as resolved by naming. Populated by whatever builds the
	// graph; queries that care about language (Duplicates) consult it
	// rather than re-deriving it from the path's extension.
	FileLang map[string]types.Ident

	// Keepers marks every source file path that is a main or a library
	// interface in at least one scenario (spec 4.9). Consulted by Unused,
	// which must never prune these regardless of what still imports them.
	Keepers map[string]bool

	// GPRs holds every evaluated project, keyed by path, for Attributes to
	// read back the per-scenario values naming resolution already folded
	// the raw AST into.
	GPRs map[string]*evaluator.GprFile
}

// NewEnvironment returns an environment over an already-populated graph.
func NewEnvironment(g *graph.Graph, scenars *scenario.Set, tbl *strintern.Table) *Environment {
	return &Environment{
		Graph:     g,
		Scenarios: scenars,
		Interner:  tbl,
		FileLang:  make(map[string]types.Ident),
		Keepers:   make(map[string]bool),
		GPRs:      make(map[string]*evaluator.GprFile),
	}
}
