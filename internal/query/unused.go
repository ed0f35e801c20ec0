package query

import (
	"sort"
	"strings"

	"github.com/briot/gprdeps/internal/graph"
)

// Unused reports every source file that spec 4.9's iterative sink-removal
// over the condensed unit graph finds unreachable from any keeper unit: a
// unit is a keeper if one of its source files is a main or a library
// interface in any scenario, or lives under one of the given ignore path
// prefixes. Source-condensing into strongly-connected components first
// means a cycle of units that nothing outside the cycle ever imports is
// still reported as unused, rather than propping itself up by mutual
// reference.
func (env *Environment) Unused(ignore []string) []string {
	ug := env.Graph.DeriveUnitGraph()

	keeper := func(id graph.NodeID) bool {
		unitID, ok := env.Graph.FindUnit(ug.Node(id).Unit)
		if !ok {
			return false
		}
		for src, e := range env.Graph.Out(unitID) {
			if e.Kind != graph.UnitSource {
				continue
			}
			path := env.Graph.Node(src).Path
			if env.Keepers[path] || hasAnyPrefix(path, ignore) {
				return true
			}
		}
		return false
	}

	var out []string
	seen := make(map[string]bool)
	for _, uid := range graph.UnusedUnits(ug, keeper) {
		unitID, ok := env.Graph.FindUnit(ug.Node(uid).Unit)
		if !ok {
			continue
		}
		for src, e := range env.Graph.Out(unitID) {
			if e.Kind != graph.UnitSource {
				continue
			}
			path := env.Graph.Node(src).Path
			if !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
		}
	}
	sort.Strings(out)
	return out
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
