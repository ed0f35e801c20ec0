package query

import (
	"sort"

	"github.com/briot/gprdeps/internal/errors"
	"github.com/briot/gprdeps/internal/graph"
)

// Imported reports the source files a source file depends on (spec 4.10):
// a file imports units directly, and a unit is in turn implemented by one
// or more source files. Direct mode stops at the first hop; recurse walks
// the transitive closure.
func (env *Environment) Imported(path string, recurse bool) ([]string, error) {
	start, ok := env.Graph.FindSource(path)
	if !ok {
		return nil, errors.Newf(errors.KindNotFound, "file not found in graph: %s", path)
	}

	if recurse {
		reached := env.Graph.Dependencies(start, graph.SourceImports, graph.UnitSource)
		var out []string
		seen := make(map[string]bool)
		for _, id := range reached {
			n := env.Graph.Node(id)
			if n.Kind == graph.NodeSource && !seen[n.Path] {
				seen[n.Path] = true
				out = append(out, n.Path)
			}
		}
		sort.Strings(out)
		return out, nil
	}

	seen := make(map[string]bool)
	var out []string
	for unit, e := range env.Graph.Out(start) {
		if e.Kind != graph.SourceImports {
			continue
		}
		for src, ue := range env.Graph.Out(unit) {
			if ue.Kind != graph.UnitSource {
				continue
			}
			n := env.Graph.Node(src)
			if n.Kind == graph.NodeSource && !seen[n.Path] {
				seen[n.Path] = true
				out = append(out, n.Path)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
