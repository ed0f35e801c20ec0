package query

import (
	"github.com/briot/gprdeps/internal/errors"
	"github.com/briot/gprdeps/internal/graph"
)

// ImportPath finds the shortest chain of imports from source to target,
// restricted to SourceImports/UnitSource edges, and returns only the
// source-file hops (the units visited along the way are an implementation
// detail of how one file reaches another, spec 4.10).
func (env *Environment) ImportPath(source, target string) ([]string, bool, error) {
	from, ok := env.Graph.FindSource(source)
	if !ok {
		return nil, false, errors.Newf(errors.KindNotFound, "file not found in graph: %s", source)
	}
	to, ok := env.Graph.FindSource(target)
	if !ok {
		return nil, false, errors.Newf(errors.KindNotFound, "file not found in graph: %s", target)
	}

	path, found := env.Graph.ShortestPath(from, to, graph.SourceImports, graph.UnitSource)
	if !found {
		return nil, false, nil
	}
	var out []string
	for _, id := range path {
		if n := env.Graph.Node(id); n.Kind == graph.NodeSource {
			out = append(out, n.Path)
		}
	}
	return out, true, nil
}

// PathStep is one hop of a Path result: exactly one of Project, Unit or
// Source is set, matching the node kind it came from.
type PathStep struct {
	ID      graph.NodeID
	Kind    graph.NodeKind
	Project string
	Unit    string
	Source  string
}

// Path finds the shortest path between any two nodes — projects, units or
// source files — over every edge kind (spec 4.10's generic path action).
// Unit hops are included in the result only when showUnits is set; callers
// that don't care about them usually only want to see which files and
// projects the path passes through.
func (env *Environment) Path(source, target string, showUnits bool) ([]PathStep, bool, error) {
	from, err := env.findNode(source)
	if err != nil {
		return nil, false, err
	}
	to, err := env.findNode(target)
	if err != nil {
		return nil, false, err
	}

	path, found := env.Graph.ShortestPath(from, to)
	if !found {
		return nil, false, nil
	}

	var out []PathStep
	for _, id := range path {
		n := env.Graph.Node(id)
		switch n.Kind {
		case graph.NodeProject:
			out = append(out, PathStep{ID: id, Kind: n.Kind, Project: n.Path})
		case graph.NodeSource:
			out = append(out, PathStep{ID: id, Kind: n.Kind, Source: n.Path})
		case graph.NodeUnit:
			if showUnits {
				out = append(out, PathStep{ID: id, Kind: n.Kind, Unit: unitString(env, n)})
			}
		}
	}
	return out, true, nil
}

func (env *Environment) findNode(path string) (graph.NodeID, error) {
	if id, ok := env.Graph.FindSource(path); ok {
		return id, nil
	}
	if id, ok := env.Graph.FindProject(path); ok {
		return id, nil
	}
	return 0, errors.Newf(errors.KindNotFound, "not found in graph: %s", path)
}

func unitString(env *Environment, n graph.Node) string {
	parts := n.Unit.Parts
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "."
		}
		s += env.Interner.Lookup(p)
	}
	return s
}
