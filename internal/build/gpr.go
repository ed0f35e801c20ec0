package build

import (
	"context"
	"os"

	"github.com/briot/gprdeps/internal/config"
	"github.com/briot/gprdeps/internal/discovery"
	"github.com/briot/gprdeps/internal/evaluator"
	"github.com/briot/gprdeps/internal/gprparser"
	"github.com/briot/gprdeps/internal/graph"
	"github.com/briot/gprdeps/internal/types"
)

// findAllGPR walks settings.Root for project files and registers
// settings.RuntimeGPR as the implicit dependencies every non-abstract
// project gains (spec 4.6). It only creates graph nodes; parsing happens
// in parseRawGPRs.
func (env *Environment) findAllGPR(ctx context.Context, settings config.Settings) error {
	for _, imp := range settings.RuntimeGPR {
		env.Graph.AddProject(imp)
		env.implicitProject[imp] = true
	}

	found, err := discovery.Find(ctx, settings.Root, settings.Exclude, settings.ResolveSymbolicLinks)
	if err != nil {
		return err
	}
	for _, path := range found {
		env.Graph.AddProject(path)
	}
	return nil
}

// parseRawGPRs parses every registered project file without evaluating it,
// and wires GPRImports/GPRExtends edges as it goes so EvaluationOrder can
// later produce a correct processing order (spec 4.6). A project's with
// clause or Extends target not yet registered is discovered here, the same
// way the teacher's pipeline grows its file set while walking it.
func (env *Environment) parseRawGPRs() (map[string]*types.RawGPR, error) {
	raws := make(map[string]*types.RawGPR)
	var tovisit []string
	for id := 0; id < env.Graph.Len(); id++ {
		if n := env.Graph.Node(graph.NodeID(id)); n.Kind == graph.NodeProject {
			tovisit = append(tovisit, n.Path)
		}
	}

	for len(tovisit) > 0 {
		path := tovisit[len(tovisit)-1]
		tovisit = tovisit[:len(tovisit)-1]
		if _, done := raws[path]; done {
			continue
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw, err := gprparser.Parse(path, string(src), env.Interner)
		if err != nil {
			return nil, err
		}
		raws[path] = raw

		nodeID, _ := env.Graph.FindProject(path)
		if !raw.IsAbstract && !env.implicitProject[path] {
			for imp := range env.implicitProject {
				impID, _ := env.Graph.FindProject(imp)
				env.Graph.AddEdge(nodeID, impID, graph.Edge{Kind: graph.GPRImports})
			}
		}
		for _, dep := range raw.Imported {
			depID, ok := env.Graph.FindProject(dep)
			if !ok {
				depID = env.Graph.AddProject(dep)
				tovisit = append(tovisit, dep)
			}
			env.Graph.AddEdge(nodeID, depID, graph.Edge{Kind: graph.GPRImports})
		}
		if raw.Extends != "" {
			extID, ok := env.Graph.FindProject(raw.Extends)
			if !ok {
				extID = env.Graph.AddProject(raw.Extends)
				tovisit = append(tovisit, raw.Extends)
			}
			env.Graph.AddEdge(nodeID, extID, graph.Edge{Kind: graph.GPRExtends})
		}
	}
	return raws, nil
}

// processProjects evaluates every project in dependency order, so a
// qualified reference to another project's attribute always finds it
// already evaluated (spec 4.6).
func (env *Environment) processProjects(raws map[string]*types.RawGPR) error {
	order, err := env.Graph.EvaluationOrder()
	if err != nil {
		return err
	}
	for _, id := range order {
		n := env.Graph.Node(id)
		if n.Kind != graph.NodeProject {
			continue
		}
		raw, ok := raws[n.Path]
		if !ok {
			continue
		}

		var deps []*evaluator.GprFile
		var extendedFrom *evaluator.GprFile
		for to, e := range env.Graph.Out(id) {
			dep, ok := env.gprs[env.Graph.Node(to).Path]
			if !ok {
				continue
			}
			switch e.Kind {
			case graph.GPRImports:
				deps = append(deps, dep)
			case graph.GPRExtends:
				extendedFrom = dep
			}
		}

		gpr := evaluator.NewGprFile(raw.Path, env.Interner)
		gpr.IsAbstract = raw.IsAbstract
		gpr.IsAggregate = raw.IsAggregate
		gpr.IsLibrary = raw.IsLibrary
		if err := gpr.Process(raw.Name, raw.Body, extendedFrom, deps, env.Scenarios); err != nil {
			return err
		}
		env.gprs[n.Path] = gpr
	}
	return nil
}
