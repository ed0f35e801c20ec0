package query

import (
	"github.com/briot/gprdeps/internal/graph"
	"github.com/briot/gprdeps/internal/scenario"
)

// Stats summarizes the graph's shape (spec 4.10's stats action).
type Stats struct {
	DistinctScenarios int
	GraphNodes        int
	Projects          int
	Units             int
	SourceFiles       int
	GraphEdges        int
}

// Stats counts node kinds, edges, and the number of distinct scenario bit
// patterns actually attached to an edge anywhere in the graph — a looser,
// more useful figure than the full combinatorial space of declared
// variables, most of which never occurs in practice.
func (env *Environment) Stats() Stats {
	distinct := make(map[scenario.Bits]bool)
	var s Stats
	s.GraphNodes = env.Graph.Len()
	for i := 0; i < env.Graph.Len(); i++ {
		id := graph.NodeID(i)
		switch env.Graph.Node(id).Kind {
		case graph.NodeProject:
			s.Projects++
		case graph.NodeUnit:
			s.Units++
		case graph.NodeSource:
			s.SourceFiles++
		}
		for _, e := range env.Graph.Out(id) {
			s.GraphEdges++
			distinct[e.Scenario] = true
		}
	}
	s.DistinctScenarios = len(distinct)
	return s
}
