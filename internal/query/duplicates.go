package query

import (
	"path/filepath"
	"sort"

	"github.com/briot/gprdeps/internal/graph"
)

// Duplicate reports two source files with the same basename, reached from
// two different projects.
type Duplicate struct {
	Name       string
	FirstProj  string
	SecondProj string
	FirstPath  string
	SecondPath string
}

// Duplicates looks for same-named Ada source files reachable from more
// than one project (spec 4.10). Reusing the same filename across
// unrelated projects is usually a mistake, though it is sometimes
// intentional (a unit body implemented differently per scenario) — this
// only flags filenames seen under two distinct projects, not every
// occurrence, to keep the common legitimate case quiet.
func (env *Environment) Duplicates() []Duplicate {
	adaLang := env.Interner.Intern("ada")

	var projPaths []string
	for i := 0; i < env.Graph.Len(); i++ {
		id := graph.NodeID(i)
		if env.Graph.Node(id).Kind == graph.NodeProject {
			projPaths = append(projPaths, env.Graph.Node(id).Path)
		}
	}
	sort.Strings(projPaths)

	type firstSeen struct{ proj, path string }
	seen := make(map[string]firstSeen)
	var out []Duplicate

	for _, gprPath := range projPaths {
		gprID, found := env.Graph.FindProject(gprPath)
		if !found {
			continue
		}
		var sources []string
		for to, e := range env.Graph.Out(gprID) {
			if e.Kind != graph.ProjectSource {
				continue
			}
			if n := env.Graph.Node(to); n.Kind == graph.NodeSource {
				sources = append(sources, n.Path)
			}
		}
		sort.Strings(sources)

		for _, srcPath := range sources {
			if lang, ok := env.FileLang[srcPath]; ok && lang != adaLang {
				continue
			}
			base := filepath.Base(srcPath)
			prev, already := seen[base]
			if !already {
				seen[base] = firstSeen{gprPath, srcPath}
				continue
			}
			if prev.proj == gprPath {
				continue
			}
			out = append(out, Duplicate{
				Name:       base,
				FirstProj:  prev.proj,
				SecondProj: gprPath,
				FirstPath:  prev.path,
				SecondPath: srcPath,
			})
		}
	}
	return out
}
