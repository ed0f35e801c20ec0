package build

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/briot/gprdeps/internal/config"
	"github.com/briot/gprdeps/internal/graph"
	"github.com/briot/gprdeps/internal/logging"
	"github.com/briot/gprdeps/internal/naming"
	"github.com/briot/gprdeps/internal/scanner"
	"github.com/briot/gprdeps/internal/scenario"
	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/types"
)

// addSourcesToGraph resolves every non-abstract project's naming scheme,
// discovers its source files per scenario, scans each one for the units it
// imports, and wires ProjectSource/UnitSource/SourceImports edges (spec
// 4.7, 4.9). Source directories are resolved relative to the project
// file's own directory, the same root naming.FindSourceFiles' caller uses
// in naming_test.go.
func (env *Environment) addSourcesToGraph(settings config.Settings) error {
	for path, gpr := range env.gprs {
		if gpr.IsAbstract {
			continue
		}
		per, err := naming.Resolve(gpr, env.Scenarios, env.Interner)
		if err != nil {
			return err
		}
		gprID, _ := env.Graph.FindProject(path)
		dir := filepath.Dir(path)
		fsys := os.DirFS(dir)

		for scen, n := range per.Entries() {
			for _, sf := range n.FindSourceFiles(fsys, path, env.Interner, settings.ReportMissingSourceDirs) {
				isKeeper := sf.IsMain || isLibraryInterface(n, sf.Unit, env.Interner)
				env.registerSource(gprID, scen, filepath.Join(dir, sf.Path), sf, isKeeper)
			}
		}
	}
	return nil
}

// registerSource creates (or reuses) a source node, links it to its owning
// project under scen, links its unit to it, and — the first time the file
// is seen — scans it for the units it in turn imports. isKeeper is recorded
// even for a file seen before: a file that is a main or library interface
// under any one scenario must never be pruned by unused-source analysis,
// even if this particular scenario says otherwise.
func (env *Environment) registerSource(gprID graph.NodeID, scen scenario.Bits, fullPath string, sf naming.SourceFile, isKeeper bool) {
	srcID, existed := env.Graph.FindSource(fullPath)
	kind := sf.Kind
	if !existed {
		srcID = env.Graph.AddSource(fullPath)
		env.FileLang[fullPath] = sf.Lang
		kind = env.scanSource(srcID, fullPath, sf)
		env.sourceKind[fullPath] = kind
	} else {
		kind = env.sourceKind[fullPath]
	}
	if isKeeper {
		env.Keepers[fullPath] = true
	}
	env.Graph.AddEdge(gprID, srcID, graph.Edge{Kind: graph.ProjectSource, Scenario: scen})

	if len(sf.Unit.Parts) > 0 {
		unitID := env.Graph.AddUnit(sf.Unit)
		env.Graph.AddEdge(unitID, srcID, graph.Edge{Kind: graph.UnitSource, Scenario: scen, FileKind: kind})
	}
}

// isLibraryInterface reports whether unit's dotted name appears in n's
// Library_Interface list. The comparison is case-insensitive: naming's unit
// names are always lower-cased, but a project's Library_Interface entries
// are free-form user text (spec 6).
func isLibraryInterface(n *naming.Naming, unit types.QName, tbl *strintern.Table) bool {
	if len(n.LibraryInterfaces) == 0 {
		return false
	}
	key := unitKey(unit, tbl)
	for li := range n.LibraryInterfaces {
		if strings.EqualFold(li, key) {
			return true
		}
	}
	return false
}

// unitKey renders a unit's qualified name the way Library_Interface entries
// spell it: dot-separated parts, e.g. "pkg.child".
func unitKey(q types.QName, tbl *strintern.Table) string {
	parts := make([]string, len(q.Parts))
	for i, p := range q.Parts {
		parts[i] = tbl.Lookup(p)
	}
	return strings.Join(parts, ".")
}

// scanSource reads fullPath and extracts the units it imports, dispatching
// on language the way the original scanner registry did (one scanner per
// recognised language, silently skipping anything else). It returns sf.Kind
// corrected for what the scan actually found — naming resolution can only
// tell Spec from Body by suffix, so a body that turns out to be an Ada
// `separate` subunit is reclassified here, after the content has been read.
func (env *Environment) scanSource(srcID graph.NodeID, fullPath string, sf naming.SourceFile) naming.FileKind {
	src, err := os.ReadFile(fullPath)
	if err != nil {
		logging.Warnf("%s: %v", fullPath, err)
		return sf.Kind
	}

	switch env.Interner.Lookup(sf.Lang) {
	case "ada":
		return env.scanAdaSource(srcID, fullPath, string(src), sf)
	case "c", "c++", "cpp":
		env.scanCppSource(srcID, string(src))
	}
	return sf.Kind
}

func (env *Environment) scanAdaSource(srcID graph.NodeID, fullPath, src string, sf naming.SourceFile) naming.FileKind {
	res, err := scanner.ScanAda(src)
	if err != nil {
		logging.Warnf("%s: %v", fullPath, err)
		return sf.Kind
	}
	for _, parts := range res.Imports {
		env.addSourceImport(srcID, qnameFromParts(env.Interner, parts))
	}
	kind := sf.Kind
	if res.Kind == scanner.AdaSeparate && len(res.Parent) > 0 {
		env.addSourceImport(srcID, qnameFromParts(env.Interner, res.Parent))
		kind = naming.KindSeparate
	}
	// A child unit automatically depends on its parent package, regardless
	// of what its own context clause spells out.
	if parent, ok := sf.Unit.Parent(); ok {
		env.addSourceImport(srcID, parent)
	}
	return kind
}

func (env *Environment) scanCppSource(srcID graph.NodeID, src string) {
	res, err := scanner.ScanCpp([]byte(src))
	if err != nil {
		return
	}
	for _, inc := range res.Includes {
		env.addSourceImport(srcID, types.QName{Parts: []types.Ident{env.Interner.Intern(inc)}})
	}
}

func (env *Environment) addSourceImport(srcID graph.NodeID, unit types.QName) {
	unitID := env.Graph.AddUnit(unit)
	env.Graph.AddEdge(srcID, unitID, graph.Edge{Kind: graph.SourceImports})
}

func qnameFromParts(tbl *strintern.Table, parts []string) types.QName {
	ids := make([]types.Ident, len(parts))
	for i, p := range parts {
		ids[i] = tbl.Intern(p)
	}
	return types.QName{Parts: ids}
}
