package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/briot/gprdeps/internal/errors"
	"github.com/briot/gprdeps/internal/evaluator"
	"github.com/briot/gprdeps/internal/types"
)

// allPackages lists every package Attributes scans, PackageNone (top-level
// attributes) first.
var allPackages = []types.PackageName{
	types.PackageNone,
	types.PackageBinder,
	types.PackageBuilder,
	types.PackageCompiler,
	types.PackageIde,
	types.PackageLinker,
	types.PackageNaming,
}

// Attributes renders every attribute and variable path declares, one block
// per package, one line per scenario entry of its value (spec 4.2's
// PerScenario, spec 4.8). A project evaluated identically under every
// scenario prints a single line per attribute, whose scenario column reads
// "VAR=*" for every declared variable (and is blank when none is
// declared); one whose value a scenario variable narrows prints one line
// per entry, each prefixed with the scenario it applies to.
func (env *Environment) Attributes(path string) (string, error) {
	gpr, ok := env.GPRs[path]
	if !ok {
		return "", errors.Newf(errors.KindNotFound, "project not found: %s", path)
	}

	var sb strings.Builder
	for _, pkg := range allPackages {
		attrs := gpr.AttrsInPackage(pkg)
		if len(attrs) == 0 {
			continue
		}

		names := make([]types.SimpleName, 0, len(attrs))
		for name := range attrs {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return names[i].String(env.Interner) < names[j].String(env.Interner)
		})

		fmt.Fprintf(&sb, "%s:\n", pkg)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %s:\n", name.String(env.Interner))
			sb.WriteString(env.formatAttrValue(attrs[name]))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func (env *Environment) formatAttrValue(v evaluator.Value) string {
	switch vv := v.(type) {
	case evaluator.ValueStr:
		return vv.Per.TwoColumns(env.Scenarios, "    ", "\n", func(id types.Ident) string {
			return env.Interner.Lookup(id)
		})
	case evaluator.ValueStrList:
		return vv.Per.TwoColumns(env.Scenarios, "    ", "\n", func(ids []types.Ident) string {
			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = env.Interner.Lookup(id)
			}
			return strings.Join(parts, ", ")
		})
	default:
		return ""
	}
}
