// Package naming resolves a project's evaluated attributes into a naming
// scheme (spec 4.7): which source directories to scan, which suffixes and
// explicit Spec/Body mappings identify a unit, and which files are mains or
// library interfaces. Resolution runs per scenario, since every attribute
// it draws from may itself vary by scenario.
package naming

import (
	"io/fs"
	"strings"

	"github.com/briot/gprdeps/internal/errors"
	"github.com/briot/gprdeps/internal/evaluator"
	"github.com/briot/gprdeps/internal/logging"
	"github.com/briot/gprdeps/internal/perscenario"
	"github.com/briot/gprdeps/internal/scenario"
	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/types"
)

// FileKind distinguishes the three roles a source file can play for a unit.
type FileKind int

const (
	KindSpec FileKind = iota
	KindBody
	KindSeparate
)

// SourceFile is one file found by naming resolution, in a single scenario.
type SourceFile struct {
	Path   string
	Lang   types.Ident
	Kind   FileKind
	Unit   types.QName
	IsMain bool
}

// Naming is one scenario's view of a project's naming scheme.
type Naming struct {
	Languages           []types.Ident
	SourceDirs          []types.Ident
	SourceFiles         map[types.Ident]bool // nil: no whitelist, every file is a candidate
	ExcludedSourceFiles map[types.Ident]bool
	SpecSuffix          map[types.Ident]types.Ident // lang -> suffix
	BodySuffix          map[types.Ident]types.Ident
	SpecFiles           map[types.Ident]types.Ident // unit (lower) -> explicit file basename
	BodyFiles           map[types.Ident]types.Ident
	Main                map[types.Ident]bool
	LibraryInterfaces   map[string]bool // unit qname text, nil if not declared
	DotReplacement      types.Ident
}

func (n *Naming) clone() *Naming {
	cp := *n
	return &cp
}

// Resolve builds a per-scenario Naming for gpr, starting from its defaults
// and layering every naming-relevant attribute on top (spec 4.7, first
// paragraph). Unset attributes are left at their zero value.
func Resolve(gpr *evaluator.GprFile, scenars *scenario.Set, tbl *strintern.Table) (*perscenario.Map[*Naming], error) {
	acc := perscenario.New(&Naming{DotReplacement: tbl.Intern("-")})

	if err := mergeList(acc, gpr, types.PackageNone, types.SimpleName{Kind: types.NameSourceDirs}, scenars,
		func(n *Naming, v []types.Ident) { n.SourceDirs = v },
		func(n *Naming) []types.Ident { return n.SourceDirs }); err != nil {
		return nil, err
	}
	if err := mergeList(acc, gpr, types.PackageNone, types.SimpleName{Kind: types.NameLanguages}, scenars,
		func(n *Naming, v []types.Ident) { n.Languages = v },
		func(n *Naming) []types.Ident { return n.Languages }); err != nil {
		return nil, err
	}
	if err := mergeList(acc, gpr, types.PackageNone, types.SimpleName{Kind: types.NameSourceFiles}, scenars,
		func(n *Naming, v []types.Ident) { n.SourceFiles = toSet(v) },
		func(n *Naming) []types.Ident { return setToList(n.SourceFiles) }); err != nil {
		return nil, err
	}
	if err := mergeList(acc, gpr, types.PackageNone, types.SimpleName{Kind: types.NameExcludedSourceFiles}, scenars,
		func(n *Naming, v []types.Ident) { n.ExcludedSourceFiles = toSet(v) },
		func(n *Naming) []types.Ident { return setToList(n.ExcludedSourceFiles) }); err != nil {
		return nil, err
	}
	if err := mergeList(acc, gpr, types.PackageNone, types.SimpleName{Kind: types.NameMain}, scenars,
		func(n *Naming, v []types.Ident) { n.Main = toSet(v) },
		func(n *Naming) []types.Ident { return setToList(n.Main) }); err != nil {
		return nil, err
	}
	if err := mergeList(acc, gpr, types.PackageNone, types.SimpleName{Kind: types.NameLibraryInterface}, scenars,
		func(n *Naming, v []types.Ident) {
			n.LibraryInterfaces = make(map[string]bool, len(v))
			for _, id := range v {
				n.LibraryInterfaces[tbl.Lookup(id)] = true
			}
		},
		func(n *Naming) []types.Ident {
			out := make([]types.Ident, 0, len(n.LibraryInterfaces))
			for s := range n.LibraryInterfaces {
				out = append(out, tbl.Intern(s))
			}
			return out
		}); err != nil {
		return nil, err
	}
	if err := mergeStr(acc, gpr, types.PackageNaming, types.SimpleName{Kind: types.NameDotReplacement}, scenars,
		func(n *Naming, v types.Ident) { n.DotReplacement = v },
		func(n *Naming) types.Ident { return n.DotReplacement }); err != nil {
		return nil, err
	}

	for sn := range gpr.AttrsInPackage(types.PackageNaming) {
		switch sn.Kind {
		case types.NameSpecSuffix:
			lang := sn.Index.Str
			if err := mergeStr(acc, gpr, types.PackageNaming, sn, scenars,
				func(n *Naming, val types.Ident) {
					if n.SpecSuffix == nil {
						n.SpecSuffix = map[types.Ident]types.Ident{}
					}
					n.SpecSuffix[lang] = val
				},
				func(n *Naming) types.Ident { return n.SpecSuffix[lang] }); err != nil {
				return nil, err
			}
		case types.NameBodySuffix:
			lang := sn.Index.Str
			if err := mergeStr(acc, gpr, types.PackageNaming, sn, scenars,
				func(n *Naming, val types.Ident) {
					if n.BodySuffix == nil {
						n.BodySuffix = map[types.Ident]types.Ident{}
					}
					n.BodySuffix[lang] = val
				},
				func(n *Naming) types.Ident { return n.BodySuffix[lang] }); err != nil {
				return nil, err
			}
		case types.NameSpec:
			unit := tbl.Intern(strings.ToLower(tbl.Lookup(sn.Index.Str)))
			if err := mergeStr(acc, gpr, types.PackageNaming, sn, scenars,
				func(n *Naming, val types.Ident) {
					if n.SpecFiles == nil {
						n.SpecFiles = map[types.Ident]types.Ident{}
					}
					n.SpecFiles[unit] = val
				},
				func(n *Naming) types.Ident { return n.SpecFiles[unit] }); err != nil {
				return nil, err
			}
		case types.NameBody:
			unit := tbl.Intern(strings.ToLower(tbl.Lookup(sn.Index.Str)))
			if err := mergeStr(acc, gpr, types.PackageNaming, sn, scenars,
				func(n *Naming, val types.Ident) {
					if n.BodyFiles == nil {
						n.BodyFiles = map[types.Ident]types.Ident{}
					}
					n.BodyFiles[unit] = val
				},
				func(n *Naming) types.Ident { return n.BodyFiles[unit] }); err != nil {
				return nil, err
			}
		}
	}

	return acc, nil
}

func toSet(v []types.Ident) map[types.Ident]bool {
	out := make(map[types.Ident]bool, len(v))
	for _, id := range v {
		out[id] = true
	}
	return out
}

func setToList(m map[types.Ident]bool) []types.Ident {
	out := make([]types.Ident, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

// mergeList folds a list-valued attribute into acc. set stores a raw delta
// value onto a throwaway Naming patch; get reads that same field back off
// the patch once Update has paired it with the accumulator's current entry,
// so the merge logic never needs to know which field it is handling.
func mergeList(
	acc *perscenario.Map[*Naming],
	gpr *evaluator.GprFile,
	pkg types.PackageName,
	name types.SimpleName,
	scenars *scenario.Set,
	set func(n *Naming, v []types.Ident),
	get func(n *Naming) []types.Ident,
) error {
	v, ok := gpr.Attr(pkg, name)
	if !ok {
		return nil
	}
	sl, ok := v.(evaluator.ValueStrList)
	if !ok {
		return errors.New(errors.KindVariableMustBeString, "attribute must be a list")
	}
	patch := perscenario.Map1(sl.Per, func(vals []types.Ident) *Naming {
		n := &Naming{}
		set(n, vals)
		return n
	})
	acc.Update(patch, scenario.Universal, scenars, func(self, other *Naming) *Naming {
		merged := self.clone()
		set(merged, get(other))
		return merged
	})
	return nil
}

// mergeStr is mergeList's string-valued counterpart.
func mergeStr(
	acc *perscenario.Map[*Naming],
	gpr *evaluator.GprFile,
	pkg types.PackageName,
	name types.SimpleName,
	scenars *scenario.Set,
	set func(n *Naming, v types.Ident),
	get func(n *Naming) types.Ident,
) error {
	v, ok := gpr.Attr(pkg, name)
	if !ok {
		return nil
	}
	sv, ok := v.(evaluator.ValueStr)
	if !ok {
		return errors.New(errors.KindVariableMustBeString, "attribute must be a string")
	}
	patch := perscenario.Map1(sv.Per, func(val types.Ident) *Naming {
		n := &Naming{}
		set(n, val)
		return n
	})
	acc.Update(patch, scenario.Universal, scenars, func(self, other *Naming) *Naming {
		merged := self.clone()
		set(merged, get(other))
		return merged
	})
	return nil
}

// unitName derives an Ada unit name from a file's basename and the suffix
// it matched (spec 4.7): strip the suffix, split on Dot_Replacement.
func unitName(basename, suffix string, dotReplacement string, tbl *strintern.Table) types.QName {
	stem := strings.TrimSuffix(basename, suffix)
	parts := strings.Split(stem, dotReplacement)
	ids := make([]types.Ident, len(parts))
	for i, p := range parts {
		ids[i] = tbl.Intern(strings.ToLower(p))
	}
	return types.QName{Parts: ids}
}

// FindSourceFiles enumerates n's source directories in fsys and matches
// every file against the declared suffixes and explicit Spec/Body mappings
// (spec 4.7, steps 1-4). A source directory that cannot be read is a
// non-fatal condition (spec 4.11); it is only logged when report is true,
// gated by config.Settings.ReportMissingSourceDirs, since a tree with
// scenario-conditional source directories routinely has some that don't
// exist under every scenario.
func (n *Naming) FindSourceFiles(fsys fs.FS, path string, tbl *strintern.Table, report bool) []SourceFile {
	var out []SourceFile
	registered := make(map[string]bool)

	register := func(dir, base string, lang types.Ident, kind FileKind, unit types.QName) {
		if n.SourceFiles != nil && !n.SourceFiles[tbl.Intern(base)] {
			return
		}
		if n.ExcludedSourceFiles[tbl.Intern(base)] {
			return
		}
		full := dir + "/" + base
		if registered[full] {
			return
		}
		registered[full] = true
		out = append(out, SourceFile{
			Path:   full,
			Lang:   lang,
			Kind:   kind,
			Unit:   unit,
			IsMain: n.Main[tbl.Intern(base)],
		})
	}

	for _, dirID := range n.SourceDirs {
		dir := tbl.Lookup(dirID)
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			if report {
				logging.Warnf("%s: source directory %s: %v", path, dir, err)
			}
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			base := e.Name()
			for _, lang := range n.Languages {
				if suf, ok := n.SpecSuffix[lang]; ok && strings.HasSuffix(base, tbl.Lookup(suf)) {
					unit := unitName(base, tbl.Lookup(suf), tbl.Lookup(n.DotReplacement), tbl)
					register(dir, base, lang, KindSpec, unit)
				}
				if suf, ok := n.BodySuffix[lang]; ok && strings.HasSuffix(base, tbl.Lookup(suf)) {
					unit := unitName(base, tbl.Lookup(suf), tbl.Lookup(n.DotReplacement), tbl)
					register(dir, base, lang, KindBody, unit)
				}
			}
		}

		ada := tbl.Intern("ada")
		isAda := false
		for _, l := range n.Languages {
			if l == ada {
				isAda = true
			}
		}
		if isAda {
			for unit, file := range n.SpecFiles {
				register(dir, tbl.Lookup(file), ada, KindSpec, types.QName{Parts: []types.Ident{unit}})
			}
			for unit, file := range n.BodyFiles {
				register(dir, tbl.Lookup(file), ada, KindBody, types.QName{Parts: []types.Ident{unit}})
			}
		}
	}
	return out
}
