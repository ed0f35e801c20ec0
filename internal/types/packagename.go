package types

import "github.com/briot/gprdeps/internal/strintern"

// PackageName is the closed set of package names a project file may declare
// (spec Section 6: "Recognised packages"). PackageNone means the statement
// is at the top level of the project, not inside a package.
type PackageName int

const (
	PackageNone PackageName = iota
	PackageBinder
	PackageBuilder
	PackageCompiler
	PackageIde
	PackageLinker
	PackageNaming
)

func (p PackageName) String() string {
	switch p {
	case PackageBinder:
		return "binder"
	case PackageBuilder:
		return "builder"
	case PackageCompiler:
		return "compiler"
	case PackageIde:
		return "ide"
	case PackageLinker:
		return "linker"
	case PackageNaming:
		return "naming"
	default:
		return "<top>"
	}
}

// NewPackageName resolves a lower-cased package identifier, or reports
// whether it names one of the recognised packages at all.
func NewPackageName(lower string) (PackageName, bool) {
	switch lower {
	case "binder":
		return PackageBinder, true
	case "builder":
		return PackageBuilder, true
	case "compiler":
		return PackageCompiler, true
	case "ide":
		return PackageIde, true
	case "linker":
		return PackageLinker, true
	case "naming":
		return PackageNaming, true
	default:
		return PackageNone, false
	}
}

// StringOrOthers is an index or when-clause value that is either a literal
// string or the "others" keyword.
type StringOrOthers struct {
	IsOthers bool
	Str      Ident
}

func NewStringOrOthersStr(s Ident) StringOrOthers { return StringOrOthers{Str: s} }
func Others() StringOrOthers                      { return StringOrOthers{IsOthers: true} }

func (s StringOrOthers) String(t *strintern.Table) string {
	if s.IsOthers {
		return "others"
	}
	return t.Lookup(s.Str)
}
