package types

// QualifiedName is a name as found in the scanner, before symbol-table
// resolution distinguishes an attribute from a variable or a function call:
//
//	name
//	package.name
//	package'name
//	project.package'name
//	project'name
type QualifiedName struct {
	// Project is set when the name starts with an explicit project
	// identifier ("prj.source_files") rather than "Project'" (current
	// project, HasProject false) or a package name.
	Project    Ident
	HasProject bool
	Package    PackageName
	Name       SimpleName
}

// NewQualifiedNameFromTwo disambiguates a leading identifier that could be
// either a project name or a package name: if it resolves to one of the
// recognised package names it is a package, otherwise it is taken to be a
// project name.
func NewQualifiedNameFromTwo(lookupString func(Ident) string, prjOrPkg Ident, hasPrjOrPkg bool, name SimpleName) QualifiedName {
	if !hasPrjOrPkg {
		return QualifiedName{Package: PackageNone, Name: name}
	}
	if pkg, ok := NewPackageName(lookupString(prjOrPkg)); ok {
		return QualifiedName{Package: pkg, Name: name}
	}
	return QualifiedName{Project: prjOrPkg, HasProject: true, Package: PackageNone, Name: name}
}
