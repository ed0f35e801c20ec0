package evaluator

import (
	"sort"

	"github.com/briot/gprdeps/internal/errors"
	"github.com/briot/gprdeps/internal/logging"
	"github.com/briot/gprdeps/internal/scenario"
	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/types"
)

const numPackages = 7 // PackageNone .. PackageNaming, see types.PackageName

// GprFile is one project file's evaluated state: its declared types and
// attribute/variable values, indexed per package (index 0 is the project's
// own top-level scope, types.PackageNone).
type GprFile struct {
	interner *strintern.Table

	Path        string
	Name        types.Ident
	IsAbstract  bool
	IsAggregate bool
	IsLibrary   bool

	types  [numPackages]map[types.Ident][]types.Ident
	values [numPackages]map[types.SimpleName]Value
}

// NewGprFile returns a GprFile seeded with the default attribute values
// every project starts from before its body runs.
func NewGprFile(path string, interner *strintern.Table) *GprFile {
	g := &GprFile{Path: path, interner: interner}
	for i := range g.types {
		g.types[i] = make(map[types.Ident][]types.Ident)
		g.values[i] = make(map[types.SimpleName]Value)
	}

	str := func(s string) Value { return NewStr(interner.Intern(s)) }
	list := func(ss ...string) Value {
		ids := make([]types.Ident, len(ss))
		for i, s := range ss {
			ids[i] = interner.Intern(s)
		}
		return NewStrList(ids)
	}

	g.values[types.PackageNone][types.SimpleName{Kind: types.NameTarget}] = str("x86_64-linux")
	g.values[types.PackageNone][types.SimpleName{Kind: types.NameSourceDirs}] = list(".")
	g.values[types.PackageNone][types.SimpleName{Kind: types.NameObjectDir}] = str(".")
	g.values[types.PackageNone][types.SimpleName{Kind: types.NameExecDir}] = str(".")
	g.values[types.PackageNone][types.SimpleName{Kind: types.NameLanguages}] = list("ada")

	g.values[types.PackageLinker][types.SimpleName{Kind: types.NameLinkerOptions}] = list()

	g.values[types.PackageNaming][types.SimpleName{Kind: types.NameDotReplacement}] = str("-")
	for _, row := range defaultSuffixes {
		idx := types.NewStringOrOthersStr(interner.Intern(row[0]))
		g.values[types.PackageNaming][types.SimpleName{Kind: types.NameSpecSuffix, Index: idx}] = str(row[1])
		g.values[types.PackageNaming][types.SimpleName{Kind: types.NameBodySuffix, Index: idx}] = str(row[2])
	}

	return g
}

// defaultSuffixes lists the per-language default spec/body suffixes a
// fresh project starts with, matching GNAT's own built-in naming scheme:
// {language, spec suffix, body suffix}.
var defaultSuffixes = [][3]string{
	{"ada", ".ads", ".adb"},
	{"c++", ".hh", ".cpp"},
	{"c", ".h", ".c"},
}

// keepOnTrim is the allowlist of attribute kinds a project file retains
// after Trim drops everything irrelevant to source-file/dependency
// analysis (Builder/IDE switches, configuration pragmas, and the like).
var keepOnTrim = map[types.SimpleNameKind]bool{
	types.NameSourceDirs:         true,
	types.NameSourceFiles:       true,
	types.NameExcludedSourceFiles: true,
	types.NameSourceListFile:    true,
	types.NameLanguages:         true,
	types.NameObjectDir:         true,
	types.NameExecDir:           true,
	types.NameMain:              true,
	types.NameProjectFiles:      true,
	types.NameLibraryInterface:  true,
	types.NameLibraryDir:        true,
	types.NameLibraryName:       true,
	types.NameLibraryKind:       true,
	types.NameLibraryStandalone: true,
	types.NameTarget:            true,
	types.NameBody:              true,
	types.NameSpec:              true,
	types.NameBodySuffix:        true,
	types.NameSpecSuffix:        true,
	types.NameDotReplacement:    true,
}

// Trim drops every attribute not needed for dependency analysis, bounding
// memory on large project trees (spec's "Trim" setting).
func (g *GprFile) Trim() {
	for pkg := range g.values {
		for name := range g.values[pkg] {
			if !keepOnTrim[name.Kind] {
				delete(g.values[pkg], name)
			}
		}
	}
}

// DeclareType registers a `type <name> is (...)` declaration: valid is
// sorted alphabetically by string content (not raw Ident value — this is
// what Describe's per-value ordering depends on) and uniquified before
// storage. Redeclaring an existing type name is an error.
func (g *GprFile) DeclareType(pkg types.PackageName, name types.Ident, valid []types.Ident) error {
	if _, ok := g.types[pkg][name]; ok {
		return errors.Newf(errors.KindAlreadyDeclared, "%s: type already declared", g.interner.Lookup(name))
	}

	sorted := append([]types.Ident{}, valid...)
	sort.Slice(sorted, func(i, j int) bool {
		return g.interner.Lookup(sorted[i]) < g.interner.Lookup(sorted[j])
	})
	uniq := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			uniq = append(uniq, v)
		}
	}

	g.types[pkg][name] = uniq
	return nil
}

// LookupType resolves a type name, searching pkg's own scope first and
// falling back to the project's top-level scope.
func (g *GprFile) LookupType(pkg types.PackageName, name types.Ident) ([]types.Ident, bool) {
	if vals, ok := g.types[pkg][name]; ok {
		return vals, true
	}
	if pkg != types.PackageNone {
		if vals, ok := g.types[types.PackageNone][name]; ok {
			return vals, true
		}
	}
	return nil, false
}

// resolveTypeName resolves a variable declaration's type reference to its
// list of valid values, searching the named project (or self) and, within
// it, qn's own package scope first then the project's top-level scope.
func (g *GprFile) resolveTypeName(qn types.QualifiedName, deps []*GprFile, currentPkg types.PackageName) ([]types.Ident, error) {
	target, err := g.LookupGpr(qn, deps)
	if err != nil {
		return nil, err
	}
	pkg := qn.Package
	if pkg == types.PackageNone {
		pkg = currentPkg
	}
	if valid, ok := target.LookupType(pkg, qn.Name.Name); ok {
		return valid, nil
	}
	return nil, errors.Newf(errors.KindNotFound, "%s: unknown type", g.interner.Lookup(qn.Name.Name))
}

// Declare merges delta into pkg's name slot (spec 4.5): inserted directly
// on first sight — context only narrows an *update* against an existing
// value, since there is nothing yet to carry over outside it — or merged
// into the existing value per the type-combination matrix otherwise.
func (g *GprFile) Declare(pkg types.PackageName, name types.SimpleName, context scenario.Bits, scenars *scenario.Set, delta Value) error {
	existing, ok := g.values[pkg][name]
	if !ok {
		g.values[pkg][name] = delta
		return nil
	}

	switch old := existing.(type) {
	case ValueStr:
		dv, ok := delta.(ValueStr)
		if !ok {
			return errors.Newf(errors.KindVariableMustBeString, "%s: cannot assign a list to a string variable", g.interner.Lookup(name.Name))
		}
		old.Per.Update(dv.Per, context, scenars, func(_, v2 types.Ident) types.Ident { return v2 })
		return nil

	case ValueStrList:
		switch dv := delta.(type) {
		case ValueStr:
			old.Per.Update(dv.Per, context, scenars, func(_ []types.Ident, v2 types.Ident) []types.Ident {
				return []types.Ident{v2}
			})
			return nil
		case ValueStrList:
			old.Per.Update(dv.Per, context, scenars, func(_, v2 []types.Ident) []types.Ident { return v2 })
			return nil
		}
	}
	return errors.Newf(errors.KindVariableMustBeString, "%s: incompatible assignment", g.interner.Lookup(name.Name))
}

// Attr returns a package-qualified attribute or variable's current value
// directly, without qualified-name resolution. Used by later stages
// (naming resolution, display) that already know exactly which slot they
// want, and by tests.
func (g *GprFile) Attr(pkg types.PackageName, name types.SimpleName) (Value, bool) {
	v, ok := g.values[pkg][name]
	return v, ok
}

// AttrsInPackage returns every attribute/variable stored for pkg. Used by
// naming resolution to enumerate indexed attributes (Spec_Suffix,
// Body_Suffix, Spec, Body) one language or unit at a time, since their
// index set isn't known up front.
func (g *GprFile) AttrsInPackage(pkg types.PackageName) map[types.SimpleName]Value {
	return g.values[pkg]
}

// LookupGpr resolves a qualified name's project component: self when it is
// absent or matches this file's own name, the matching dependency
// otherwise.
func (g *GprFile) LookupGpr(qn types.QualifiedName, deps []*GprFile) (*GprFile, error) {
	if !qn.HasProject || qn.Project == g.Name {
		return g, nil
	}
	for _, d := range deps {
		if d.Name == qn.Project {
			return d, nil
		}
	}
	return nil, errors.NotFound(g.interner.Lookup(qn.Project))
}

// Lookup resolves a reference to a variable or attribute (spec 4.3's
// `Name` rule): the named project's own package first when the reference
// is qualified, falling back to currentPkg then the top-level scope for a
// bare name. The returned value is always a shallow copy, since Update
// mutates its receiver in place and callers always use the result as an
// operand of a further merge.
func (g *GprFile) Lookup(qn types.QualifiedName, deps []*GprFile, currentPkg types.PackageName) (Value, error) {
	target, err := g.LookupGpr(qn, deps)
	if err != nil {
		return nil, err
	}

	if qn.Package != types.PackageNone {
		if v, ok := target.values[qn.Package][qn.Name]; ok {
			return cloneValue(v), nil
		}
		return nil, errors.NotFound(g.interner.Lookup(qn.Name.Name))
	}

	if v, ok := target.values[currentPkg][qn.Name]; ok {
		return cloneValue(v), nil
	}
	if currentPkg != types.PackageNone {
		if v, ok := target.values[types.PackageNone][qn.Name]; ok {
			return cloneValue(v), nil
		}
	}
	return nil, errors.NotFound(g.interner.Lookup(qn.Name.Name))
}

// ProcessBody executes body's statements in source order under the given
// scenario context and current package.
func (g *GprFile) ProcessBody(body types.StatementList, deps []*GprFile, scenars *scenario.Set, context scenario.Bits, pkg types.PackageName) error {
	for _, ls := range body {
		if err := g.processOneStmt(ls.Stmt, deps, scenars, context, pkg); err != nil {
			if ee, ok := err.(*errors.EvalError); ok {
				return ee.WithLocation(g.Path, ls.Line)
			}
			return err
		}
	}
	return nil
}

func (g *GprFile) processOneStmt(stmt types.Statement, deps []*GprFile, scenars *scenario.Set, context scenario.Bits, pkg types.PackageName) error {
	switch s := stmt.(type) {
	case types.StmtNull:
		return nil

	case types.StmtTypeDecl:
		valid, err := literalStringList(s.Valid)
		if err != nil {
			return err
		}
		return g.DeclareType(pkg, s.TypeName, valid)

	case types.StmtVariableDecl:
		return g.processVariableDecl(s, deps, scenars, context, pkg)

	case types.StmtAttributeDecl:
		v, err := g.EvalRaw(s.Value, deps, scenars, context, pkg)
		if err != nil {
			return err
		}
		return g.Declare(pkg, s.Name, context, scenars, v)

	case types.StmtPackage:
		return g.processPackage(s, deps, scenars, context)

	case types.StmtCase:
		return g.processCase(s, deps, scenars, context, pkg)

	default:
		return errors.New(errors.KindInvalidExpression, "unknown statement node")
	}
}

// literalStringList evaluates a type declaration's value list, which the
// grammar restricts to a list of static string literals.
func literalStringList(exprs []types.RawExpr) ([]types.Ident, error) {
	out := make([]types.Ident, 0, len(exprs))
	for _, e := range exprs {
		lit, ok := e.(types.ExprStr)
		if !ok {
			return nil, errors.New(errors.KindNotStaticString, "type values must be static string literals")
		}
		out = append(out, lit.Value)
	}
	return out, nil
}

func (g *GprFile) processVariableDecl(s types.StmtVariableDecl, deps []*GprFile, scenars *scenario.Set, context scenario.Bits, pkg types.PackageName) error {
	if s.TypeName != nil {
		// A typed variable initialised from external() registers a scenario
		// variable (spec 4.4) instead of evaluating to a single runtime
		// value: it is split into one entry per value the type allows,
		// regardless of what the environment actually holds right now. The
		// external() call's own default argument only matters for a plain,
		// untyped external() lookup, so it is discarded here.
		if extVarName, _, ok := g.asExternalCall(s.Expr); ok {
			valid, err := g.resolveTypeName(*s.TypeName, deps, pkg)
			if err != nil {
				return err
			}

			v, err := scenars.TryAddVariable(extVarName, valid)
			if err != nil {
				return err
			}
			pairs := make(map[scenario.Bits]types.Ident, len(v.Values))
			for _, val := range v.Values {
				pairs[v.Mask(val)] = val
			}
			return g.Declare(pkg, types.NewVarName(s.Name), context, scenars, newStrFromPairs(pairs))
		}
	}

	val, err := g.EvalRaw(s.Expr, deps, scenars, context, pkg)
	if err != nil {
		return err
	}
	return g.Declare(pkg, types.NewVarName(s.Name), context, scenars, val)
}

// asExternalCall reports whether expr is a call to the builtin `external`
// function, returning its first (variable name) argument and its optional
// default expression. Used to detect the scenario-variable-birth form of a
// typed variable declaration (spec 4.4), as distinct from a plain,
// non-birthing `external()` call used as an ordinary value.
func (g *GprFile) asExternalCall(expr types.RawExpr) (name types.Ident, def types.RawExpr, ok bool) {
	fc, isCall := expr.(types.ExprFuncCall)
	if !isCall {
		return 0, nil, false
	}
	if fc.Name.HasProject || fc.Name.Package != types.PackageNone || fc.Name.Name.Kind != types.NameVariable {
		return 0, nil, false
	}
	if g.interner.Lookup(fc.Name.Name.Name) != "external" || len(fc.Args) == 0 {
		return 0, nil, false
	}
	lit, isStr := fc.Args[0].(types.ExprStr)
	if !isStr {
		return 0, nil, false
	}
	if len(fc.Args) > 1 {
		return lit.Value, fc.Args[1], true
	}
	return lit.Value, nil, true
}

// processPackage handles all three package-statement forms: a plain body,
// `renames`, and `extends`. Only the target's Project component is
// consulted when resolving renames/extends — the parsed target name's own
// Package/Name fields are syntactic noise left over from qualified-name
// parsing, matching how the original evaluator reads this construct: the
// source attributes are always copied using the CURRENT package's own slot
// (s.Name), never anything derived from the target's parsed name.
func (g *GprFile) processPackage(s types.StmtPackage, deps []*GprFile, scenars *scenario.Set, context scenario.Bits) error {
	switch {
	case s.Renames != nil:
		src, err := g.LookupGpr(*s.Renames, deps)
		if err != nil {
			return err
		}
		g.copyPackageValues(s.Name, src)
		return nil

	case s.ExtendsPkg != nil:
		src, err := g.LookupGpr(*s.ExtendsPkg, deps)
		if err != nil {
			return err
		}
		g.copyPackageValues(s.Name, src)
		return g.ProcessBody(s.Body, deps, scenars, context, s.Name)

	default:
		return g.ProcessBody(s.Body, deps, scenars, context, s.Name)
	}
}

func (g *GprFile) copyPackageValues(pkg types.PackageName, src *GprFile) {
	for name, v := range src.values[pkg] {
		g.values[pkg][name] = cloneValue(v)
	}
}

func (g *GprFile) processCase(s types.StmtCase, deps []*GprFile, scenars *scenario.Set, context scenario.Bits, pkg types.PackageName) error {
	discriminant, err := g.Lookup(s.VarName, deps, pkg)
	if err != nil {
		return err
	}
	sv, ok := discriminant.(ValueStr)
	if !ok {
		return errors.New(errors.KindVariableMustBeString, "case discriminant must be a string variable")
	}

	cs, err := scenars.PrepareCaseStmt(sv.Per.Entries())
	if err != nil {
		return err
	}

	for _, when := range s.When {
		armCtx := scenars.ProcessWhenClause(context, &cs, when)
		if scenario.ArmUnreachable(&cs, armCtx) {
			if len(when.Body) > 0 {
				logging.Warnf("%s: useless when clause", g.Path)
			}
			continue
		}
		if err := g.ProcessBody(when.Body, deps, scenars, armCtx, pkg); err != nil {
			return err
		}
	}
	return nil
}

// Process evaluates this project's body (spec 4.6's per-project step):
// when extendedFrom is non-nil, its evaluated values seed this project's
// initial state before the body runs.
func (g *GprFile) Process(name types.Ident, rawBody types.StatementList, extendedFrom *GprFile, deps []*GprFile, scenars *scenario.Set) error {
	g.Name = name
	if extendedFrom != nil {
		for pkg := range extendedFrom.values {
			for n, v := range extendedFrom.values[pkg] {
				g.values[pkg][n] = cloneValue(v)
			}
		}
	}

	if err := g.ProcessBody(rawBody, deps, scenars, scenario.Universal, types.PackageNone); err != nil {
		if ee, ok := err.(*errors.EvalError); ok {
			return ee.WithPath(g.Path)
		}
		return err
	}
	return nil
}
