package gprparser

import (
	"path/filepath"
	"strings"

	"github.com/briot/gprdeps/internal/errors"
	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/types"
)

// parser is a recursive-descent parser over the token stream produced by
// the lexer. It has no symbol-table access: a qualified name is classified
// as an attribute reference purely syntactically, when its final
// identifier follows a tick (validated by types.NewAttrName); everything
// else is a plain variable reference, resolved later by the evaluator.
type parser struct {
	lex      *lexer
	interner *strintern.Table
	cur      token
	path     string
}

var tokenKindNames = map[tokenKind]string{
	tokEOF:        "end of file",
	tokWith:       "with",
	tokLimited:    "limited",
	tokProject:    "project",
	tokAbstract:   "abstract",
	tokAggregate:  "aggregate",
	tokLibrary:    "library",
	tokExtends:    "extends",
	tokIs:         "is",
	tokEnd:        "end",
	tokFor:        "for",
	tokUse:        "use",
	tokPackage:    "package",
	tokRenames:    "renames",
	tokCase:       "case",
	tokWhen:       "when",
	tokOthers:     "others",
	tokType:       "type",
	tokNull:       "null",
	tokSemicolon:  ";",
	tokColon:      ":",
	tokAssign:     ":=",
	tokArrow:      "=>",
	tokPipe:       "|",
	tokDot:        ".",
	tokTick:       "'",
	tokComma:      ",",
	tokOpenParen:  "(",
	tokCloseParen: ")",
	tokAmpersand:  "&",
	tokIdentifier: "identifier",
	tokString:     "string",
}

// Parse scans and parses the project file at path (src is its already-read
// content), returning the unresolved RawGPR. With-clause and extends
// targets are normalized to cleaned, absolute-looking ".gpr" paths relative
// to path's directory; matching them to graph nodes is the caller's job.
func Parse(path, src string, interner *strintern.Table) (*types.RawGPR, error) {
	p := &parser{lex: newLexer(src), interner: interner, path: path}
	if err := p.bump(); err != nil {
		return nil, err
	}

	gpr := &types.RawGPR{Path: path}
	if err := p.parseFile(gpr); err != nil {
		return nil, err
	}
	return gpr, nil
}

func (p *parser) bump() error {
	tok, err := p.lex.next()
	if err != nil {
		return errors.Newf(errors.KindWrongToken, "%v", err).WithPath(p.path)
	}
	p.cur = tok
	return nil
}

func (p *parser) wrongToken(expected string) error {
	return errors.Newf(errors.KindWrongToken, "expected %s, got %s", expected, p.cur.String()).
		WithLocation(p.path, p.cur.line)
}

func (p *parser) expect(kind tokenKind) error {
	if p.cur.kind != kind {
		return p.wrongToken(tokenKindNames[kind])
	}
	return p.bump()
}

func (p *parser) expectIdent() (types.Ident, string, error) {
	if p.cur.kind != tokIdentifier {
		return 0, "", p.wrongToken("identifier")
	}
	lower := p.cur.text
	id := p.interner.Intern(lower)
	if err := p.bump(); err != nil {
		return 0, "", err
	}
	return id, lower, nil
}

func (p *parser) expectStringRaw() (string, error) {
	if p.cur.kind != tokString {
		return "", p.wrongToken("string")
	}
	s := p.cur.text
	if err := p.bump(); err != nil {
		return "", err
	}
	return s, nil
}

func (p *parser) expectStrOrOthers() (types.StringOrOthers, error) {
	switch p.cur.kind {
	case tokOthers:
		if err := p.bump(); err != nil {
			return types.StringOrOthers{}, err
		}
		return types.Others(), nil
	case tokString:
		id := p.interner.Intern(p.cur.text)
		if err := p.bump(); err != nil {
			return types.StringOrOthers{}, err
		}
		return types.NewStringOrOthersStr(id), nil
	default:
		return types.StringOrOthers{}, p.wrongToken("string or others")
	}
}

func (p *parser) normalizeGPRPath(rel string) string {
	dir := filepath.Dir(p.path)
	joined := filepath.Join(dir, rel)
	if ext := filepath.Ext(joined); ext != ".gpr" {
		joined = strings.TrimSuffix(joined, ext) + ".gpr"
	}
	return filepath.Clean(joined)
}

// parseFile is "with_clause* project_decl" (spec Section 6), looping so
// that trailing garbage after the single project declaration is reported
// rather than silently ignored.
func (p *parser) parseFile(gpr *types.RawGPR) error {
	for {
		switch p.cur.kind {
		case tokEOF:
			return nil
		case tokWith, tokLimited:
			if err := p.parseWithClause(gpr); err != nil {
				return err
			}
		default:
			if err := p.parseProjectDecl(gpr); err != nil {
				return err
			}
		}
	}
}

func (p *parser) parseWithClause(gpr *types.RawGPR) error {
	if p.cur.kind == tokLimited {
		if err := p.bump(); err != nil {
			return err
		}
	}
	if err := p.expect(tokWith); err != nil {
		return err
	}
	raw, err := p.expectStringRaw()
	if err != nil {
		return err
	}
	gpr.Imported = append(gpr.Imported, p.normalizeGPRPath(raw))
	return p.expect(tokSemicolon)
}

func (p *parser) parseProjectDecl(gpr *types.RawGPR) error {
	for {
		switch p.cur.kind {
		case tokAggregate:
			gpr.IsAggregate = true
			if err := p.bump(); err != nil {
				return err
			}
		case tokLibrary:
			gpr.IsLibrary = true
			if err := p.bump(); err != nil {
				return err
			}
		case tokAbstract:
			gpr.IsAbstract = true
			if err := p.bump(); err != nil {
				return err
			}
		case tokProject:
			if err := p.bump(); err != nil {
				return err
			}
			return p.parseProjectDeclAfterKeyword(gpr)
		default:
			return p.wrongToken("aggregate|library|abstract|project")
		}
	}
}

func (p *parser) parseProjectDeclAfterKeyword(gpr *types.RawGPR) error {
	_, name, err := p.expectIdent()
	if err != nil {
		return err
	}
	gpr.Name = p.interner.Intern(name)

	if p.cur.kind == tokExtends {
		if err := p.bump(); err != nil {
			return err
		}
		ext, err := p.expectStringRaw()
		if err != nil {
			return err
		}
		gpr.Extends = p.normalizeGPRPath(ext)
	}

	if err := p.expect(tokIs); err != nil {
		return err
	}
	body, err := p.parseProjectBody(name)
	if err != nil {
		return err
	}
	gpr.Body = body
	return p.expect(tokSemicolon)
}

// parseProjectBody is a project's top-level body: the only body kind that
// also allows `type ... is (...)` and `package ...` statements.
func (p *parser) parseProjectBody(startName string) (types.StatementList, error) {
	var body types.StatementList
	for {
		line := p.cur.line
		switch p.cur.kind {
		case tokEOF:
			return nil, errors.New(errors.KindUnexpectedEOF, "unexpected end of file")
		case tokEnd:
			if err := p.bump(); err != nil {
				return nil, err
			}
			_, endName, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if endName != startName {
				return nil, errors.Newf(errors.KindMismatchEndName, "expected %q, got %q", startName, endName).
					WithLocation(p.path, line)
			}
			return body, nil
		case tokNull:
			if err := p.bump(); err != nil {
				return nil, err
			}
			if err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
		case tokFor:
			stmt, err := p.parseAttributeDecl()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		case tokCase:
			stmt, err := p.parseCaseStmt()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		case tokPackage:
			stmt, err := p.parsePackageDecl()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		case tokIdentifier:
			stmt, err := p.parseVariableDecl()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		case tokType:
			stmt, err := p.parseTypeDecl()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		default:
			return nil, p.wrongToken("end|for|case|package|identifier|type")
		}
	}
}

// parsePackageBody is a package body: like parseProjectBody but without
// `type` or nested `package` declarations.
func (p *parser) parsePackageBody(startName string) (types.StatementList, error) {
	var body types.StatementList
	for {
		line := p.cur.line
		switch p.cur.kind {
		case tokEOF:
			return nil, errors.New(errors.KindUnexpectedEOF, "unexpected end of file")
		case tokEnd:
			if err := p.bump(); err != nil {
				return nil, err
			}
			_, endName, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if endName != startName {
				return nil, errors.Newf(errors.KindMismatchEndName, "expected %q, got %q", startName, endName).
					WithLocation(p.path, line)
			}
			return body, nil
		case tokNull:
			if err := p.bump(); err != nil {
				return nil, err
			}
			if err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
		case tokFor:
			stmt, err := p.parseAttributeDecl()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		case tokCase:
			stmt, err := p.parseCaseStmt()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		case tokIdentifier:
			stmt, err := p.parseVariableDecl()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		default:
			return nil, p.wrongToken("end|null|for|case|identifier")
		}
	}
}

// parseCaseArmBody is a `when` arm's body: like parsePackageBody but with
// no `end <name>;` of its own — it stops at the next `when` or the case
// statement's closing `end`.
func (p *parser) parseCaseArmBody() (types.StatementList, error) {
	var body types.StatementList
	for {
		line := p.cur.line
		switch p.cur.kind {
		case tokEOF:
			return nil, errors.New(errors.KindUnexpectedEOF, "unexpected end of file")
		case tokEnd, tokWhen:
			return body, nil
		case tokNull:
			if err := p.bump(); err != nil {
				return nil, err
			}
			if err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
		case tokFor:
			stmt, err := p.parseAttributeDecl()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		case tokCase:
			stmt, err := p.parseCaseStmt()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		case tokIdentifier:
			stmt, err := p.parseVariableDecl()
			if err != nil {
				return nil, err
			}
			body = append(body, types.LocatedStatement{Line: line, Stmt: stmt})
		default:
			return nil, p.wrongToken("end|when|null|case|identifier")
		}
	}
}

func (p *parser) parseTypeDecl() (types.Statement, error) {
	if err := p.expect(tokType); err != nil {
		return nil, err
	}
	typeName, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokIs); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}

	var valid []types.RawExpr
	if lst, ok := expr.(types.ExprList); ok {
		valid = lst.Elements
	} else {
		valid = []types.RawExpr{expr}
	}
	return types.StmtTypeDecl{TypeName: typeName, Valid: valid}, nil
}

func (p *parser) parseVariableDecl() (types.Statement, error) {
	id, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var typeName *types.QualifiedName
	if p.cur.kind == tokColon {
		if err := p.bump(); err != nil {
			return nil, err
		}
		qn, err := p.expectQName()
		if err != nil {
			return nil, err
		}
		typeName = &qn
	}
	if err := p.expect(tokAssign); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}
	return types.StmtVariableDecl{Name: id, TypeName: typeName, Expr: expr}, nil
}

func (p *parser) parseAttributeDecl() (types.Statement, error) {
	if err := p.expect(tokFor); err != nil {
		return nil, err
	}
	_, lower, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	idxInsensitive, valInsensitive := types.IsCaseInsensitiveAttr(lower)

	var idx *types.StringOrOthers
	if p.cur.kind == tokOpenParen {
		if err := p.bump(); err != nil {
			return nil, err
		}
		soo, err := p.expectStrOrOthers()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokCloseParen); err != nil {
			return nil, err
		}
		if !soo.IsOthers && idxInsensitive {
			soo = types.NewStringOrOthersStr(p.interner.Intern(strings.ToLower(p.interner.Lookup(soo.Str))))
		}
		idx = &soo
	}

	if err := p.expect(tokUse); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}

	name, err := types.NewAttrName(lower, idx)
	if err != nil {
		return nil, errors.Newf(errors.KindInvalidAttribute, "%s: %v", lower, err)
	}
	if valInsensitive {
		value = p.lowerExprStrings(value)
	}
	return types.StmtAttributeDecl{Name: name, Value: value}, nil
}

func (p *parser) parsePackageDecl() (types.Statement, error) {
	if err := p.expect(tokPackage); err != nil {
		return nil, err
	}
	_, startLower, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	name, ok := types.NewPackageName(startLower)
	if !ok {
		return nil, errors.Newf(errors.KindInvalidPackageName, "%s", startLower)
	}

	var extends, renames *types.QualifiedName
	for {
		switch p.cur.kind {
		case tokEOF:
			return nil, errors.New(errors.KindUnexpectedEOF, "unexpected end of file")
		case tokIs:
			if err := p.bump(); err != nil {
				return nil, err
			}
			body, err := p.parsePackageBody(startLower)
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
			return types.StmtPackage{Name: name, Renames: renames, ExtendsPkg: extends, Body: body}, nil
		case tokRenames:
			if err := p.bump(); err != nil {
				return nil, err
			}
			qn, err := p.expectQName()
			if err != nil {
				return nil, err
			}
			renames = &qn
			if err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
			return types.StmtPackage{Name: name, Renames: renames, ExtendsPkg: extends, Body: nil}, nil
		case tokExtends:
			if err := p.bump(); err != nil {
				return nil, err
			}
			qn, err := p.expectQName()
			if err != nil {
				return nil, err
			}
			extends = &qn
		default:
			return nil, p.wrongToken("is|renames|extends")
		}
	}
}

func (p *parser) parseCaseStmt() (types.Statement, error) {
	if err := p.expect(tokCase); err != nil {
		return nil, err
	}
	varname, err := p.expectQName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokIs); err != nil {
		return nil, err
	}

	var whens []types.WhenClause
	for {
		switch p.cur.kind {
		case tokEOF:
			return nil, errors.New(errors.KindUnexpectedEOF, "unexpected end of file")
		case tokEnd:
			if err := p.bump(); err != nil {
				return nil, err
			}
			if err := p.expect(tokCase); err != nil {
				return nil, err
			}
			if err := p.expect(tokSemicolon); err != nil {
				return nil, err
			}
			return types.StmtCase{VarName: varname, When: whens}, nil
		case tokWhen:
			if err := p.bump(); err != nil {
				return nil, err
			}
			var values []types.StringOrOthers
			for {
				v, err := p.expectStrOrOthers()
				if err != nil {
					return nil, err
				}
				values = append(values, v)
				if v.IsOthers {
					if err := p.expect(tokArrow); err != nil {
						return nil, err
					}
					break
				}
				if p.cur.kind == tokPipe {
					if err := p.bump(); err != nil {
						return nil, err
					}
					continue
				}
				if p.cur.kind == tokArrow {
					if err := p.bump(); err != nil {
						return nil, err
					}
					break
				}
				return nil, p.wrongToken("| or =>")
			}

			body, err := p.parseCaseArmBody()
			if err != nil {
				return nil, err
			}
			whens = append(whens, types.WhenClause{Values: values, Body: body})
		default:
			return nil, p.wrongToken("end|when")
		}
	}
}

// parseExpression is `term ('&' term)*`, where a parenthesised term is a
// comma-separated expression list (spec Section 6).
func (p *parser) parseExpression() (types.RawExpr, error) {
	var result types.RawExpr = types.ExprEmpty{}
	for {
		switch p.cur.kind {
		case tokEOF:
			return nil, errors.New(errors.KindUnexpectedEOF, "unexpected end of file")
		case tokString:
			id := p.interner.Intern(p.cur.text)
			if err := p.bump(); err != nil {
				return nil, err
			}
			result = types.Ampersand(result, types.ExprStr{Value: id})
		case tokIdentifier, tokProject:
			e, err := p.expectQNameOrFunc()
			if err != nil {
				return nil, err
			}
			result = types.Ampersand(result, e)
		case tokOpenParen:
			if err := p.bump(); err != nil {
				return nil, err
			}
			var list []types.RawExpr
			if p.cur.kind == tokCloseParen {
				if err := p.bump(); err != nil {
					return nil, err
				}
			} else {
				for {
					e, err := p.parseExpression()
					if err != nil {
						return nil, err
					}
					list = append(list, e)
					if p.cur.kind == tokCloseParen {
						if err := p.bump(); err != nil {
							return nil, err
						}
						break
					}
					if p.cur.kind == tokComma {
						if err := p.bump(); err != nil {
							return nil, err
						}
						continue
					}
					return nil, p.wrongToken("closing parenthesis")
				}
			}
			result = types.Ampersand(result, types.ExprList{Elements: list})
		default:
			return nil, p.wrongToken("string|identifier|(")
		}

		if p.cur.kind == tokAmpersand {
			if err := p.bump(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return result, nil
}

// parseOptArgList parses a parenthesised argument list, used both as an
// attribute's index (a single string or "others") and as a function call's
// argument list (any number of expressions). Returns ok=false when no '('
// follows, leaving the caller's plain name or attribute untouched.
func (p *parser) parseOptArgList() ([]types.RawExpr, bool, error) {
	if p.cur.kind != tokOpenParen {
		return nil, false, nil
	}
	if err := p.bump(); err != nil {
		return nil, false, err
	}

	var result []types.RawExpr
	for {
		switch p.cur.kind {
		case tokEOF:
			return nil, false, errors.New(errors.KindUnexpectedEOF, "unexpected end of file")
		case tokOthers:
			if err := p.bump(); err != nil {
				return nil, false, err
			}
			result = append(result, types.ExprOthers{})
		case tokString, tokIdentifier:
			e, err := p.parseExpression()
			if err != nil {
				return nil, false, err
			}
			result = append(result, e)
		default:
			return nil, false, p.wrongToken("others|string")
		}

		switch p.cur.kind {
		case tokComma:
			if err := p.bump(); err != nil {
				return nil, false, err
			}
		case tokCloseParen:
			if err := p.bump(); err != nil {
				return nil, false, err
			}
			return result, true, nil
		default:
			return nil, false, p.wrongToken(")|,")
		}
	}
}

// expectProjectNameOrIdent reads the mandatory leading token of a qname:
// either the literal "project" keyword (meaning "the current project",
// isProject=true) or an identifier that may turn out to be a project name,
// a package name, or the whole bare name, depending on what follows.
func (p *parser) expectProjectNameOrIdent() (ident types.Ident, isProject bool, err error) {
	switch p.cur.kind {
	case tokProject:
		if err := p.bump(); err != nil {
			return 0, false, err
		}
		return 0, true, nil
	case tokIdentifier:
		id := p.interner.Intern(p.cur.text)
		if err := p.bump(); err != nil {
			return 0, false, err
		}
		return id, false, nil
	default:
		return 0, false, p.wrongToken("project name")
	}
}

// expectUnqualifiedAttrName parses the identifier that follows a "'" (or
// stands alone): a recognised attribute name with an optional index. The
// index itself goes through parseOptArgList, matching how the scanner
// shares that helper between attribute indices and function-call args.
func (p *parser) expectUnqualifiedAttrName() (types.SimpleName, error) {
	_, lower, err := p.expectIdent()
	if err != nil {
		return types.SimpleName{}, err
	}
	idxInsensitive, _ := types.IsCaseInsensitiveAttr(lower)

	args, hasArgs, err := p.parseOptArgList()
	if err != nil {
		return types.SimpleName{}, err
	}
	if !hasArgs {
		sn, err := types.NewAttrName(lower, nil)
		if err != nil {
			return types.SimpleName{}, errors.Newf(errors.KindInvalidAttribute, "%s: %v", lower, err)
		}
		return sn, nil
	}
	if len(args) != 1 {
		return types.SimpleName{}, errors.Newf(errors.KindInvalidAttribute, "%s: expected a single index", lower)
	}

	var idx types.StringOrOthers
	switch a := args[0].(type) {
	case types.ExprOthers:
		idx = types.Others()
	case types.ExprStr:
		text := p.interner.Lookup(a.Value)
		if idxInsensitive {
			text = strings.ToLower(text)
		}
		idx = types.NewStringOrOthersStr(p.interner.Intern(text))
	default:
		return types.SimpleName{}, errors.Newf(errors.KindInvalidAttribute, "%s: index must be a string", lower)
	}
	sn, err := types.NewAttrName(lower, &idx)
	if err != nil {
		return types.SimpleName{}, errors.Newf(errors.KindInvalidAttribute, "%s: %v", lower, err)
	}
	return sn, nil
}

// expectQName is `[IDENT '.'] [IDENT "'"] IDENT ['(' index ')']`. Whether
// the final identifier is an attribute or a plain variable is decided
// purely syntactically: it is an attribute when it follows a tick, and a
// variable otherwise (bare, or after one or two dotted prefixes), even
// when its text matches a recognised attribute name.
func (p *parser) expectQName() (types.QualifiedName, error) {
	name1, isProj, err := p.expectProjectNameOrIdent()
	if err != nil {
		return types.QualifiedName{}, err
	}

	switch p.cur.kind {
	case tokDot:
		if err := p.bump(); err != nil {
			return types.QualifiedName{}, err
		}
		name2, name2Str, err := p.expectIdent()
		if err != nil {
			return types.QualifiedName{}, err
		}

		switch p.cur.kind {
		case tokDot:
			if err := p.bump(); err != nil {
				return types.QualifiedName{}, err
			}
			name3, _, err := p.expectIdent()
			if err != nil {
				return types.QualifiedName{}, err
			}
			pkg, ok := types.NewPackageName(name2Str)
			if !ok {
				return types.QualifiedName{}, errors.Newf(errors.KindInvalidPackageName, "%s", name2Str)
			}
			return types.QualifiedName{Project: name1, HasProject: !isProj, Package: pkg, Name: types.NewVarName(name3)}, nil

		case tokTick:
			if err := p.bump(); err != nil {
				return types.QualifiedName{}, err
			}
			pkg, ok := types.NewPackageName(name2Str)
			if !ok {
				return types.QualifiedName{}, errors.Newf(errors.KindInvalidPackageName, "%s", name2Str)
			}
			attrName, err := p.expectUnqualifiedAttrName()
			if err != nil {
				return types.QualifiedName{}, err
			}
			return types.QualifiedName{Project: name1, HasProject: !isProj, Package: pkg, Name: attrName}, nil

		default:
			return types.NewQualifiedNameFromTwo(p.interner.Lookup, name1, !isProj, types.NewVarName(name2)), nil
		}

	case tokTick:
		if err := p.bump(); err != nil {
			return types.QualifiedName{}, err
		}
		attrName, err := p.expectUnqualifiedAttrName()
		if err != nil {
			return types.QualifiedName{}, err
		}
		return types.NewQualifiedNameFromTwo(p.interner.Lookup, name1, !isProj, attrName), nil

	default:
		if isProj {
			return types.QualifiedName{}, errors.New(errors.KindWrongToken, "missing attribute name after 'project'").
				WithLocation(p.path, p.cur.line)
		}
		return types.QualifiedName{Name: types.NewVarName(name1)}, nil
	}
}

// expectQNameOrFunc additionally recognises a function call: a bare
// variable name (no project, no package, no tick)
// immediately followed by '(' is `external(...)`-style call syntax.
func (p *parser) expectQNameOrFunc() (types.RawExpr, error) {
	qn, err := p.expectQName()
	if err != nil {
		return nil, err
	}
	if !qn.HasProject && qn.Package == types.PackageNone && qn.Name.Kind == types.NameVariable {
		args, hasArgs, err := p.parseOptArgList()
		if err != nil {
			return nil, err
		}
		if hasArgs {
			return types.ExprFuncCall{Name: qn, Args: args}, nil
		}
	}
	return types.ExprName{Name: qn}, nil
}

// lowerExprStrings recursively lower-cases every string literal in an
// expression tree, used for attributes whose value is case-insensitive
// (Languages).
func (p *parser) lowerExprStrings(e types.RawExpr) types.RawExpr {
	switch v := e.(type) {
	case types.ExprStr:
		return types.ExprStr{Value: p.interner.Intern(strings.ToLower(p.interner.Lookup(v.Value)))}
	case types.ExprAmpersand:
		return types.ExprAmpersand{Left: p.lowerExprStrings(v.Left), Right: p.lowerExprStrings(v.Right)}
	case types.ExprList:
		elems := make([]types.RawExpr, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = p.lowerExprStrings(el)
		}
		return types.ExprList{Elements: elems}
	default:
		return e
	}
}
