package types

// Statement is one statement of a project-file body. Statement nodes carry
// no source location themselves; StatementList pairs each with its line
// number, matching how the parser reports `(path, line)` errors.
type Statement interface {
	statementNode()
}

// StatementList is a project or package body: an ordered sequence of
// (line, statement) pairs, executed in source order (Section 5).
type StatementList []LocatedStatement

type LocatedStatement struct {
	Line int
	Stmt Statement
}

// StmtNull is a `null;` statement: a deliberate no-op, most often used to
// make an otherwise-empty `when` arm or package body syntactically valid.
type StmtNull struct{}

// StmtAttributeDecl is `for <name> [(<index>)] use <value>;`.
type StmtAttributeDecl struct {
	Name  SimpleName
	Value RawExpr
}

// StmtVariableDecl is `<name> [: <typename>] := <expr>;`.
type StmtVariableDecl struct {
	Name     Ident
	TypeName *QualifiedName // nil when the declaration omits a type
	Expr     RawExpr
}

// StmtTypeDecl is `type <name> is (<valid values>);`.
type StmtTypeDecl struct {
	TypeName Ident
	Valid    []RawExpr // each element is an ExprStr
}

// StmtPackage is `package <name> is ... end <name>;`, or the `renames`/
// `extends` short forms. Exactly one of Body, Renames, or (ExtendsPkg set
// and Body non-nil) is meaningful per the grammar.
type StmtPackage struct {
	Name       PackageName
	Renames    *QualifiedName
	ExtendsPkg *QualifiedName
	Body       StatementList
}

// StmtCase is `case <varname> is <when clauses> end case;`.
type StmtCase struct {
	VarName QualifiedName
	When    []WhenClause
}

// WhenClause is one arm of a case statement: `when v1 | v2 | others => body`.
type WhenClause struct {
	Values []StringOrOthers
	Body   StatementList
}

func (StmtNull) statementNode()          {}
func (StmtAttributeDecl) statementNode() {}
func (StmtVariableDecl) statementNode()  {}
func (StmtTypeDecl) statementNode()      {}
func (StmtPackage) statementNode()       {}
func (StmtCase) statementNode()          {}
