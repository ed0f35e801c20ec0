// Package evaluator implements the project-file evaluator core (spec
// Section 4): expression evaluation, scenario-variable birth, statement
// execution and the per-project attribute store that `internal/gprparser`'s
// raw AST is folded into.
package evaluator

import (
	"os"

	"github.com/briot/gprdeps/internal/errors"
	"github.com/briot/gprdeps/internal/perscenario"
	"github.com/briot/gprdeps/internal/scenario"
	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/types"
)

// Value is an evaluated expression: a per-scenario string or string list.
// Unlike RawExpr (one interned node per parse), a Value is produced once
// per declaration and mutated in place as later statements narrow it to
// more scenarios via Declare.
type Value interface {
	valueNode()
}

// ValueStr is a per-scenario string, e.g. the value of `for Object_Dir use
// "obj"` or a scenario variable's own value (the result of `external`).
type ValueStr struct {
	Per *perscenario.Map[types.Ident]
}

// ValueStrList is a per-scenario string list, e.g. `for Source_Dirs use
// (...)`.
type ValueStrList struct {
	Per *perscenario.Map[[]types.Ident]
}

func (ValueStr) valueNode()     {}
func (ValueStrList) valueNode() {}

// NewStr returns a value bound to s under every scenario.
func NewStr(s types.Ident) Value {
	return ValueStr{Per: perscenario.New(s)}
}

// NewStrList returns a value bound to list under every scenario.
func NewStrList(list []types.Ident) Value {
	return ValueStrList{Per: perscenario.New(append([]types.Ident{}, list...))}
}

// newStrFromPairs builds the value born when a typed variable declaration
// creates a scenario variable (spec 4.4): one entry per valid value, keyed
// on the mask that selects it.
func newStrFromPairs(pairs map[scenario.Bits]types.Ident) Value {
	return ValueStr{Per: perscenario.NewFromPairs(pairs)}
}

// cloneValue shallow-copies v's scenario map so that a lookup result can be
// merged into (Update mutates its receiver) without corrupting the stored
// attribute it came from. Individual values (idents, or the slices backing
// a ValueStrList) are never mutated in place by Update's callbacks — they
// are always rebuilt — so a shallow copy of the scenario->value map alone
// is enough to detach the returned value from storage.
func cloneValue(v Value) Value {
	switch vv := v.(type) {
	case ValueStr:
		return ValueStr{Per: perscenario.NewFromPairs(vv.Per.Entries())}
	case ValueStrList:
		return ValueStrList{Per: perscenario.NewFromPairs(vv.Per.Entries())}
	default:
		return v
	}
}

// evalCtx bundles the read-only state every EvalRaw call needs, threaded
// through recursive calls instead of as a growing parameter list.
type evalCtx struct {
	gpr        *GprFile
	deps       []*GprFile
	scenars    *scenario.Set
	context    scenario.Bits
	currentPkg types.PackageName
	interner   *strintern.Table
}

// EvalRaw evaluates expr into a Value (spec 4.3). context is the scenario
// under which expr is being evaluated (narrowed by enclosing `case`/`when`
// arms); currentPkg drives unqualified-name lookup order.
func (g *GprFile) EvalRaw(
	expr types.RawExpr,
	deps []*GprFile,
	scenars *scenario.Set,
	context scenario.Bits,
	currentPkg types.PackageName,
) (Value, error) {
	ec := evalCtx{gpr: g, deps: deps, scenars: scenars, context: context, currentPkg: currentPkg, interner: g.interner}
	return ec.eval(expr)
}

func (ec evalCtx) eval(expr types.RawExpr) (Value, error) {
	switch e := expr.(type) {
	case types.ExprEmpty, types.ExprOthers:
		return nil, errors.New(errors.KindInvalidExpression,
			"this expression cannot appear at this position")

	case types.ExprStr:
		return ValueStr{Per: perscenario.New(e.Value)}, nil

	case types.ExprName:
		return ec.gpr.Lookup(e.Name, ec.deps, ec.currentPkg)

	case types.ExprFuncCall:
		return ec.evalFuncCall(e)

	case types.ExprList:
		acc := perscenario.New([]types.Ident(nil))
		for _, el := range e.Elements {
			v, err := ec.eval(el)
			if err != nil {
				return nil, err
			}
			sv, ok := v.(ValueStr)
			if !ok {
				return nil, errors.New(errors.KindListElementNotString,
					"list elements must evaluate to a string")
			}
			acc.Update(sv.Per, ec.context, ec.scenars, func(self []types.Ident, other types.Ident) []types.Ident {
				return append(append([]types.Ident{}, self...), other)
			})
		}
		return ValueStrList{Per: acc}, nil

	case types.ExprAmpersand:
		return ec.evalAmpersand(e)

	default:
		return nil, errors.New(errors.KindInvalidExpression, "unknown expression node")
	}
}

func (ec evalCtx) evalFuncCall(e types.ExprFuncCall) (Value, error) {
	if e.Name.HasProject || e.Name.Package != types.PackageNone || e.Name.Name.Kind != types.NameVariable {
		return nil, errors.Newf(errors.KindUnknownFunction, "%s: unknown function", ec.interner.Lookup(e.Name.Name.Name))
	}
	if ec.interner.Lookup(e.Name.Name.Name) != "external" {
		return nil, errors.Newf(errors.KindUnknownFunction, "%s: unknown function", ec.interner.Lookup(e.Name.Name.Name))
	}
	if len(e.Args) == 0 {
		return nil, errors.New(errors.KindNotStaticString, "external() requires a variable name")
	}
	nameLit, ok := e.Args[0].(types.ExprStr)
	if !ok {
		return nil, errors.New(errors.KindNotStaticString, "external()'s first argument must be a static string")
	}

	var def Value
	if len(e.Args) > 1 {
		var err error
		def, err = ec.eval(e.Args[1])
		if err != nil {
			return nil, err
		}
	} else {
		def = NewStr(types.Ident(strintern.Empty))
	}

	v, ok := os.LookupEnv(ec.interner.Lookup(nameLit.Value))
	if !ok {
		return def, nil
	}
	return NewStr(ec.interner.Intern(v)), nil
}

func (ec evalCtx) evalAmpersand(e types.ExprAmpersand) (Value, error) {
	left, err := ec.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := ec.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch l := left.(type) {
	case ValueStr:
		switch r := right.(type) {
		case ValueStr:
			l.Per.Update(r.Per, ec.context, ec.scenars, func(a, b types.Ident) types.Ident {
				return ec.interner.Intern(ec.interner.Lookup(a) + ec.interner.Lookup(b))
			})
			return l, nil
		default:
			return nil, errors.New(errors.KindWrongAmpersand, "cannot concatenate a string with a list")
		}
	case ValueStrList:
		switch r := right.(type) {
		case ValueStr:
			l.Per.Update(r.Per, ec.context, ec.scenars, func(a []types.Ident, b types.Ident) []types.Ident {
				return append(append([]types.Ident{}, a...), b)
			})
			return l, nil
		case ValueStrList:
			l.Per.Update(r.Per, ec.context, ec.scenars, func(a, b []types.Ident) []types.Ident {
				return append(append([]types.Ident{}, a...), b...)
			})
			return l, nil
		}
	}
	return nil, errors.New(errors.KindWrongAmpersand, "invalid operands to '&'")
}
