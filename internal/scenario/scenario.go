// Package scenario implements the bitmask scenario algebra (spec Section
// 4.1): scenario variables receive disjoint bit ranges at declaration, and
// a Bits value is a boolean constraint over their cross-product.
//
// Convention: Universal (every bit set) is the identity element — a freshly
// built scenario starts from Universal and only ever narrows a variable's
// own bit range, never widens from zero. This is what lets a variable
// declared after a scenario was first built still compose correctly: any
// bit range not yet allocated to a variable stays set in every existing
// Bits value, so once that range is claimed by a new variable, old values
// are automatically "unconstrained" on it. See DESIGN.md for the
// open-question writeup this resolves.
package scenario

import (
	"sort"

	"github.com/briot/gprdeps/internal/errors"
	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/types"
)

// words sizes the bit-space; at 4x uint64 a project can declare up to 256
// scenario-variable values in total (spec's "typical budget >= 128 bits").
const words = 4

// Capacity is the total number of bits available to scenario variables.
const Capacity = words * 64

// Bits is a scenario: a boolean constraint over the cross-product of
// declared scenario-variable values, encoded as a fixed-width bitset.
type Bits [words]uint64

// Universal matches every assignment: every bit is set.
var Universal = allOnes()

// Empty is the unsatisfiable scenario: the zero value. It is also used as
// an explicit "this can never happen" sentinel distinct from Universal.
var Empty Bits

func allOnes() Bits {
	var b Bits
	for i := range b {
		b[i] = ^uint64(0)
	}
	return b
}

func (b Bits) And(o Bits) Bits {
	var r Bits
	for i := range b {
		r[i] = b[i] & o[i]
	}
	return r
}

func (b Bits) Or(o Bits) Bits {
	var r Bits
	for i := range b {
		r[i] = b[i] | o[i]
	}
	return r
}

func (b Bits) Not() Bits {
	var r Bits
	for i := range b {
		r[i] = ^b[i]
	}
	return r
}

func (b Bits) IsZero() bool {
	return b == Empty
}

func (b Bits) Equal(o Bits) bool {
	return b == o
}

func setBit(b *Bits, i int) {
	b[i/64] |= 1 << uint(i%64)
}

func singleBit(i int) Bits {
	var b Bits
	setBit(&b, i)
	return b
}

// Variable is a declared scenario variable: a name, its ordered list of
// valid values, and the contiguous bit range allocated to it.
type Variable struct {
	Name     types.Ident
	Values   []types.Ident // declared order, preserved for Describe
	valueBit map[types.Ident]int
	FullMask Bits
}

// Mask returns the scenario that fixes this variable to exactly value,
// leaving every other variable (declared or not yet declared) unconstrained.
func (v *Variable) Mask(value types.Ident) Bits {
	bit, ok := v.valueBit[value]
	if !ok {
		return Empty
	}
	return v.FullMask.Not().Or(singleBit(bit))
}

func sameValueSet(a, b []types.Ident) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[types.Ident]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	return true
}

// Set is the collection of all scenario variables declared while evaluating
// a project tree. It owns the bit-space allocator.
type Set struct {
	interner *strintern.Table
	vars     map[types.Ident]*Variable
	nextBit  int
}

// NewSet creates an empty variable set backed by interner for Describe.
func NewSet(interner *strintern.Table) *Set {
	return &Set{interner: interner, vars: make(map[types.Ident]*Variable)}
}

// TryAddVariable declares name with the given valid values, or — if already
// declared — verifies the value set is identical (order-insensitive) and
// returns the existing Variable.
func (s *Set) TryAddVariable(name types.Ident, valid []types.Ident) (*Variable, error) {
	if existing, ok := s.vars[name]; ok {
		if !sameValueSet(existing.Values, valid) {
			return nil, errors.Newf(errors.KindInconsistentScenarioVar,
				"scenario variable %q redeclared with a different set of values",
				s.interner.Lookup(name))
		}
		return existing, nil
	}
	if s.nextBit+len(valid) > Capacity {
		return nil, errors.Newf(errors.KindTooManyScenarioVariables,
			"scenario bit-space exhausted declaring %q (%d bits available)",
			s.interner.Lookup(name), Capacity)
	}
	v := &Variable{
		Name:     name,
		Values:   append([]types.Ident{}, valid...),
		valueBit: make(map[types.Ident]int, len(valid)),
	}
	for _, val := range valid {
		v.valueBit[val] = s.nextBit
		setBit(&v.FullMask, s.nextBit)
		s.nextBit++
	}
	s.vars[name] = v
	return v, nil
}

// Variable looks up an already-declared scenario variable.
func (s *Set) Variable(name types.Ident) (*Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// NeverMatches reports whether scenario is unsatisfiable: some declared
// variable has no bit set within its own range.
func (s *Set) NeverMatches(scenario Bits) bool {
	for _, v := range s.vars {
		if scenario.And(v.FullMask).IsZero() {
			return true
		}
	}
	return false
}

// Negate yields one scenario per declared variable whose union is the
// complement of scenario (spec: `(!s & v.full_mask) | !v.full_mask`),
// skipping variables scenario does not constrain at all.
func (s *Set) Negate(scenario Bits) []Bits {
	var out []Bits
	for _, v := range s.vars {
		negPart := scenario.Not().And(v.FullMask)
		if !negPart.IsZero() {
			out = append(out, negPart.Or(v.FullMask.Not()))
		}
	}
	return out
}

// Describe renders scenario as a comma-joined, sorted-by-name list of
// "VAR=v1|v2" (or "VAR=*" when the variable is unconstrained). Every
// declared variable is listed, even when unconstrained.
func (s *Set) Describe(scenario Bits) string {
	names := make([]string, 0, len(s.vars))
	byName := make(map[string]*Variable, len(s.vars))
	for _, v := range s.vars {
		n := s.interner.Lookup(v.Name)
		names = append(names, n)
		byName[n] = v
	}
	sort.Strings(names)

	out := ""
	for i, n := range names {
		v := byName[n]
		if i > 0 {
			out += ","
		}
		out += n + "=" + v.describeValues(scenario, s.interner)
	}
	return out
}

func (v *Variable) describeValues(scenario Bits, interner *strintern.Table) string {
	bits := scenario.And(v.FullMask)
	if bits.Equal(v.FullMask) {
		return "*"
	}
	out := ""
	first := true
	for _, val := range v.Values {
		bit := v.valueBit[val]
		if bits[bit/64]&(1<<uint(bit%64)) == 0 {
			continue
		}
		if !first {
			out += "|"
		}
		first = false
		out += interner.Lookup(val)
	}
	return out
}

// CaseStmt tracks an in-progress case statement: which variable it
// discriminates on (or, for a scenario-independent/constant discriminant,
// the constant value itself) and which of that variable's values remain
// uncovered by a `when` clause seen so far ("others" bookkeeping).
type CaseStmt struct {
	// Const is true when the discriminant does not depend on any scenario
	// variable (e.g. `case Project'Target is`).
	Const      bool
	ConstValue types.Ident

	Var       *Variable
	FullMask  Bits
	Remaining Bits
}

// PrepareCaseStmt inspects the evaluated per-scenario values of a case
// discriminant and determines which single scenario variable it depends on.
func (s *Set) PrepareCaseStmt(values map[Bits]types.Ident) (CaseStmt, error) {
	if len(values) == 0 {
		return CaseStmt{}, errors.New(errors.KindVariableMustBeString,
			"case discriminant has no possible value")
	}
	mask := Universal
	var anyValue types.Ident
	for k, v := range values {
		mask = mask.And(k)
		anyValue = v
	}
	if mask.Equal(Universal) {
		return CaseStmt{Const: true, ConstValue: anyValue}, nil
	}
	for _, v := range s.vars {
		if mask.Or(v.FullMask).Equal(Universal) {
			return CaseStmt{Var: v, FullMask: v.FullMask, Remaining: v.FullMask}, nil
		}
	}
	return CaseStmt{}, errors.New(errors.KindVariableMustBeString,
		"case discriminant must depend on exactly one scenario variable")
}

// ProcessWhenClause folds one `when` clause's values into case, returning
// the scenario under which the clause's body executes. The returned
// scenario is already intersected with ctx (the enclosing context), so
// callers recurse with it directly rather than AND-ing again: every
// dimension other than cs.Var carries ctx through unchanged, which is what
// lets a case nested inside another case's arm still respect the outer
// discriminant (spec's case-orthogonality property, "S2").
//
// Mirrors the original evaluator's handling of a constant discriminant
// faithfully: each `when` clause (including `others`) is tested
// independently against the constant value, so a later `when others` after
// an already-matching clause still fires. This only affects the rare
// constant-discriminant case (`case Project'Target is`), not the common
// scenario-variable case below.
func (s *Set) ProcessWhenClause(ctx Bits, cs *CaseStmt, when types.WhenClause) Bits {
	if cs.Const {
		for _, val := range when.Values {
			if val.IsOthers {
				return ctx
			}
			if val.Str == cs.ConstValue {
				return ctx
			}
		}
		return Empty
	}

	// mask is seeded at FullMask.Not() — universal on every dimension but
	// cs.Var — so ANDing it with ctx below can only ever narrow cs.Var's own
	// bits, never the dimensions an enclosing case already restricted.
	mask := cs.Var.FullMask.Not()
	for _, val := range when.Values {
		if val.IsOthers {
			mask = mask.Or(cs.Remaining)
			cs.Remaining = Empty
			continue
		}
		m := cs.Var.Mask(val.Str)
		mask = mask.Or(m)
		cs.Remaining = cs.Remaining.And(m.Not())
	}
	return ctx.And(mask)
}

// ArmUnreachable reports whether the scenario returned by ProcessWhenClause
// for a variable-discriminant case can never be reached — used to flag a
// "useless when clause" warning (spec 4.11) without halting analysis.
func ArmUnreachable(cs *CaseStmt, armCtx Bits) bool {
	if cs.Const {
		return armCtx.IsZero()
	}
	return armCtx.And(cs.Var.FullMask).IsZero()
}
