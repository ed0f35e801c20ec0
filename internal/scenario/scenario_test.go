package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/scenario"
	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/types"
)

func declareModeVar(t *testing.T, tbl *strintern.Table, s *scenario.Set) (*scenario.Variable, map[string]types.Ident) {
	t.Helper()
	values := map[string]types.Ident{
		"debug": tbl.Intern("debug"),
		"lto":   tbl.Intern("lto"),
		"opt":   tbl.Intern("opt"),
	}
	name := tbl.Intern("MODE")
	v, err := s.TryAddVariable(name, []types.Ident{values["debug"], values["lto"], values["opt"]})
	require.NoError(t, err)
	return v, values
}

func TestIntersectionIdempotence(t *testing.T) {
	tbl := strintern.New()
	s := scenario.NewSet(tbl)
	v, vals := declareModeVar(t, tbl, s)
	a := v.Mask(vals["lto"])

	require.Equal(t, a, a.And(a))
	require.Equal(t, a, a.And(scenario.Universal))
	b := v.Mask(vals["opt"])
	require.Equal(t, a.And(b), b.And(a))
}

func TestNegationCompleteness(t *testing.T) {
	tbl := strintern.New()
	s := scenario.NewSet(tbl)
	v, vals := declareModeVar(t, tbl, s)
	sc := v.Mask(vals["lto"])

	union := scenario.Empty
	for _, n := range s.Negate(sc) {
		union = union.Or(n)
	}
	require.Equal(t, scenario.Universal, union.Or(sc))
	for _, n := range s.Negate(sc) {
		require.True(t, s.NeverMatches(n.And(sc)))
	}
}

func TestDescribeListsAllVariablesSortedByName(t *testing.T) {
	tbl := strintern.New()
	s := scenario.NewSet(tbl)
	modeVar, modeVals := declareModeVar(t, tbl, s)

	checkVals := []types.Ident{tbl.Intern("none"), tbl.Intern("some")}
	checkName := tbl.Intern("CHECK")
	checkVar, err := s.TryAddVariable(checkName, checkVals)
	require.NoError(t, err)

	sc := modeVar.Mask(modeVals["lto"]).And(checkVar.Mask(checkVals[0]))
	require.Equal(t, "CHECK=none,MODE=lto", s.Describe(sc))
}

func TestDescribeUniversalIsStarForEveryVariable(t *testing.T) {
	tbl := strintern.New()
	s := scenario.NewSet(tbl)
	declareModeVar(t, tbl, s)
	require.Equal(t, "MODE=*", s.Describe(scenario.Universal))
}

func TestTryAddVariableInconsistentFails(t *testing.T) {
	tbl := strintern.New()
	s := scenario.NewSet(tbl)
	name := tbl.Intern("MODE")
	_, err := s.TryAddVariable(name, []types.Ident{tbl.Intern("a"), tbl.Intern("b")})
	require.NoError(t, err)
	_, err = s.TryAddVariable(name, []types.Ident{tbl.Intern("a"), tbl.Intern("c")})
	require.Error(t, err)
}

func TestTryAddVariableIdempotent(t *testing.T) {
	tbl := strintern.New()
	s := scenario.NewSet(tbl)
	name := tbl.Intern("MODE")
	a, err := s.TryAddVariable(name, []types.Ident{tbl.Intern("a"), tbl.Intern("b")})
	require.NoError(t, err)
	b, err := s.TryAddVariable(name, []types.Ident{tbl.Intern("b"), tbl.Intern("a")})
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestPostDeclarationVariableStillUnconstrainsOldScenarios(t *testing.T) {
	// Regression guard for the Open Question on variables declared after a
	// scenario already exists: an old mask must read as unconstrained ("*")
	// on a variable declared afterwards.
	tbl := strintern.New()
	s := scenario.NewSet(tbl)
	modeVar, modeVals := declareModeVar(t, tbl, s)
	old := modeVar.Mask(modeVals["debug"])

	checkVals := []types.Ident{tbl.Intern("none"), tbl.Intern("some")}
	_, err := s.TryAddVariable(tbl.Intern("CHECK"), checkVals)
	require.NoError(t, err)

	require.Equal(t, "CHECK=*,MODE=debug", s.Describe(old))
}

// TestProcessWhenClauseNestedCasePreservesOuterDiscriminant is the "S2"
// regression guard: a case nested inside another case's arm must return an
// armCtx that still carries the outer case's restriction on its own
// variable, not just the inner variable's.
func TestProcessWhenClauseNestedCasePreservesOuterDiscriminant(t *testing.T) {
	tbl := strintern.New()
	s := scenario.NewSet(tbl)
	onOff := []types.Ident{tbl.Intern("on"), tbl.Intern("off")}
	e1, err := s.TryAddVariable(tbl.Intern("E1"), onOff)
	require.NoError(t, err)
	e2, err := s.TryAddVariable(tbl.Intern("E2"), onOff)
	require.NoError(t, err)

	outerCase, err := s.PrepareCaseStmt(map[scenario.Bits]types.Ident{
		e2.Mask(onOff[0]): onOff[0],
		e2.Mask(onOff[1]): onOff[1],
	})
	require.NoError(t, err)
	outerArm := s.ProcessWhenClause(scenario.Universal, &outerCase,
		types.WhenClause{Values: []types.StringOrOthers{types.NewStringOrOthersStr(onOff[0])}})
	require.Equal(t, "E1=*,E2=on", s.Describe(outerArm))

	innerCase, err := s.PrepareCaseStmt(map[scenario.Bits]types.Ident{
		e1.Mask(onOff[0]): onOff[0],
		e1.Mask(onOff[1]): onOff[1],
	})
	require.NoError(t, err)
	innerArm := s.ProcessWhenClause(outerArm, &innerCase,
		types.WhenClause{Values: []types.StringOrOthers{types.NewStringOrOthersStr(onOff[0])}})

	// The inner arm must stay restricted to E2=on inherited from the outer
	// case, not widen back to "*" the way the pre-fix formula did.
	require.Equal(t, "E1=on,E2=on", s.Describe(innerArm))
}
