package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/evaluator"
	"github.com/briot/gprdeps/internal/gprparser"
	"github.com/briot/gprdeps/internal/query"
	"github.com/briot/gprdeps/internal/scenario"
	"github.com/briot/gprdeps/internal/strintern"
)

func process(t *testing.T, path, src string) (*evaluator.GprFile, *scenario.Set, *strintern.Table) {
	t.Helper()
	tbl := strintern.New()
	raw, err := gprparser.Parse(path, src, tbl)
	require.NoError(t, err)

	scenars := scenario.NewSet(tbl)
	gpr := evaluator.NewGprFile(raw.Path, tbl)
	require.NoError(t, gpr.Process(raw.Name, raw.Body, nil, nil, scenars))
	return gpr, scenars, tbl
}

func TestAttributesRendersOneLinePerScenarioSplit(t *testing.T) {
	gpr, scenars, tbl := process(t, "a.gpr", `project A is
                type Mode_Type is ("debug", "release");
                Mode : Mode_Type := external ("MODE", "debug");
                package Compiler is
                   case Mode is
                      when "debug" =>
                         for Switches ("ada") use ("-g");
                      when "release" =>
                         for Switches ("ada") use ("-O2");
                   end case;
                end Compiler;
             end A;`)

	env := query.NewEnvironment(nil, scenars, tbl)
	env.GPRs["a.gpr"] = gpr

	out, err := env.Attributes("a.gpr")
	require.NoError(t, err)
	require.Contains(t, out, "compiler:")
	require.Contains(t, out, "switches (ada):")
	require.Contains(t, out, "MODE=debug")
	require.Contains(t, out, "-g")
	require.Contains(t, out, "MODE=release")
	require.Contains(t, out, "-O2")
}

func TestAttributesUnknownProjectReturnsNotFound(t *testing.T) {
	tbl := strintern.New()
	env := query.NewEnvironment(nil, scenario.NewSet(tbl), tbl)
	_, err := env.Attributes("missing.gpr")
	require.Error(t, err)
}
