package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/scanner"
)

func TestScanAdaCollectsWithClauseImports(t *testing.T) {
	res, err := scanner.ScanAda(`
		with Ada.Text_IO;
		with Foo.Bar, Baz;
		package Pkg is
		end Pkg;
	`)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"ada", "text_io"},
		{"foo", "bar"},
		{"baz"},
	}, res.Imports)
	require.Equal(t, scanner.AdaUnit, res.Kind)
}

func TestScanAdaIgnoresUseClausesAsImports(t *testing.T) {
	res, err := scanner.ScanAda(`
		with Foo;
		use Foo;
		procedure Main is
		begin
		   null;
		end Main;
	`)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"foo"}}, res.Imports)
}

func TestScanAdaDetectsSeparateSubunit(t *testing.T) {
	res, err := scanner.ScanAda(`
		separate (Parent.Child)
		procedure Helper is
		begin
		   null;
		end Helper;
	`)
	require.NoError(t, err)
	require.Equal(t, scanner.AdaSeparate, res.Kind)
	require.Equal(t, []string{"parent", "child"}, res.Parent)
}

func TestScanAdaSkipsPragmasAndComments(t *testing.T) {
	res, err := scanner.ScanAda(`
		pragma Style_Checks (Off);
		-- a comment mentioning with Fake; that must not be parsed
		with Real_Dep;
		function F return Integer is
		begin
		   return 0;
		end F;
	`)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"real_dep"}}, res.Imports)
}

func TestScanAdaSkipsGenericFormalParameters(t *testing.T) {
	res, err := scanner.ScanAda(`
		with Dep_Before;
		generic
		   with procedure P;
		package Generic_Pkg is
		end Generic_Pkg;
	`)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"dep_before"}}, res.Imports)
}

func TestScanAdaRejectsMalformedContextClause(t *testing.T) {
	_, err := scanner.ScanAda(`with ;`)
	require.Error(t, err)
}
