package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/strintern"
	"github.com/briot/gprdeps/internal/types"
)

func TestNewAttrNameNoIndex(t *testing.T) {
	n, err := types.NewAttrName("source_dirs", nil)
	require.NoError(t, err)
	require.Equal(t, types.NameSourceDirs, n.Kind)
}

func TestNewAttrNameWithIndex(t *testing.T) {
	tbl := strintern.New()
	idx := types.NewStringOrOthersStr(tbl.Intern("ada"))
	n, err := types.NewAttrName("switches", &idx)
	require.NoError(t, err)
	require.Equal(t, types.NameSwitches, n.Kind)
	require.Equal(t, "ada", n.Index.String(tbl))
}

func TestNewAttrNameUnknown(t *testing.T) {
	_, err := types.NewAttrName("bogus", nil)
	require.Error(t, err)
}

func TestNewAttrNameOthersRejectedWhereNotAllowed(t *testing.T) {
	idx := types.Others()
	_, err := types.NewAttrName("executable", &idx)
	require.Error(t, err)
}

func TestNewPackageName(t *testing.T) {
	p, ok := types.NewPackageName("naming")
	require.True(t, ok)
	require.Equal(t, types.PackageNaming, p)

	_, ok = types.NewPackageName("not_a_package")
	require.False(t, ok)
}
