package strintern_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/strintern"
)

func TestInternRoundTrip(t *testing.T) {
	tbl := strintern.New()
	id := tbl.Intern("Source_Dirs")
	require.Equal(t, "Source_Dirs", tbl.Lookup(id))
}

func TestInternDeduplicates(t *testing.T) {
	tbl := strintern.New()
	a := tbl.Intern("Naming")
	b := tbl.Intern("Naming")
	require.Equal(t, a, b)
	require.Equal(t, 1, tbl.Len())
}

func TestInternEmptyString(t *testing.T) {
	tbl := strintern.New()
	require.Equal(t, strintern.Empty, tbl.Intern(""))
	require.Equal(t, "", tbl.Lookup(strintern.Empty))
}

func TestInternConcurrent(t *testing.T) {
	tbl := strintern.New()
	var wg sync.WaitGroup
	ids := make([]strintern.ID, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = tbl.Intern("shared_name")
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		require.Equal(t, ids[0], id)
	}
}
