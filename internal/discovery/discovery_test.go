package discovery_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/discovery"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestFindDiscoversProjectFilesAcrossSubdirectories(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.gpr":         "project A is end A;",
		"sub/b.gpr":     "project B is end B;",
		"sub/notes.txt": "not a project",
	})

	found, err := discovery.Find(context.Background(), []string{root}, nil, false)
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Contains(t, found, filepath.Join(root, "a.gpr"))
	require.Contains(t, found, filepath.Join(root, "sub", "b.gpr"))
}

func TestFindSkipsBuiltinJunkDirectories(t *testing.T) {
	root := writeTree(t, map[string]string{
		".git/hooks/pre-commit.gpr": "project Fake is end Fake;",
		"real.gpr":                  "project Real is end Real;",
	})

	found, err := discovery.Find(context.Background(), []string{root}, nil, false)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "real.gpr")}, found)
}

func TestFindHonoursExcludePatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"obj/generated.gpr": "project Gen is end Gen;",
		"src/real.gpr":      "project Real is end Real;",
	})

	found, err := discovery.Find(context.Background(), []string{root}, []string{"**/obj/**"}, false)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "src", "real.gpr")}, found)
}

func TestFindTreatsAnExplicitProjectFileAsARoot(t *testing.T) {
	root := writeTree(t, map[string]string{
		"only.gpr": "project Only is end Only;",
	})
	gpr := filepath.Join(root, "only.gpr")

	found, err := discovery.Find(context.Background(), []string{gpr}, nil, false)
	require.NoError(t, err)
	require.Equal(t, []string{gpr}, found)
}

func TestFindDedupsWhenRootsOverlap(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.gpr": "project A is end A;",
	})

	found, err := discovery.Find(context.Background(), []string{root, root}, nil, false)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "a.gpr")}, found)
}

func TestFindResolveSymbolicLinksDedupsSameFileReachedTwice(t *testing.T) {
	root := writeTree(t, map[string]string{
		"real/a.gpr": "project A is end A;",
	})
	link := filepath.Join(root, "alias")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), link))

	found, err := discovery.Find(context.Background(), []string{root}, nil, true)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "real", "a.gpr")}, found)
}

func TestFindWithoutResolveSymbolicLinksReportsBothPaths(t *testing.T) {
	root := writeTree(t, map[string]string{
		"real/a.gpr": "project A is end A;",
	})
	link := filepath.Join(root, "alias")
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), link))

	found, err := discovery.Find(context.Background(), []string{root}, nil, false)
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestListFilesReturnsOnlyRegularFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/pkg.ads": "package Pkg is end Pkg;",
		"src/pkg.adb": "package body Pkg is end Pkg;",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "subdir"), 0o755))

	files := discovery.ListFiles(filepath.Join(root, "src"))
	require.Len(t, files, 2)
}

func TestListFilesOnMissingDirectoryReturnsEmpty(t *testing.T) {
	require.Empty(t, discovery.ListFiles(filepath.Join(t.TempDir(), "missing")))
}
