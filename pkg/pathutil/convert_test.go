package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			absPath:  "/home/user/project/src/main.gpr",
			rootDir:  "/home/user/project",
			expected: "src/main.gpr",
		},
		{
			name:     "nested relative path",
			absPath:  "/home/user/project/libs/core/core.gpr",
			rootDir:  "/home/user/project",
			expected: "libs/core/core.gpr",
		},
		{
			name:     "same directory",
			absPath:  "/home/user/project",
			rootDir:  "/home/user/project",
			expected: ".",
		},
		{
			name:     "already relative path",
			absPath:  "src/main.gpr",
			rootDir:  "/home/user/project",
			expected: "src/main.gpr",
		},
		{
			name:     "path outside root - fallback to absolute",
			absPath:  "/other/location/file.gpr",
			rootDir:  "/home/user/project",
			expected: "/other/location/file.gpr",
		},
		{
			name:     "empty root directory",
			absPath:  "/home/user/project/file.gpr",
			rootDir:  "",
			expected: "/home/user/project/file.gpr",
		},
		{
			name:     "empty absolute path",
			absPath:  "",
			rootDir:  "/home/user/project",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToRelative(tt.absPath, tt.rootDir)
			expected := tt.expected
			if runtime.GOOS == "windows" {
				result = filepath.ToSlash(result)
				expected = filepath.ToSlash(expected)
			}
			if result != expected {
				t.Errorf("ToRelative() = %v, want %v", result, expected)
			}
		})
	}
}

func TestToRelativeAll(t *testing.T) {
	rootDir := "/home/user/project"
	input := []string{
		"/home/user/project/src/a.gpr",
		"/home/user/project/libs/b.gpr",
		"/other/c.gpr",
	}
	want := []string{"src/a.gpr", "libs/b.gpr", "/other/c.gpr"}

	got := ToRelativeAll(input, rootDir)
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestToRelativeAllEmpty(t *testing.T) {
	if got := ToRelativeAll(nil, "/home/user/project"); len(got) != 0 {
		t.Errorf("expected empty slice, got %d elements", len(got))
	}
}
