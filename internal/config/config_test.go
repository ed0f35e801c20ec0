package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/briot/gprdeps/internal/config"
)

func TestLoadKDLMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := config.LoadKDL(dir)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoadKDLParsesSettings(t *testing.T) {
	dir := t.TempDir()
	content := `
report_missing_source_dirs true
trim true
root "src" "vendor/rts"
exclude "**/obj/**" "**/.git/**"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gprdeps.kdl"), []byte(content), 0o644))

	cfg, ok, err := config.LoadKDL(dir)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, cfg.ReportMissingSourceDirs)
	require.True(t, cfg.Trim)
	require.Len(t, cfg.Root, 2)
	require.Len(t, cfg.Exclude, 2)
}

func TestDefaultSettingsCarryBuiltinExclusions(t *testing.T) {
	cfg := config.Default()
	require.NotEmpty(t, cfg.Exclude)
}
