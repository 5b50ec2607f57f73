package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	BindFlags(cmd)
	return cmd
}

func TestLoadFromFlags(t *testing.T) {
	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Set("spec", "api.yaml"))
	require.NoError(t, cmd.Flags().Set("output-dir", "out"))
	require.NoError(t, cmd.Flags().Set("package", "petstore"))
	require.NoError(t, cmd.Flags().Set("strict", "true"))

	cfg, err := Load(cmd)
	require.NoError(t, err)
	require.Equal(t, "api.yaml", cfg.Spec)
	require.Equal(t, "out", cfg.OutputDir)
	require.Equal(t, "petstore", cfg.Package)
	require.True(t, cfg.Strict)
	require.False(t, cfg.Validate)
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clientgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
spec: api.yaml
output-dir: generated
service-name: petstore
templates:
  dir: tmpl
`), 0o644))

	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Set("config", path))

	cfg, err := Load(cmd)
	require.NoError(t, err)
	require.Equal(t, "api.yaml", cfg.Spec)
	require.Equal(t, "generated", cfg.OutputDir)
	require.Equal(t, "petstore", cfg.ServiceName)
	require.Equal(t, "tmpl", cfg.Templates.Dir)
	// Package falls back to its default when neither source sets it.
	require.Equal(t, "client", cfg.Package)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clientgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
spec: file.yaml
output-dir: from-file
`), 0o644))

	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Set("config", path))
	require.NoError(t, cmd.Flags().Set("output-dir", "from-flag"))

	cfg, err := Load(cmd)
	require.NoError(t, err)
	require.Equal(t, "file.yaml", cfg.Spec)
	require.Equal(t, "from-flag", cfg.OutputDir)
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	cmd := newTestCommand()
	_, err := Load(cmd)
	require.ErrorContains(t, err, "spec file is required")

	cmd = newTestCommand()
	require.NoError(t, cmd.Flags().Set("spec", "api.yaml"))
	_, err = Load(cmd)
	require.ErrorContains(t, err, "output directory is required")
}
